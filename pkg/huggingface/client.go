package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultModelURL = "https://api-inference.huggingface.co/models/cardiffnlp/twitter-roberta-base-sentiment"

// maxBodyBytes caps how much of a response body is read into memory.
const maxBodyBytes = 1 << 20

// StatusError is returned when the inference endpoint answers with anything
// other than 200 OK.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("huggingface returned %d: %s", e.StatusCode, e.Body)
}

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

// Client calls a hosted text-classification model.
type Client struct {
	apiKey     string
	modelURL   string
	httpClient *http.Client
}

func NewClient(apiKey, modelURL string, timeout time.Duration) *Client {
	if modelURL == "" {
		modelURL = DefaultModelURL
	}
	return &Client{
		apiKey:   apiKey,
		modelURL: modelURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Name() string {
	return "huggingface"
}

// Classify posts text to the model endpoint and returns the raw JSON body.
// The response shape depends on the model, so decoding is left to the caller.
func (c *Client) Classify(ctx context.Context, text string) (json.RawMessage, error) {
	body, err := json.Marshal(inferenceRequest{Inputs: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.modelURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("huggingface request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if !json.Valid(respBody) {
		return nil, fmt.Errorf("invalid JSON from huggingface: %s", respBody)
	}

	return respBody, nil
}
