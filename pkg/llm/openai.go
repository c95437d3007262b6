package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	geminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta/openai/"
	geminiDefaultModel = "gemini-2.0-flash"
)

const keyPointSystemPrompt = `You summarize product reviews for a store's review dashboard.

Rules:
- Exactly 3 bullet points, each starting with "- "
- One short sentence per bullet
- Keep product names, numbers and concrete complaints or praise
- No preamble, no closing remarks`

// OpenAIClient talks to any OpenAI-compatible chat completions API. Gemini is
// served through Google's compatibility endpoint with the same client.
type OpenAIClient struct {
	client       *openai.Client
	defaultModel string
	name         string
}

func NewOpenAIClient(apiKey string, opts ...option.RequestOption) *OpenAIClient {
	return newOpenAICompatible(apiKey, "", openai.ChatModelGPT4oMini, ProviderOpenAI, opts...)
}

func NewGeminiClient(apiKey string, opts ...option.RequestOption) *OpenAIClient {
	return newOpenAICompatible(apiKey, geminiBaseURL, geminiDefaultModel, ProviderGemini, opts...)
}

func newOpenAICompatible(apiKey, baseURL, defaultModel, name string, opts ...option.RequestOption) *OpenAIClient {
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		base = append(base, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(append(base, opts...)...)
	return &OpenAIClient{
		client:       &client,
		defaultModel: defaultModel,
		name:         name,
	}
}

func (c *OpenAIClient) Name() string {
	return c.name
}

func (c *OpenAIClient) DefaultModel() string {
	return c.defaultModel
}

func (c *OpenAIClient) Generate(ctx context.Context, model, prompt string) (*Generation, error) {
	return c.complete(ctx, model, []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(prompt),
	})
}

func (c *OpenAIClient) Model(name string) GenerativeModel {
	if name == "" {
		name = c.defaultModel
	}
	return &openAIModel{client: c, model: name, system: keyPointSystemPrompt}
}

type openAIModel struct {
	client *OpenAIClient
	model  string
	system string
}

func (m *openAIModel) GenerateContent(ctx context.Context, prompt string) (*Generation, error) {
	return m.client.complete(ctx, m.model, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(m.system),
		openai.UserMessage(prompt),
	})
}

func (c *OpenAIClient) complete(ctx context.Context, model string, messages []openai.ChatCompletionMessageParamUnion) (*Generation, error) {
	if model == "" {
		model = c.defaultModel
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	})
	if err != nil {
		return nil, fmt.Errorf("%s API error: %w", c.name, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from %s", c.name)
	}

	gen := &Generation{
		Text:      cleanGeneratedText(resp.Choices[0].Message.Content),
		Raw:       resp.RawJSON(),
		ModelUsed: model,
	}
	if gen.String() == "" {
		return nil, fmt.Errorf("%s: %w", c.name, ErrEmptyGeneration)
	}

	return gen, nil
}
