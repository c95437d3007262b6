package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/15-040-GianIvander/tugas-individu3/pkg/huggingface"

	"github.com/go-playground/assert/v2"
)

type fakeProvider struct {
	calls atomic.Int32
	raw   string
	err   error
	delay time.Duration
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Classify(ctx context.Context, text string) (json.RawMessage, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.raw), nil
}

func TestClassify_NoCredentialSkipsNetwork(t *testing.T) {
	p := &fakeProvider{raw: `[[{"label":"POSITIVE","score":0.95}]]`}
	c := NewClassifier(Config{}, p)

	got := c.Classify(context.Background(), "Great product.")

	assert.Equal(t, Unknown, got)
	assert.Equal(t, int32(0), p.calls.Load())
}

func TestClassify_NilProvider(t *testing.T) {
	c := NewClassifier(Config{SentimentAPIKey: "hf_key"}, nil)
	assert.Equal(t, Unknown, c.Classify(context.Background(), "text"))
}

func TestClassify_Positive(t *testing.T) {
	p := &fakeProvider{raw: `[[{"label":"POSITIVE","score":0.95}]]`}
	c := NewClassifier(Config{SentimentAPIKey: "hf_key"}, p)

	assert.Equal(t, Positive, c.Classify(context.Background(), "Great product."))
	assert.Equal(t, int32(1), p.calls.Load())
}

func TestClassify_PassthroughLabel(t *testing.T) {
	p := &fakeProvider{raw: `[[{"label":"LABEL_2","score":0.9}]]`}
	c := NewClassifier(Config{SentimentAPIKey: "hf_key"}, p)

	assert.Equal(t, Label("LABEL_2"), c.Classify(context.Background(), "Great product."))
}

func TestClassify_ProviderErrorIsUnknown(t *testing.T) {
	p := &fakeProvider{err: errors.New("connection refused")}
	c := NewClassifier(Config{SentimentAPIKey: "hf_key"}, p)

	assert.Equal(t, Unknown, c.Classify(context.Background(), "text"))
	assert.Equal(t, int32(1), p.calls.Load())
}

func TestClassify_TimeoutIsUnknown(t *testing.T) {
	p := &fakeProvider{raw: `[[{"label":"POSITIVE"}]]`, delay: time.Second}
	c := NewClassifier(Config{SentimentAPIKey: "hf_key", SentimentTimeout: 20 * time.Millisecond}, p)

	start := time.Now()
	got := c.Classify(context.Background(), "text")

	assert.Equal(t, Unknown, got)
	assert.Equal(t, true, time.Since(start) < 500*time.Millisecond)
}

func TestClassify_CancelledContextIsUnknown(t *testing.T) {
	p := &fakeProvider{raw: `[[{"label":"POSITIVE"}]]`, delay: time.Second}
	c := NewClassifier(Config{SentimentAPIKey: "hf_key"}, p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, Unknown, c.Classify(ctx, "text"))
}

func TestClassify_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	p := &fakeProvider{err: errors.New("503")}
	c := NewClassifier(Config{
		SentimentAPIKey: "hf_key",
		BreakerFailures: 2,
		BreakerCooldown: time.Minute,
	}, p)

	for i := 0; i < 5; i++ {
		assert.Equal(t, Unknown, c.Classify(context.Background(), "text"))
	}

	assert.Equal(t, int32(2), p.calls.Load())
}

func TestClassify_BreakerIgnoresCallerCancellation(t *testing.T) {
	p := &fakeProvider{raw: `[[{"label":"POSITIVE"}]]`, delay: 10 * time.Millisecond}
	c := NewClassifier(Config{
		SentimentAPIKey: "hf_key",
		BreakerFailures: 2,
		BreakerCooldown: time.Minute,
	}, p)

	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.Equal(t, Unknown, c.Classify(ctx, "text"))
	}

	assert.Equal(t, Positive, c.Classify(context.Background(), "text"))
	assert.Equal(t, int32(4), p.calls.Load())
}

type scriptedProvider struct {
	calls atomic.Int32
	errs  []error
	raw   string
}

func (s *scriptedProvider) Name() string { return "scripted" }

func (s *scriptedProvider) Classify(ctx context.Context, text string) (json.RawMessage, error) {
	n := int(s.calls.Add(1)) - 1
	if n < len(s.errs) && s.errs[n] != nil {
		return nil, s.errs[n]
	}
	return json.RawMessage(s.raw), nil
}

func TestClassify_BreakerIgnoresRejectedInput(t *testing.T) {
	badInput := &huggingface.StatusError{StatusCode: http.StatusBadRequest, Body: "input too long"}
	p := &scriptedProvider{
		errs: []error{badInput, badInput, badInput},
		raw:  `[[{"label":"NEGATIVE"}]]`,
	}
	c := NewClassifier(Config{
		SentimentAPIKey: "hf_key",
		BreakerFailures: 2,
		BreakerCooldown: time.Minute,
	}, p)

	for i := 0; i < 3; i++ {
		assert.Equal(t, Unknown, c.Classify(context.Background(), "text"))
	}

	assert.Equal(t, Negative, c.Classify(context.Background(), "text"))
	assert.Equal(t, int32(4), p.calls.Load())
}

func TestProviderHealthy(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, true},
		{"cancelled", context.Canceled, true},
		{"wrapped cancel", fmt.Errorf("post: %w", context.Canceled), true},
		{"deadline", context.DeadlineExceeded, false},
		{"bad request", &huggingface.StatusError{StatusCode: 400}, true},
		{"unprocessable", &huggingface.StatusError{StatusCode: 422}, true},
		{"rate limited", &huggingface.StatusError{StatusCode: 429}, false},
		{"unauthorized", &huggingface.StatusError{StatusCode: 401}, false},
		{"unavailable", &huggingface.StatusError{StatusCode: 503}, false},
		{"transport", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, providerHealthy(tt.err))
		})
	}
}

func TestClassify_HuggingFaceEndToEnd(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   Label
	}{
		{"nested positive", http.StatusOK, `[[{"label":"POSITIVE","score":0.95},{"label":"NEGATIVE","score":0.05}]]`, Positive},
		{"single object", http.StatusOK, `{"label":"negative","score":0.91}`, Negative},
		{"flat neutral", http.StatusOK, `[{"label":"neutral","score":0.6}]`, Neutral},
		{"passthrough", http.StatusOK, `[[{"label":"LABEL_2","score":0.9}]]`, Label("LABEL_2")},
		{"service unavailable", http.StatusServiceUnavailable, `{"error":"positive vibes only"}`, Unknown},
		{"unauthorized", http.StatusUnauthorized, `{"error":"Invalid token"}`, Unknown},
		{"not json", http.StatusOK, `<html>oops</html>`, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			cfg := Config{SentimentAPIKey: "hf_key", SentimentURL: srv.URL}
			c := NewClassifier(cfg, huggingface.NewClient(cfg.SentimentAPIKey, cfg.SentimentURL, time.Second))

			assert.Equal(t, tt.want, c.Classify(context.Background(), "text"))
		})
	}
}
