package config

import (
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HF_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()

	assert.Equal(t, nil, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 20*time.Second, cfg.SentimentTimeout)
	assert.Equal(t, 20*time.Second, cfg.GenerationTimeout)
	assert.Equal(t, "gemini", cfg.GenerationProvider)
	assert.Equal(t, 3, cfg.ReanalyzeMaxRetries)
	assert.Equal(t, 10000, cfg.MaxReviewChars)
	assert.Equal(t, "", cfg.Analysis().SentimentAPIKey)
	assert.Equal(t, "", cfg.Analysis().GenerationAPIKey)
	assert.NotEqual(t, nil, cfg.RequireDatabase())
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/reviews")
	t.Setenv("HF_API_KEY", "hf_abc")
	t.Setenv("GEMINI_API_KEY", "gm_abc")
	t.Setenv("SENTIMENT_TIMEOUT", "5s")
	t.Setenv("FRONTEND_URL", "https://reviews.example.com")

	cfg, err := Load()

	assert.Equal(t, nil, err)
	assert.Equal(t, nil, cfg.RequireDatabase())

	ac := cfg.Analysis()
	assert.Equal(t, "hf_abc", ac.SentimentAPIKey)
	assert.Equal(t, "gm_abc", ac.GenerationAPIKey)
	assert.Equal(t, 5*time.Second, ac.SentimentTimeout)
	assert.Equal(t, "gemini", ac.GenerationProvider)
	assert.Equal(t, 4, len(cfg.AllowedOrigins()))
	assert.Equal(t, "https://reviews.example.com", cfg.AllowedOrigins()[3])
}

func TestGenerationAPIKey_FollowsProvider(t *testing.T) {
	cfg := &Config{
		GeminiAPIKey:    "gm",
		OpenAIAPIKey:    "oa",
		AnthropicAPIKey: "an",
	}

	tests := []struct {
		provider string
		want     string
	}{
		{"gemini", "gm"},
		{"", "gm"},
		{"openai", "oa"},
		{"Anthropic", "an"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg.GenerationProvider = tt.provider
			assert.Equal(t, tt.want, cfg.GenerationAPIKey())
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"zero sentiment timeout", "SENTIMENT_TIMEOUT", "0s"},
		{"negative breaker", "SENTIMENT_BREAKER_FAILURES", "-1"},
		{"zero review length", "MAX_REVIEW_CHARS", "0"},
		{"not a duration", "GENERATION_TIMEOUT", "soon"},
		{"unsupported provider", "GENERATION_PROVIDER", "mistral"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.NotEqual(t, nil, err)
		})
	}
}
