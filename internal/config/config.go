package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"

	"github.com/15-040-GianIvander/tugas-individu3/internal/analysis"
	"github.com/15-040-GianIvander/tugas-individu3/pkg/llm"
)

type Config struct {
	Port        string `env:"PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`
	FrontendURL string `env:"FRONTEND_URL"`
	LogLevel    string `env:"LOG_LEVEL" default:"info"`
	LogFormat   string `env:"LOG_FORMAT" default:"text"`

	HFAPIKey                string        `env:"HF_API_KEY"`
	HFModelURL              string        `env:"HF_MODEL_URL" default:"https://api-inference.huggingface.co/models/cardiffnlp/twitter-roberta-base-sentiment"`
	SentimentTimeout        time.Duration `env:"SENTIMENT_TIMEOUT" default:"20s"`
	SentimentBreakerFailure int           `env:"SENTIMENT_BREAKER_FAILURES" default:"5"`
	SentimentBreakerCool    time.Duration `env:"SENTIMENT_BREAKER_COOLDOWN" default:"30s"`

	GenerationProvider string        `env:"GENERATION_PROVIDER" default:"gemini"`
	GeminiAPIKey       string        `env:"GEMINI_API_KEY"`
	OpenAIAPIKey       string        `env:"OPENAI_API_KEY"`
	AnthropicAPIKey    string        `env:"ANTHROPIC_API_KEY"`
	GenerationModel    string        `env:"GENERATION_MODEL"`
	GenerationTimeout  time.Duration `env:"GENERATION_TIMEOUT" default:"20s"`

	CacheTTL            time.Duration `env:"CACHE_TTL" default:"24h"`
	ReanalyzeMaxRetries int           `env:"REANALYZE_MAX_RETRIES" default:"3"`
	ReanalyzeBackoff    time.Duration `env:"REANALYZE_BACKOFF" default:"5s"`
	MaxReviewChars      int           `env:"MAX_REVIEW_CHARS" default:"10000"`
}

// Load reads an optional .env file and then the process environment.
// Provider credentials are optional; their absence only degrades analysis.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.SentimentTimeout <= 0 {
		return errors.New("SENTIMENT_TIMEOUT must be positive")
	}
	if cfg.GenerationTimeout <= 0 {
		return errors.New("GENERATION_TIMEOUT must be positive")
	}
	if cfg.SentimentBreakerFailure < 0 {
		return errors.New("SENTIMENT_BREAKER_FAILURES must not be negative")
	}
	switch strings.ToLower(cfg.GenerationProvider) {
	case "", llm.ProviderGemini, llm.ProviderOpenAI, llm.ProviderAnthropic:
	default:
		return fmt.Errorf("GENERATION_PROVIDER %q is not supported", cfg.GenerationProvider)
	}
	if cfg.MaxReviewChars < 1 {
		return errors.New("MAX_REVIEW_CHARS must be at least 1")
	}
	if cfg.ReanalyzeMaxRetries < 1 {
		return errors.New("REANALYZE_MAX_RETRIES must be at least 1")
	}
	return nil
}

// RequireDatabase reports a missing DATABASE_URL for binaries that persist reviews.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	return nil
}

// GenerationAPIKey returns the credential of the configured generation provider.
func (c *Config) GenerationAPIKey() string {
	switch strings.ToLower(c.GenerationProvider) {
	case llm.ProviderOpenAI:
		return c.OpenAIAPIKey
	case llm.ProviderAnthropic:
		return c.AnthropicAPIKey
	default:
		return c.GeminiAPIKey
	}
}

func (c *Config) Analysis() analysis.Config {
	return analysis.Config{
		SentimentAPIKey:    c.HFAPIKey,
		SentimentURL:       c.HFModelURL,
		SentimentTimeout:   c.SentimentTimeout,
		GenerationProvider: c.GenerationProvider,
		GenerationAPIKey:   c.GenerationAPIKey(),
		GenerationModel:    c.GenerationModel,
		GenerationTimeout:  c.GenerationTimeout,
		BreakerFailures:    c.SentimentBreakerFailure,
		BreakerCooldown:    c.SentimentBreakerCool,
	}
}

// AllowedOrigins lists the CORS origins of the review frontend.
func (c *Config) AllowedOrigins() []string {
	origins := []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:3000"}
	if c.FrontendURL != "" {
		origins = append(origins, c.FrontendURL)
	}
	return origins
}
