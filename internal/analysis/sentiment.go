package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/15-040-GianIvander/tugas-individu3/internal/metrics"
	"github.com/15-040-GianIvander/tugas-individu3/pkg/huggingface"

	"github.com/sony/gobreaker"
)

const analyzerSentiment = "sentiment"

// ClassificationProvider is a remote text classifier. It returns the raw
// response body; the shape varies between models.
type ClassificationProvider interface {
	Name() string
	Classify(ctx context.Context, text string) (json.RawMessage, error)
}

type Classifier struct {
	apiKey   string
	timeout  time.Duration
	provider ClassificationProvider
	breaker  *gobreaker.CircuitBreaker
}

func NewClassifier(cfg Config, provider ClassificationProvider) *Classifier {
	c := &Classifier{
		apiKey:   cfg.SentimentAPIKey,
		timeout:  cfg.sentimentTimeout(),
		provider: provider,
	}

	if cfg.BreakerFailures > 0 && provider != nil {
		threshold := uint32(cfg.BreakerFailures)
		c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        provider.Name(),
			MaxRequests: 1,
			Timeout:     cfg.breakerCooldown(),
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			IsSuccessful: providerHealthy,
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Warn("classification circuit breaker state changed", "provider", name, "from", from.String(), "to", to.String())
			},
		})
	}

	return c
}

// Classify returns the sentiment of text. It never fails: a missing
// credential, a transport error, a bad status or an unreadable body all
// resolve to Unknown.
func (c *Classifier) Classify(ctx context.Context, text string) Label {
	if c.apiKey == "" || c.provider == nil {
		slog.DebugContext(ctx, "classification credential not set, sentiment is unknown")
		metrics.AnalyzerOutcomes.WithLabelValues(analyzerSentiment, metrics.OutcomeSkipped).Inc()
		return Unknown
	}

	label, err := c.classify(ctx, text)
	if err != nil {
		slog.WarnContext(ctx, "sentiment classification failed, using unknown", "provider", c.provider.Name(), "error", err)
		metrics.AnalyzerOutcomes.WithLabelValues(analyzerSentiment, metrics.OutcomeFailed).Inc()
		return Unknown
	}

	metrics.AnalyzerOutcomes.WithLabelValues(analyzerSentiment, metrics.OutcomeRemote).Inc()
	return label
}

func (c *Classifier) classify(ctx context.Context, text string) (Label, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	raw, err := c.call(ctx, text)
	metrics.ProviderRequestDuration.WithLabelValues(c.provider.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		return Unknown, err
	}

	return extractLabel(raw), nil
}

// providerHealthy reports whether err leaves the provider's health intact.
// Caller cancellation and rejected input say nothing about the provider.
func providerHealthy(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}

	var statusErr *huggingface.StatusError
	if errors.As(err, &statusErr) {
		code := statusErr.StatusCode
		return code >= 400 && code < 500 && code != http.StatusTooManyRequests && code != http.StatusUnauthorized && code != http.StatusForbidden
	}

	return false
}

func (c *Classifier) call(ctx context.Context, text string) (json.RawMessage, error) {
	if c.breaker == nil {
		return c.provider.Classify(ctx, text)
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.provider.Classify(ctx, text)
	})
	if err != nil {
		return nil, err
	}
	return out.(json.RawMessage), nil
}
