package analysis

import "time"

const (
	DefaultSentimentTimeout  = 20 * time.Second
	DefaultGenerationTimeout = 20 * time.Second
	DefaultBreakerCooldown   = 30 * time.Second
)

// Config carries the credentials and limits the analyzers are built with.
// Either key may be empty; the matching analyzer then runs degraded.
type Config struct {
	SentimentAPIKey  string
	SentimentURL     string
	SentimentTimeout time.Duration

	GenerationProvider string
	GenerationAPIKey   string
	GenerationModel    string
	GenerationTimeout  time.Duration

	// BreakerFailures is the number of consecutive classification failures
	// that opens the circuit. Zero disables the breaker.
	BreakerFailures int
	BreakerCooldown time.Duration
}

func (c Config) sentimentTimeout() time.Duration {
	if c.SentimentTimeout <= 0 {
		return DefaultSentimentTimeout
	}
	return c.SentimentTimeout
}

func (c Config) generationTimeout() time.Duration {
	if c.GenerationTimeout <= 0 {
		return DefaultGenerationTimeout
	}
	return c.GenerationTimeout
}

func (c Config) breakerCooldown() time.Duration {
	if c.BreakerCooldown <= 0 {
		return DefaultBreakerCooldown
	}
	return c.BreakerCooldown
}

// Retryable reports whether running the analysis again could improve r.
// An unknown sentiment without a classification credential is the steady
// state, not a failure.
func (c Config) Retryable(r Result) bool {
	if !r.Degraded() {
		return false
	}
	return r.KeyPoints == KeyPointsFailed || c.SentimentAPIKey != ""
}

// Cacheable reports whether r is final for input. Local key points stand in
// for a failed remote call when a generation credential is set, so they are
// not kept.
func (c Config) Cacheable(input ReviewInput, r Result) bool {
	if c.Retryable(r) {
		return false
	}
	if c.GenerationAPIKey != "" && r.KeyPoints == FallbackKeyPoints(input.Text) {
		return false
	}
	return true
}
