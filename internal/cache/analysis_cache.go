package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/15-040-GianIvander/tugas-individu3/internal/analysis"
	"github.com/15-040-GianIvander/tugas-individu3/internal/metrics"
)

const keyPrefix = "reviews:analysis:"

type Analyzer interface {
	Analyze(ctx context.Context, input analysis.ReviewInput) analysis.Result
}

// Policy decides which results are final enough to keep.
type Policy interface {
	Cacheable(input analysis.ReviewInput, res analysis.Result) bool
}

// CachedAnalyzer stores final analysis results in Redis keyed by the
// SHA-256 of the review text. Concurrent misses for the same text share a
// single analysis.
type CachedAnalyzer struct {
	next   Analyzer
	client *redis.Client
	ttl    time.Duration
	policy Policy
	group  singleflight.Group
}

func NewCachedAnalyzer(next Analyzer, client *redis.Client, ttl time.Duration, policy Policy) *CachedAnalyzer {
	return &CachedAnalyzer{next: next, client: client, ttl: ttl, policy: policy}
}

func (c *CachedAnalyzer) Analyze(ctx context.Context, input analysis.ReviewInput) analysis.Result {
	key := Key(input.Text)

	if res, ok := c.lookup(ctx, key); ok {
		return res
	}

	v, _, _ := c.group.Do(key, func() (interface{}, error) {
		if res, ok := c.lookup(ctx, key); ok {
			return res, nil
		}

		res := c.next.Analyze(ctx, input)
		if c.policy.Cacheable(input, res) {
			c.store(ctx, key, res)
		}
		return res, nil
	})

	return v.(analysis.Result)
}

func (c *CachedAnalyzer) lookup(ctx context.Context, key string) (analysis.Result, bool) {
	var res analysis.Result

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheRequests.WithLabelValues("miss").Inc()
		return res, false
	}
	if err != nil {
		slog.WarnContext(ctx, "analysis cache lookup failed", "error", err)
		metrics.CacheRequests.WithLabelValues("error").Inc()
		return res, false
	}

	if err := json.Unmarshal(data, &res); err != nil {
		slog.WarnContext(ctx, "corrupt analysis cache entry", "key", key, "error", err)
		metrics.CacheRequests.WithLabelValues("error").Inc()
		return res, false
	}

	metrics.CacheRequests.WithLabelValues("hit").Inc()
	return res, true
}

func (c *CachedAnalyzer) store(ctx context.Context, key string, res analysis.Result) {
	data, err := json.Marshal(res)
	if err != nil {
		slog.WarnContext(ctx, "error encoding analysis result", "error", err)
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "analysis cache store failed", "error", err)
	}
}

func Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return keyPrefix + hex.EncodeToString(sum[:])
}
