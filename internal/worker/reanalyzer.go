package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/15-040-GianIvander/tugas-individu3/db"
	"github.com/15-040-GianIvander/tugas-individu3/internal/analysis"
	"github.com/15-040-GianIvander/tugas-individu3/internal/metrics"
	"github.com/15-040-GianIvander/tugas-individu3/internal/model"
)

const DefaultPopTimeout = 5 * time.Second

type Outcome string

const (
	OutcomeUpdated   Outcome = "updated"
	OutcomeRequeued  Outcome = "degraded"
	OutcomeExhausted Outcome = "exhausted"
	OutcomeNotFound  Outcome = "not_found"
	OutcomeInvalid   Outcome = "invalid"
	OutcomeFailed    Outcome = "failed"
)

type Store interface {
	GetErrorCount(ctx context.Context, reviewID int64) (int, error)
	GetReviewByID(ctx context.Context, id int64) (*model.Review, error)
	SaveError(ctx context.Context, reviewID int64, errMsg string, errType string) error
	UpdateAnalysis(ctx context.Context, id int64, sentiment, keyPoints string) error
}

type Analyzer interface {
	Analyze(ctx context.Context, input analysis.ReviewInput) analysis.Result
}

type RetryPolicy interface {
	Retryable(res analysis.Result) bool
}

type Requeuer interface {
	Requeue(ctx context.Context, reviewID int64) error
}

type Queue interface {
	Requeuer
	Pop(ctx context.Context, timeout time.Duration) (string, error)
}

// Reanalyzer consumes review ids from the reanalysis queue and runs the
// analysis again until the result is final or the retry cap is reached.
type Reanalyzer struct {
	store      Store
	analyzer   Analyzer
	retry      RetryPolicy
	queue      Queue
	dead       Requeuer
	maxRetries int
	backoff    time.Duration
	popTimeout time.Duration
}

func NewReanalyzer(store Store, analyzer Analyzer, retry RetryPolicy, queue Queue, dead Requeuer, maxRetries int, backoff time.Duration) *Reanalyzer {
	return &Reanalyzer{
		store:      store,
		analyzer:   analyzer,
		retry:      retry,
		queue:      queue,
		dead:       dead,
		maxRetries: maxRetries,
		backoff:    backoff,
		popTimeout: DefaultPopTimeout,
	}
}

// Run processes queued ids until ctx is done or the queue fails.
func (w *Reanalyzer) Run(ctx context.Context) error {
	for {
		id, err := w.queue.Pop(ctx, w.popTimeout)
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, db.ErrQueueEmpty) {
			continue
		}
		if err != nil {
			return fmt.Errorf("error popping from queue: %w", err)
		}

		outcome, err := w.ProcessOne(ctx, id)
		metrics.Reanalysis.WithLabelValues(string(outcome)).Inc()
		if err != nil {
			slog.ErrorContext(ctx, "reanalysis failed", "id", id, "outcome", outcome, "error", err)
		}

		if outcome != OutcomeRequeued {
			continue
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(w.backoff):
		}
	}
}

// ProcessOne handles a single queued review id.
func (w *Reanalyzer) ProcessOne(ctx context.Context, id string) (Outcome, error) {
	reviewID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return OutcomeInvalid, fmt.Errorf("invalid review id %q: %w", id, err)
	}

	errorCount, err := w.store.GetErrorCount(ctx, reviewID)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("error getting error count: %w", err)
	}

	if errorCount >= w.maxRetries {
		slog.WarnContext(ctx, "review exceeded max retries, moving to dead letter queue", "review_id", reviewID, "error_count", errorCount)
		if err := w.dead.Requeue(ctx, reviewID); err != nil {
			return OutcomeExhausted, fmt.Errorf("error pushing to dead letter queue: %w", err)
		}
		return OutcomeExhausted, nil
	}

	review, err := w.store.GetReviewByID(ctx, reviewID)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("error getting review: %w", err)
	}

	if review == nil {
		slog.WarnContext(ctx, "review not found in DB", "review_id", reviewID)
		return OutcomeNotFound, nil
	}

	result := w.analyzer.Analyze(ctx, analysis.ReviewInput{Text: review.Text})

	if w.retry.Retryable(result) {
		slog.WarnContext(ctx, "reanalysis still degraded", "review_id", reviewID, "sentiment", result.Sentiment)

		msg := fmt.Sprintf("degraded result: sentiment=%s key_points_failed=%t", result.Sentiment, result.KeyPoints == analysis.KeyPointsFailed)
		if err := w.store.SaveError(ctx, reviewID, msg, model.ErrorTypeDegraded); err != nil {
			slog.ErrorContext(ctx, "error saving analysis error", "error", err, "review_id", reviewID)
		}

		if err := w.queue.Requeue(ctx, reviewID); err != nil {
			return OutcomeRequeued, fmt.Errorf("error requeueing review: %w", err)
		}
		return OutcomeRequeued, nil
	}

	if err := w.store.UpdateAnalysis(ctx, reviewID, string(result.Sentiment), result.KeyPoints); err != nil {
		return OutcomeFailed, fmt.Errorf("error updating review analysis: %w", err)
	}

	slog.InfoContext(ctx, "review reanalyzed successfully", "review_id", reviewID, "sentiment", result.Sentiment)
	return OutcomeUpdated, nil
}
