package analysis

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/15-040-GianIvander/tugas-individu3/internal/metrics"
)

type SentimentClassifier interface {
	Classify(ctx context.Context, text string) Label
}

type KeyPointExtractor interface {
	Extract(ctx context.Context, text string) string
}

// Analyzer runs the classifier and the extractor for one review.
type Analyzer struct {
	classifier SentimentClassifier
	extractor  KeyPointExtractor
}

func NewAnalyzer(classifier SentimentClassifier, extractor KeyPointExtractor) *Analyzer {
	return &Analyzer{classifier: classifier, extractor: extractor}
}

// Analyze runs both analyzers concurrently and always returns a complete
// Result. A panic in either analyzer is contained and replaced with that
// analyzer's failure value.
func (a *Analyzer) Analyze(ctx context.Context, input ReviewInput) Result {
	start := time.Now()
	defer func() {
		metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	}()

	var (
		sentiment Label
		keyPoints string
		wg        sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		sentiment = a.classify(ctx, input.Text)
	}()
	go func() {
		defer wg.Done()
		keyPoints = a.extract(ctx, input.Text)
	}()
	wg.Wait()

	return Result{Sentiment: sentiment, KeyPoints: keyPoints}
}

func (a *Analyzer) classify(ctx context.Context, text string) (label Label) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "sentiment analysis failed, using unknown", "panic", r)
			metrics.AnalyzerOutcomes.WithLabelValues(analyzerSentiment, metrics.OutcomePanic).Inc()
			label = Unknown
		}
	}()
	return a.classifier.Classify(ctx, text)
}

func (a *Analyzer) extract(ctx context.Context, text string) (points string) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "key point extraction failed, using sentinel", "panic", r)
			metrics.AnalyzerOutcomes.WithLabelValues(analyzerKeyPoints, metrics.OutcomePanic).Inc()
			points = KeyPointsFailed
		}
	}()
	return a.extractor.Extract(ctx, text)
}
