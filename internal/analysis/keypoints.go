package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/15-040-GianIvander/tugas-individu3/internal/metrics"
	"github.com/15-040-GianIvander/tugas-individu3/pkg/llm"
)

const (
	analyzerKeyPoints = "keypoints"

	keyPointPrompt = "Extract 3 concise key points from this product review:\n\n%s\n\nReturn as bullets."

	maxKeywords = 6
)

type Extractor struct {
	apiKey    string
	model     string
	timeout   time.Duration
	generator llm.Generator
}

// NewExtractor builds a key point extractor. A nil generator means no
// provider client could be built, and only the local summary is used.
func NewExtractor(cfg Config, generator llm.Generator) *Extractor {
	model := cfg.GenerationModel
	if model == "" && generator != nil {
		model = generator.DefaultModel()
	}
	return &Extractor{
		apiKey:    cfg.GenerationAPIKey,
		model:     model,
		timeout:   cfg.generationTimeout(),
		generator: generator,
	}
}

// RemoteAvailable reports whether Extract will try the generation provider.
func (e *Extractor) RemoteAvailable() bool {
	return e.apiKey != "" && e.generator != nil
}

// Extract returns three bullet points summarizing text. It never fails; when
// the provider is missing or both call shapes fail, a local summary is built.
func (e *Extractor) Extract(ctx context.Context, text string) string {
	if e.apiKey == "" {
		slog.DebugContext(ctx, "generation credential not set, using local key points")
		metrics.AnalyzerOutcomes.WithLabelValues(analyzerKeyPoints, metrics.OutcomeSkipped).Inc()
		return FallbackKeyPoints(text)
	}

	if e.generator == nil {
		slog.DebugContext(ctx, "generation client unavailable, using local key points")
		metrics.AnalyzerOutcomes.WithLabelValues(analyzerKeyPoints, metrics.OutcomeSkipped).Inc()
		return FallbackKeyPoints(text)
	}

	points, err := e.generate(ctx, text)
	if err != nil {
		slog.WarnContext(ctx, "key point generation failed, using local key points", "provider", e.generator.Name(), "error", err)
		metrics.AnalyzerOutcomes.WithLabelValues(analyzerKeyPoints, metrics.OutcomeFallback).Inc()
		return FallbackKeyPoints(text)
	}

	metrics.AnalyzerOutcomes.WithLabelValues(analyzerKeyPoints, metrics.OutcomeRemote).Inc()
	return points
}

func (e *Extractor) generate(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(keyPointPrompt, text)

	points, primaryErr := e.attempt(ctx, func(ctx context.Context) (*llm.Generation, error) {
		return e.generator.Generate(ctx, e.model, prompt)
	})
	if primaryErr == nil {
		return points, nil
	}

	slog.DebugContext(ctx, "direct generation failed, trying model handle", "provider", e.generator.Name(), "error", primaryErr)

	points, secondaryErr := e.attempt(ctx, func(ctx context.Context) (*llm.Generation, error) {
		return e.generator.Model(e.model).GenerateContent(ctx, prompt)
	})
	if secondaryErr != nil {
		return "", errors.Join(primaryErr, secondaryErr)
	}

	return points, nil
}

func (e *Extractor) attempt(ctx context.Context, call func(context.Context) (*llm.Generation, error)) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	gen, err := call(ctx)
	metrics.ProviderRequestDuration.WithLabelValues(e.generator.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", err
	}

	points := strings.TrimSpace(gen.String())
	if points == "" {
		return "", llm.ErrEmptyGeneration
	}
	return points, nil
}

// FallbackKeyPoints builds a deterministic three-line summary: the first
// sentence, the text length and the first few distinct words.
func FallbackKeyPoints(text string) string {
	headline := text
	for _, s := range strings.Split(text, ".") {
		if s = strings.TrimSpace(s); s != "" {
			headline = s
			break
		}
	}

	words := strings.Fields(text)
	if len(words) > maxKeywords {
		words = words[:maxKeywords]
	}

	seen := make(map[string]bool, len(words))
	keywords := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.Trim(w, " ,.!?")
		if seen[w] {
			continue
		}
		seen[w] = true
		keywords = append(keywords, w)
	}

	return fmt.Sprintf("- %s\n- length: %d chars\n- keywords: %s",
		headline, utf8.RuneCountInString(text), strings.Join(keywords, ", "))
}
