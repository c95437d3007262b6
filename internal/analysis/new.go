package analysis

import (
	"log/slog"

	"github.com/15-040-GianIvander/tugas-individu3/pkg/huggingface"
	"github.com/15-040-GianIvander/tugas-individu3/pkg/llm"
)

// New builds an Analyzer backed by the Hugging Face classifier and the
// configured generation provider. An unknown provider leaves key points on
// the local summary.
func New(cfg Config) *Analyzer {
	classifier := NewClassifier(cfg, huggingface.NewClient(cfg.SentimentAPIKey, cfg.SentimentURL, cfg.sentimentTimeout()))

	generator, err := llm.NewGenerator(cfg.GenerationProvider, cfg.GenerationAPIKey)
	if err != nil {
		slog.Warn("generation client unavailable, key points use local summary", "provider", cfg.GenerationProvider, "error", err)
	}
	extractor := NewExtractor(cfg, generator)

	slog.Info("analyzers configured",
		"sentiment", cfg.SentimentAPIKey != "",
		"key_points_remote", extractor.RemoteAvailable())

	return NewAnalyzer(classifier, extractor)
}
