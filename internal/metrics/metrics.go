package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for AnalyzerOutcomes.
const (
	OutcomeRemote   = "remote"
	OutcomeFallback = "fallback"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"
	OutcomePanic    = "panic"
)

// Analysis Metrics
var (
	// AnalyzerOutcomes counts how each analyzer produced its value
	AnalyzerOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_analyzer_outcomes_total",
			Help: "Analyzer results by analyzer and outcome",
		},
		[]string{"analyzer", "outcome"},
	)

	// ProviderRequestDuration tracks outbound provider call latency in seconds
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "review_provider_request_duration_seconds",
			Help:    "Provider call duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20},
		},
		[]string{"provider"},
	)

	// AnalysisDuration tracks a full orchestration call
	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "review_analysis_duration_seconds",
			Help:    "Duration of one review analysis in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 20, 40},
		},
	)
)

// Cache and Worker Metrics
var (
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_cache_requests_total",
			Help: "Analysis cache lookups by result (hit/miss/error)",
		},
		[]string{"result"},
	)

	Reanalysis = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_reanalysis_total",
			Help: "Re-analysis attempts by result",
		},
		[]string{"result"},
	)
)
