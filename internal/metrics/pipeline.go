package metrics

import "github.com/prometheus/client_golang/prometheus"

// Suggestion pipeline Prometheus metrics.
var (
	SuggestionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "redraft",
			Name:      "suggestions_total",
			Help:      "Suggestions produced, by winning cascade method and confidence",
		},
		[]string{"method", "confidence"},
	)

	SuggestionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "redraft",
			Name:      "suggestion_duration_seconds",
			Help:      "End-to-end cascade duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method"},
	)

	ChunksIndexedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "redraft",
			Name:      "chunks_indexed_total",
			Help:      "Chunks added to the index, by chunking method",
		},
		[]string{"method"},
	)

	RewriteRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "redraft",
			Name:      "rewrite_requests_total",
			Help:      "Generative rewrite requests",
		},
		[]string{"provider", "model", "status"},
	)
)

// RegisterPipelineMetrics registers suggestion pipeline collectors with the
// default registry. Called explicitly from the composition root, no init().
func RegisterPipelineMetrics() {
	prometheus.MustRegister(
		SuggestionTotal,
		SuggestionDuration,
		ChunksIndexedTotal,
		RewriteRequestsTotal,
	)
}
