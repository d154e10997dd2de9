package metrics

import "github.com/prometheus/client_golang/prometheus"

// Matching Prometheus metrics.
var (
	RetrievalDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retrieval_duration_seconds",
			Help:      "ANN retrieval duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"target"},
	)

	CandidatePoolSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "candidate_pool_size",
			Help:      "Number of candidates returned by ANN retrieval",
			Buckets:   []float64{0, 1, 5, 10, 20, 30, 40, 50, 100},
		},
		[]string{"target"},
	)

	DegradedResponsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_responses_total",
			Help:      "Responses served without matching results",
		},
		[]string{"consumer", "reason"},
	)

	AutoHealTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "autoheal_total",
			Help:      "Auto-heal outcomes by entity",
		},
		[]string{"entity", "result"}, // "cached" / "healed" / "failed" / "persist_failed"
	)
)

var matchMetricsRegistered bool

// RegisterMatchingMetrics registers Prometheus matching metrics. Must be called once from main.
func RegisterMatchingMetrics() {
	if matchMetricsRegistered {
		return
	}
	prometheus.MustRegister(RetrievalDuration)
	prometheus.MustRegister(CandidatePoolSize)
	prometheus.MustRegister(DegradedResponsesTotal)
	prometheus.MustRegister(AutoHealTotal)
	matchMetricsRegistered = true
}
