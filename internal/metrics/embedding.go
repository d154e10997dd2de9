package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "talentmatch"

// Embedding provider and cache metrics. provider/model label every
// provider series so two configured backends stay apart.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_requests_total",
			Help:      "Embedding provider calls by outcome",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "embedding_request_duration_seconds",
			Help:      "Latency of successful embedding provider calls",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_tokens_total",
			Help:      "Tokens billed by the embedding provider",
		},
		[]string{"provider", "model", "type"},
	)

	EmbeddingErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_errors_total",
			Help:      "Failed embedding attempts by cause",
		},
		[]string{"provider", "model", "error_type"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_cache_total",
			Help:      "Embedding cache lookups by result",
		},
		[]string{"result"}, // hit, miss, shared
	)

	TripleBuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triple_builds_total",
			Help:      "Vector triple generations by entity and result",
		},
		[]string{"entity", "result"}, // ok, error, cached
	)
)

// Error causes recorded in EmbeddingErrorsTotal.
const (
	ErrorRateLimited   = "rate_limited"
	ErrorAPI           = "api_error"
	ErrorEmptyResponse = "empty_response"
)

var embMetricsRegistered bool

// RegisterEmbeddingMetrics registers Prometheus embedding metrics. Must be called once from main.
func RegisterEmbeddingMetrics() {
	if embMetricsRegistered {
		return
	}
	prometheus.MustRegister(
		EmbeddingRequestsTotal,
		EmbeddingRequestDuration,
		EmbeddingTokensTotal,
		EmbeddingErrorsTotal,
		EmbeddingCacheTotal,
		TripleBuildsTotal,
	)
	embMetricsRegistered = true
}

// EmbeddingCall records the outcome of one provider round trip.
type EmbeddingCall struct {
	provider string
	model    string
	start    time.Time
}

// StartEmbeddingCall starts the latency clock for a call.
func StartEmbeddingCall(provider, model string) EmbeddingCall {
	return EmbeddingCall{provider: provider, model: model, start: time.Now()}
}

// Succeeded counts the call, observes its latency and adds the billed
// tokens. Providers that report no usage pass zeros.
func (c EmbeddingCall) Succeeded(promptTokens, totalTokens int) {
	EmbeddingRequestsTotal.WithLabelValues(c.provider, c.model, "success").Inc()
	EmbeddingRequestDuration.WithLabelValues(c.provider, c.model).Observe(time.Since(c.start).Seconds())
	if totalTokens > 0 {
		EmbeddingTokensTotal.WithLabelValues(c.provider, c.model, "prompt").Add(float64(promptTokens))
		EmbeddingTokensTotal.WithLabelValues(c.provider, c.model, "total").Add(float64(totalTokens))
	}
}

// Failed counts the call as an error with the given cause.
func (c EmbeddingCall) Failed(cause string) {
	EmbeddingRequestsTotal.WithLabelValues(c.provider, c.model, "error").Inc()
	EmbeddingErrorsTotal.WithLabelValues(c.provider, c.model, cause).Inc()
}

// EmbeddingThrottled counts a call that never left because the local rate
// limiter gave up.
func EmbeddingThrottled(provider, model string) {
	EmbeddingErrorsTotal.WithLabelValues(provider, model, ErrorRateLimited).Inc()
}
