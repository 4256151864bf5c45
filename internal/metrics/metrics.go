// Package metrics defines the Prometheus collectors for outbound source requests,
// name resolution and the media cache. They are served by birdlog-server at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for SourceRequests.
const (
	OutcomeOK          = "ok"
	OutcomeRateLimited = "rate_limited"
	OutcomeHTTPError   = "http_error"
	OutcomeNetwork     = "network_error"
	OutcomeRejected    = "rejected"
)

// StrategyNone labels Lookups that no strategy resolved.
const StrategyNone = "none"

var (
	SourceRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "birdlog_source_requests_total",
			Help: "Requests issued to external knowledge sources",
		},
		[]string{"source", "outcome"},
	)

	SourceRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "birdlog_source_request_duration_seconds",
			Help:    "Latency of single requests to external knowledge sources",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"source"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "birdlog_circuit_breaker_state",
			Help: "Circuit breaker state per source (0=closed, 1=open, 2=half-open)",
		},
		[]string{"source"},
	)

	Lookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "birdlog_lookup_total",
			Help: "Name lookups by the strategy that resolved them; strategy=\"none\" for misses",
		},
		[]string{"strategy"},
	)

	MediaCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "birdlog_media_cache_hits_total",
			Help: "Media lookups answered from the cache",
		},
	)

	MediaCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "birdlog_media_cache_misses_total",
			Help: "Media lookups that went to the network",
		},
	)
)

// RecordSourceRequest records one request to an external source.
func RecordSourceRequest(source, outcome string, duration time.Duration) {
	SourceRequests.WithLabelValues(source, outcome).Inc()
	SourceRequestDuration.WithLabelValues(source).Observe(duration.Seconds())
}
