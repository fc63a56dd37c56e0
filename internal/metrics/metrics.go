// Package metrics exposes Prometheus instrumentation for the cache and the
// upstream fetch path. Served on the main mux at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheResults counts request outcomes per resource (summaries, body)
	// and status (HIT, MISS, DEDUP).
	CacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "maildash_cache_results_total",
		Help: "Request outcomes by resource and cache status.",
	}, []string{"resource", "status"})

	// ProviderRequestDuration observes upstream call latency per operation.
	ProviderRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "maildash_provider_request_duration_seconds",
		Help:    "Latency of remote mail provider calls.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// DroppedMessages counts per-item fetch failures silently dropped from
	// batch results.
	DroppedMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "maildash_batch_dropped_messages_total",
		Help: "Messages dropped from batch results due to per-item fetch failures.",
	})

	// ProviderErrors counts classified provider failures by kind.
	ProviderErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "maildash_provider_errors_total",
		Help: "Provider failures by classified kind.",
	}, []string{"kind"})
)
