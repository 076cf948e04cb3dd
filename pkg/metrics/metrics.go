// Package metrics registers the Prometheus diagnostics for the call core.
// The counters exist so an operator can verify the core degraded safely
// (memory fallbacks, absorbed read/write failures) rather than silently.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CallsTotal counts orchestrated calls labelled by endpoint class and
	// outcome ("success", "error", "rejected", "cache_hit").
	CallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hearsay_calls_total",
			Help: "Total orchestrated external calls by outcome.",
		},
		[]string{"endpoint_class", "status"},
	)

	// PacingWaitSeconds observes how long callers blocked in the pacing gate.
	PacingWaitSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hearsay_pacing_wait_seconds",
			Help:    "Time spent waiting in the pacing gate.",
			Buckets: []float64{.1, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"endpoint_class"},
	)

	// CacheReadFailures counts cache reads absorbed as misses because the
	// backing record was missing, corrupt, or unscannable.
	CacheReadFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hearsay_cache_read_failures_total",
			Help: "Cache reads treated as misses due to storage errors.",
		},
	)

	// CacheWriteFailures counts failed cache writes to the durable backend.
	CacheWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hearsay_cache_write_failures_total",
			Help: "Failed writes to the durable cache backend.",
		},
	)

	// CacheFallbacks counts entries diverted to the in-memory store after a
	// durable write failed.
	CacheFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hearsay_cache_fallbacks_total",
			Help: "Cache entries diverted to the in-memory fallback store.",
		},
	)

	// BudgetRejections counts charges refused by the ledger ceiling.
	BudgetRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hearsay_budget_rejections_total",
			Help: "Charges rejected because they would exceed the ceiling.",
		},
	)

	// Warnings counts warning-level degradations by component
	// ("relay", "verifier", "cache", "ledger").
	Warnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hearsay_warnings_total",
			Help: "Warning-level degradation events by component.",
		},
		[]string{"component"},
	)
)
