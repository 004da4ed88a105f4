// Package telemetry holds the Prometheus metrics of the service. All collectors are registered
// against the default registry and served on GET /metrics by the main router.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics. The path label is the gin route template, not the raw URL.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed, by method, route template, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, by method and route template.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)
)

// Activity trail metrics.
var (
	ActivityEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stocklease_activity_entries_total",
			Help: "Activity log entries written, by action.",
		},
		[]string{"action"},
	)

	ActivityWriteFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stocklease_activity_write_failures_total",
			Help: "Activity log entries that could not be persisted.",
		},
	)
)

// Scheduler metrics.
var (
	JobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stocklease_job_runs_total",
			Help: "Scheduled job executions, by job and outcome (success, error, panic).",
		},
		[]string{"job", "outcome"},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stocklease_job_duration_seconds",
			Help:    "Duration of scheduled job executions.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"job"},
	)

	LowStockItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stocklease_low_stock_items",
			Help: "Items at or below their reorder level at the last low-stock check.",
		},
	)

	OverdueLeasesMarked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stocklease_overdue_leases_marked_total",
			Help: "Leases transitioned from active to overdue.",
		},
	)
)

// Auth metrics.
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "stocklease_login_attempts_total",
		Help: "Login attempts, by outcome (success, failure, throttled).",
	},
	[]string{"outcome"},
)
