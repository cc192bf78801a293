// Package metrics provides Prometheus metrics collection for the cargo service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// ImportsTotal tracks sheet imports by kind and outcome.
	ImportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cargo_imports_total",
			Help: "Total number of sheet imports",
		},
		[]string{"kind", "status"},
	)

	// ImportDuration tracks how long parsing and expanding a sheet takes.
	ImportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cargo_import_duration_seconds",
			Help:    "Sheet import duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		},
		[]string{"kind"},
	)

	// ExpandedParcelsTotal counts records produced by packing-list expansion.
	ExpandedParcelsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cargo_expanded_parcels_total",
			Help: "Total number of expanded parcel records",
		},
	)

	// SkippedLinesTotal counts packing-list lines that produced no record.
	SkippedLinesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cargo_import_skipped_lines_total",
			Help: "Total number of skipped packing-list lines",
		},
		[]string{"reason"},
	)

	// SelectionTogglesTotal counts dispatch selection toggles by result.
	SelectionTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_selection_toggles_total",
			Help: "Total number of dispatch selection toggles",
		},
		[]string{"result"},
	)

	// ParcelTransitionsTotal counts parcel status changes.
	ParcelTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cargo_parcel_transitions_total",
			Help: "Total number of parcel status transitions",
		},
		[]string{"from", "to"},
	)

	// AuditEntriesTotal counts audit entries by action type and outcome
	// (written, failed, dropped).
	AuditEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cargo_audit_entries_total",
			Help: "Total number of audit entries by action and outcome",
		},
		[]string{"action", "result"},
	)

	// RateLimitedTotal counts requests rejected by the rate limiters, by
	// scope (ip or user) and route.
	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Total number of requests rejected by rate limiting",
		},
		[]string{"scope", "route"},
	)

	// RateLimitVisitors reports the identifiers each limiter tracks.
	RateLimitVisitors = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_rate_limit_visitors",
			Help: "Identifiers tracked by a rate limiter",
		},
		[]string{"limiter"},
	)

	// CircuitBreakerState reports each breaker's state: 0 closed, 1 open, 2 half-open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 open, 2 half-open)",
		},
		[]string{"name"},
	)

	// CacheOperationsTotal tracks cache operations.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"operation", "result"},
	)

	// CacheSize tracks current cache size.
	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Current cache size",
		},
	)

	// CacheCapacity tracks cache capacity.
	CacheCapacity = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_capacity",
			Help: "Cache capacity",
		},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordImport records the outcome and duration of a sheet import.
func RecordImport(kind, status string, duration time.Duration) {
	ImportDuration.WithLabelValues(kind).Observe(duration.Seconds())
	ImportsTotal.WithLabelValues(kind, status).Inc()
}

// RecordExpandedParcels adds n expanded records.
func RecordExpandedParcels(n int) {
	ExpandedParcelsTotal.Add(float64(n))
}

// RecordSkippedLine counts one skipped line.
func RecordSkippedLine(reason string) {
	SkippedLinesTotal.WithLabelValues(reason).Inc()
}

// RecordSelectionToggle counts one toggle: "selected", "deselected" or a
// rejection reason.
func RecordSelectionToggle(result string) {
	SelectionTogglesTotal.WithLabelValues(result).Inc()
}

// RecordParcelTransition counts one status change.
func RecordParcelTransition(from, to string) {
	ParcelTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordParcelTransitions counts n identical status changes.
func RecordParcelTransitions(from, to string, n int64) {
	if n > 0 {
		ParcelTransitionsTotal.WithLabelValues(from, to).Add(float64(n))
	}
}

// RecordAuditEntry counts one audit entry outcome. Entries without an
// action type are counted as "request".
func RecordAuditEntry(action, result string) {
	if action == "" {
		action = "request"
	}
	AuditEntriesTotal.WithLabelValues(action, result).Inc()
}

// RecordRateLimited counts one rejected request. Unmatched routes are
// counted as "unmatched".
func RecordRateLimited(scope, route string) {
	if route == "" {
		route = "unmatched"
	}
	RateLimitedTotal.WithLabelValues(scope, route).Inc()
}

// SetRateLimitVisitors publishes how many identifiers a limiter tracks.
func SetRateLimitVisitors(limiter string, n int) {
	RateLimitVisitors.WithLabelValues(limiter).Set(float64(n))
}

// SetCircuitBreakerState publishes the state of a named breaker.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordCacheOperation records metrics for a cache operation.
func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// UpdateCacheMetrics updates cache size and capacity metrics.
func UpdateCacheMetrics(size, capacity int) {
	CacheSize.Set(float64(size))
	CacheCapacity.Set(float64(capacity))
}
