// Package metrics defines Prometheus metrics for kinnet.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kinnet_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kinnet_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "kinnet_http_requests_in_flight",
			Help: "HTTP requests currently being served",
		},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kinnet_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	// ComputeTasksTotal counts computations by task kind and the path that
	// produced the result: "pool", "inline" or "fallback".
	ComputeTasksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kinnet_compute_tasks_total",
			Help: "Graph computations by task kind and execution path",
		},
		[]string{"kind", "path"},
	)

	ComputeFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kinnet_compute_fallbacks_total",
			Help: "Pool failures recovered by synchronous computation",
		},
		[]string{"kind", "reason"},
	)

	ComputeQueueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kinnet_compute_queue_depth",
			Help: "Pending tasks per worker pool",
		},
		[]string{"pool"},
	)

	TraversalNodes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kinnet_traversal_nodes",
			Help:    "Persons reached per network build",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
	)

	TruncatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "kinnet_traversal_truncated_total",
			Help: "Network builds that hit the node ceiling",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, RequestsInFlight, ErrorsTotal,
		ComputeTasksTotal, ComputeFallbacksTotal, ComputeQueueDepth,
		TraversalNodes, TruncatedTotal,
	)
}
