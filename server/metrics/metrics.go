package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestTotal counts HTTP requests by method, route, and status.
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridview_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	// RequestDuration is the latency of HTTP requests.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gridview_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	// QueriesTotal counts report query executions by report kind and outcome.
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridview_queries_total",
			Help: "Total number of report queries executed",
		},
		[]string{"report", "status"},
	)
	// ExportsTotal counts export requests by report kind and outcome.
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridview_exports_total",
			Help: "Total number of export requests",
		},
		[]string{"report", "status"},
	)
	// FilterSkipsTotal counts filter clauses skipped as unevaluable.
	FilterSkipsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gridview_filter_skips_total",
			Help: "Total number of filter clauses skipped as unevaluable",
		},
	)
)
