// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring glaive servers.
package observability

import "github.com/prometheus/client_golang/prometheus"

// ServeBuckets defines histogram buckets suited for request-serving
// latencies, ranging from 1ms to 10s.
var ServeBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

var (
	// RequestsTotal counts all HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glaive_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "glaive_request_duration_seconds",
			Help:    "Request duration",
			Buckets: ServeBuckets,
		},
		[]string{"method"},
	)

	// RequestsActive tracks the number of requests currently in flight,
	// including suspended ones waiting on asynchronous results.
	RequestsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "glaive_requests_active",
			Help: "Requests in flight",
		},
	)

	// NotModifiedTotal counts conditional requests answered with 304
	// from an entity tag match.
	NotModifiedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "glaive_responses_not_modified_total",
			Help: "Responses short-circuited by ETag match",
		},
	)

	// CompressedTotal counts responses served with gzip body encoding.
	CompressedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "glaive_responses_compressed_total",
			Help: "Responses served gzip-compressed",
		},
	)

	// ResponseBytes records response body sizes in bytes as they went
	// over the wire.
	ResponseBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "glaive_response_bytes",
			Help:    "Response body size",
			Buckets: prometheus.ExponentialBuckets(64, 4, 10),
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		RequestsActive,
		NotModifiedTotal,
		CompressedTotal,
		ResponseBytes,
	)
}
