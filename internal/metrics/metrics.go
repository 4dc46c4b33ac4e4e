// Package metrics registers the Prometheus collectors for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTPRequests counts HTTP requests by method, route, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "esusu_http_requests_total",
			Help: "HTTP requests handled, by method, route, and status code.",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration observes request latency by route.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "esusu_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// EngineOps counts group engine operations by name and outcome.
	EngineOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "esusu_engine_operations_total",
			Help: "Group engine operations, by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	// SaveRetries counts optimistic-concurrency retries per operation.
	SaveRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "esusu_engine_save_retries_total",
			Help: "Group saves retried after a version conflict.",
		},
		[]string{"operation"},
	)

	// EventsDispatched counts domain events handed to the dispatcher.
	EventsDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "esusu_events_dispatched_total",
			Help: "Domain events dispatched, by kind.",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequests,
		HTTPDuration,
		EngineOps,
		SaveRetries,
		EventsDispatched,
	)
}
