// Package metrics holds the engine's Prometheus instrumentation, grounded
// on the admin-endpoint metrics the teacher registers in admin.go
// (prometheus.Labels-curried counters around each handler).
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome labels for DispatchTotal, matching the four branches of the
// Dispatcher's decision table.
const (
	OutcomeMock         = "mock"
	OutcomeProxyRoute   = "proxy_route"
	OutcomeProxyDefault = "proxy_default"
	OutcomeNotFound     = "not_found"
)

var (
	RoutesTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "mockd",
		Name:      "routes_total",
		Help:      "Current number of routes in the route table.",
	})

	RequestLogSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "mockd",
		Name:      "request_log_size",
		Help:      "Current number of entries held in the rolling request log.",
	})

	DispatchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mockd",
		Name:      "dispatch_total",
		Help:      "Count of dispatched requests by outcome.",
	}, []string{"outcome"})

	ForwardDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mockd",
		Name:      "forward_duration_seconds",
		Help:      "Latency of outbound forwarded requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"outcome"})
)

// Registry is the collector set exposed for scraping. It is deliberately
// not wired into the admin mux: metrics are process state, not part of
// the reserved /__mock route-table contract (SPEC_FULL.md §4.9).
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(RoutesTotal, RequestLogSize, DispatchTotal, ForwardDuration)
}
