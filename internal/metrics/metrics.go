package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentoka",
			Name:      "api_requests_total",
			Help:      "Remote API requests by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	flowTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentoka",
			Name:      "flow_transitions_total",
			Help:      "Booking flow state transitions.",
		},
		[]string{"flow", "to"},
	)
)

// Outcome labels for api_requests_total.
const (
	OutcomeSuccess      = "success"
	OutcomeFailure      = "failure"
	OutcomeUnauthorized = "unauthorized"
	OutcomeTransport    = "transport"
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(apiRequests, flowTransitions)
	})
}

// IncAPIRequest increments the request counter for an endpoint/outcome pair.
func IncAPIRequest(endpoint, outcome string) {
	apiRequests.WithLabelValues(endpoint, outcome).Inc()
}

// IncFlowTransition increments the transition counter for a flow.
func IncFlowTransition(flow, to string) {
	flowTransitions.WithLabelValues(flow, to).Inc()
}
