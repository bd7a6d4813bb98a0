package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects counters for provider calls and router fallbacks.
type Metrics struct {
	requestsTotal  *prometheus.CounterVec
	fallbacksTotal *prometheus.CounterVec
}

// NewMetrics creates and registers the provider metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		requestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tuneport_provider_requests_total",
				Help: "Total number of provider adapter calls",
			},
			[]string{"provider", "operation", "status"},
		),
		fallbacksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tuneport_provider_fallbacks_total",
				Help: "Total number of router fallbacks to the next provider",
			},
			[]string{"operation", "from"},
		),
	}
}

// ObserveRequest records one adapter call outcome.
func (m *Metrics) ObserveRequest(provider, operation, status string) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(provider, operation, status).Inc()
}

// ObserveFallback records one fallback hop away from a provider.
func (m *Metrics) ObserveFallback(operation, from string) {
	if m == nil {
		return
	}
	m.fallbacksTotal.WithLabelValues(operation, from).Inc()
}
