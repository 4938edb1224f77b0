package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the server's Prometheus collectors. Each server carries
// its own registry so multiple instances in one process never collide.
type metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	intents  *prometheus.CounterVec
}

func newMetrics() *metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "citypulse_requests_total",
		Help: "Total handled requests by path",
	}, []string{"path"})

	intents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "citypulse_intents_total",
		Help: "Total dispatched intents",
	}, []string{"intent"})

	registry.MustRegister(requests, intents)

	return &metrics{
		registry: registry,
		requests: requests,
		intents:  intents,
	}
}

func (m *metrics) observe(path, intent string) {
	m.requests.WithLabelValues(path).Inc()
	if intent != "" {
		m.intents.WithLabelValues(intent).Inc()
	}
}
