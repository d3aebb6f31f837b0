// Package metrics provides Prometheus metrics for the portfolio API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the API.
type Metrics struct {
	EventsTracked   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ContactMessages *prometheus.CounterVec
	ErrorsTotal     *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates and registers all metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		EventsTracked: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_events_tracked_total",
				Help: "Total analytics events recorded by type.",
			},
			[]string{"type"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portfolio_http_request_duration_seconds",
				Help:    "HTTP request duration by route and status.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		ContactMessages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_contact_messages_total",
				Help: "Contact form submissions by result.",
			},
			[]string{"result"},
		),
		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_errors_total",
				Help: "Total errors by module and type.",
			},
			[]string{"module", "type"},
		),
		registry: reg,
	}

	reg.MustRegister(m.EventsTracked)
	reg.MustRegister(m.RequestDuration)
	reg.MustRegister(m.ContactMessages)
	reg.MustRegister(m.ErrorsTotal)

	return m
}

// Handler returns an http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// The Record and Observe methods are no-ops on a nil *Metrics.

// RecordEvent increments the tracked event counter.
func (m *Metrics) RecordEvent(eventType string) {
	if m == nil {
		return
	}
	m.EventsTracked.WithLabelValues(eventType).Inc()
}

// RecordContact increments the contact counter.
func (m *Metrics) RecordContact(result string) {
	if m == nil {
		return
	}
	m.ContactMessages.WithLabelValues(result).Inc()
}

// RecordError increments the error counter.
func (m *Metrics) RecordError(module, errType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(module, errType).Inc()
}

// ObserveRequest records the duration of one HTTP request.
func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route, status).Observe(seconds)
}
