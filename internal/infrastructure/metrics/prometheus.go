package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Authorization decision outcomes.
const (
	OutcomeAllowed         = "allowed"
	OutcomeDenied          = "denied"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeError           = "error"
)

// PrometheusExporter owns a private registry so tests and multiple servers
// in one process do not collide on the global one.
type PrometheusExporter struct {
	registry *prometheus.Registry

	decisions    *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

func NewPrometheusExporter() *PrometheusExporter {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &PrometheusExporter{
		registry: registry,
		decisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adpilot_authz_decisions_total",
				Help: "Authorization middleware decisions by policy and outcome",
			},
			[]string{"policy", "outcome"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adpilot_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "adpilot_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"method", "route"},
		),
	}
}

// RecordDecision counts one authorization outcome for policy.
func (e *PrometheusExporter) RecordDecision(policy, outcome string) {
	e.decisions.WithLabelValues(policy, outcome).Inc()
}

func (e *PrometheusExporter) RecordRequest(method, route, status string, elapsed time.Duration) {
	e.httpRequests.WithLabelValues(method, route, status).Inc()
	e.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (e *PrometheusExporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{Registry: e.registry})
}

func (e *PrometheusExporter) Registry() *prometheus.Registry {
	return e.registry
}
