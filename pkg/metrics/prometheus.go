// Package metrics exposes Prometheus collectors for JumpServer API calls and MCP tool invocations.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "jumpserver_mcp"

// Buckets for remote call latency in seconds
var defaultBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// Metrics wraps the collectors used by the client and the tools.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	apiRequestsTotal   *prometheus.CounterVec
	apiRequestDuration *prometheus.HistogramVec
	toolCallsTotal     *prometheus.CounterVec
}

// New creates a Metrics with its own registry, including Go and process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,

		apiRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "jumpserver_api_requests_total",
				Help:      "Total number of JumpServer API requests",
			},
			[]string{"method", "path", "status"},
		),

		apiRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "jumpserver_api_request_duration_seconds",
				Help:      "Duration of JumpServer API requests in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"method", "path"},
		),

		toolCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tool_calls_total",
				Help:      "Total number of MCP tool invocations by outcome",
			},
			[]string{"tool", "outcome"},
		),
	}

	registry.MustRegister(m.apiRequestsTotal, m.apiRequestDuration, m.toolCallsTotal)
	return m
}

// ObserveAPIRequest records one JumpServer call. status is 0 for transport failures.
// path must be the API path without query string to keep label cardinality bounded.
func (m *Metrics) ObserveAPIRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	statusLabel := "error"
	if status > 0 {
		statusLabel = strconv.Itoa(status)
	}
	m.apiRequestsTotal.WithLabelValues(method, path, statusLabel).Inc()
	m.apiRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordToolCall records the outcome of a tool invocation ("success" or an error code).
func (m *Metrics) RecordToolCall(tool, outcome string) {
	if m == nil {
		return
	}
	m.toolCallsTotal.WithLabelValues(tool, outcome).Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler serving the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
