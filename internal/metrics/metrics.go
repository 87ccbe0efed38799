// Package metrics exposes Prometheus metrics for the chat server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector. A nil *Metrics is valid and records nothing,
// which keeps tests free of registry setup.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ChatStreamsInFlight prometheus.Gauge
	ChatStreamsTotal    *prometheus.CounterVec
	ChatTokensTotal     *prometheus.CounterVec
	ToolExecutionsTotal *prometheus.CounterVec

	KeyCacheLookupsTotal *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers all collectors on reg. Pass prometheus.NewRegistry() in
// tests to avoid duplicate registration on the default registry.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatbot_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chatbot_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		ChatStreamsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "chatbot_chat_streams_in_flight",
				Help: "Number of chat completions currently streaming",
			},
		),
		ChatStreamsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatbot_chat_streams_total",
				Help: "Chat completions by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		ChatTokensTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatbot_chat_tokens_total",
				Help: "Tokens reported by providers",
			},
			[]string{"provider", "kind"},
		),
		ToolExecutionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatbot_tool_executions_total",
				Help: "Tool executions by tool and status",
			},
			[]string{"tool", "status"},
		),
		KeyCacheLookupsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatbot_key_cache_lookups_total",
				Help: "Static model key cache lookups by result",
			},
			[]string{"result"},
		),
		gatherer: reg,
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// StreamStarted increments the in-flight gauge and returns the matching
// decrement, which also records the outcome.
func (m *Metrics) StreamStarted(provider string) func(outcome string) {
	if m == nil {
		return func(string) {}
	}
	m.ChatStreamsInFlight.Inc()
	return func(outcome string) {
		m.ChatStreamsInFlight.Dec()
		m.ChatStreamsTotal.WithLabelValues(provider, outcome).Inc()
	}
}

func (m *Metrics) AddTokens(provider string, input, output int) {
	if m == nil {
		return
	}
	m.ChatTokensTotal.WithLabelValues(provider, "input").Add(float64(input))
	m.ChatTokensTotal.WithLabelValues(provider, "output").Add(float64(output))
}

func (m *Metrics) ObserveTool(tool string, failed bool) {
	if m == nil {
		return
	}
	status := "ok"
	if failed {
		status = "error"
	}
	m.ToolExecutionsTotal.WithLabelValues(tool, status).Inc()
}

func (m *Metrics) ObserveKeyCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.KeyCacheLookupsTotal.WithLabelValues(result).Inc()
}
