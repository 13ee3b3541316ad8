package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes service counters on a dedicated Prometheus registry.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errors          *prometheus.CounterVec
	broadcasts      *prometheus.CounterVec
	adminClients    prometheus.Gauge
}

// NewMetrics initializes the registry and collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "laundry_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "laundry_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "laundry_errors_total",
			Help: "Domain errors by route, method and code.",
		}, []string{"route", "method", "code"}),
		broadcasts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "laundry_realtime_broadcasts_total",
			Help: "Realtime events fanned out to admin subscribers.",
		}, []string{"event"}),
		adminClients: factory.NewGauge(prometheus.GaugeOpts{
			Name: "laundry_realtime_admin_clients",
			Help: "Currently connected admin websocket subscribers.",
		}),
	}
}

// RecordRequest increments request counters.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(route, method, code).Inc()
}

// RecordBroadcast counts one event delivery to the admin channel.
func (m *Metrics) RecordBroadcast(event string) {
	if m == nil {
		return
	}
	m.broadcasts.WithLabelValues(event).Inc()
}

// AdminClientConnected adjusts the subscriber gauge.
func (m *Metrics) AdminClientConnected(delta int) {
	if m == nil {
		return
	}
	m.adminClients.Add(float64(delta))
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
