// Package metrics exposes Prometheus collectors for the websocket hub, the
// REST layer and text generation.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/moodsync-server/internal/core"
	"github.com/vovakirdan/moodsync-server/internal/service/companion"
)

const namespace = "moodsync"

// Metrics owns every collector, registered on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	WSConnectionsTotal    prometheus.Counter
	WSDisconnectionsTotal *prometheus.CounterVec
	WSEventsHandled       *prometheus.CounterVec
	WSEventsDropped       *prometheus.CounterVec

	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestsTotal   *prometheus.CounterVec

	GenerationDuration *prometheus.HistogramVec
	GenerationsTotal   *prometheus.CounterVec
	BreakerState       *prometheus.GaugeVec
}

// New creates collectors on a fresh registry that also carries the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		WSConnectionsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_connections_total",
			Help:      "Total number of accepted websocket connections",
		}),
		WSDisconnectionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_disconnections_total",
			Help:      "Total number of websocket disconnections",
		}, []string{"identified"}),
		WSEventsHandled: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_events_handled_total",
			Help:      "Inbound websocket events dispatched by kind",
		}, []string{"event"}),
		WSEventsDropped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_events_dropped_total",
			Help:      "Outbound events dropped because a client queue was full",
		}, []string{"event"}),

		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),

		GenerationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "genai_request_duration_seconds",
			Help:      "Duration of text generation calls in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}, []string{"persona"}),
		GenerationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "genai_requests_total",
			Help:      "Persona requests by outcome (generated, empty, fallback)",
		}, []string{"persona", "op", "outcome"}),
		BreakerState: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		}, []string{"name"}),
	}
}

// TrackHub exports the hub's live counts as gauges.
func (m *Metrics) TrackHub(stats func() core.Stats) {
	f := promauto.With(m.registry)
	f.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ws_connections",
		Help:      "Currently open websocket connections",
	}, func() float64 { return float64(stats().Connections) })
	f.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ws_identified_connections",
		Help:      "Open connections that sent user_join",
	}, func() float64 { return float64(stats().Identified) })
	f.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ws_support_rooms",
		Help:      "Non-empty support rooms",
	}, func() float64 { return float64(stats().Rooms) })
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Gatherer exposes the registry for tests and custom exporters.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// ClientConnected implements core.Observer.
func (m *Metrics) ClientConnected() {
	m.WSConnectionsTotal.Inc()
}

// ClientDisconnected implements core.Observer.
func (m *Metrics) ClientDisconnected(identified bool) {
	m.WSDisconnectionsTotal.WithLabelValues(strconv.FormatBool(identified)).Inc()
}

// CommandHandled implements core.Observer.
func (m *Metrics) CommandHandled(kind core.CommandKind) {
	m.WSEventsHandled.WithLabelValues(kind.String()).Inc()
}

// EventDropped implements core.Observer.
func (m *Metrics) EventDropped(kind core.EventKind) {
	m.WSEventsDropped.WithLabelValues(kind.String()).Inc()
}

// GenerationObserved implements companion.Observer.
func (m *Metrics) GenerationObserved(persona companion.Persona, op, outcome string, elapsed time.Duration) {
	m.GenerationDuration.WithLabelValues(string(persona)).Observe(elapsed.Seconds())
	m.GenerationsTotal.WithLabelValues(string(persona), op, outcome).Inc()
}

// ObserveHTTP records one finished request. route is the matched pattern, not the raw path.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// BreakerStateChanged records a circuit breaker transition.
func (m *Metrics) BreakerStateChanged(name, _, to string) {
	var v float64
	switch to {
	case "half-open":
		v = 1
	case "open":
		v = 2
	}
	m.BreakerState.WithLabelValues(name).Set(v)
}

var (
	_ core.Observer      = (*Metrics)(nil)
	_ companion.Observer = (*Metrics)(nil)
)
