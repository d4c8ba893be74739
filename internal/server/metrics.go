package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "backdrop"

// Metrics implements the spawner and session hooks with Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	spawned         *prometheus.CounterVec
	removed         *prometheus.CounterVec
	skipped         *prometheus.CounterVec
	measureFallback *prometheus.CounterVec
	lifetime        prometheus.Histogram

	sessionsActive  prometheus.Gauge
	sessionsTotal   prometheus.Counter
	sessionDuration prometheus.Histogram
}

// NewMetrics creates the collectors on a fresh registry that also carries the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		spawned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "spawner",
			Name:      "spawned_total",
			Help:      "Drawings attached to a container.",
		}, []string{"shape"}),
		removed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "spawner",
			Name:      "removed_total",
			Help:      "Drawings detached after their lifetime or on stop.",
		}, []string{"shape"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "spawner",
			Name:      "skipped_total",
			Help:      "Spawn attempts that attached nothing.",
		}, []string{"reason"}),
		measureFallback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "spawner",
			Name:      "measure_fallback_total",
			Help:      "Paths drawn with the default dash length.",
		}, []string{"shape"}),
		lifetime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "spawner",
			Name:      "lifetime_seconds",
			Help:      "Time between attaching and detaching a drawing.",
			Buckets:   []float64{1, 2, 4, 6, 8, 10, 12, 15, 20, 30},
		}),

		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "server",
			Name:      "sessions_active",
			Help:      "Open display sessions.",
		}),
		sessionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "server",
			Name:      "sessions_total",
			Help:      "Display sessions opened since start.",
		}),
		sessionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "server",
			Name:      "session_duration_seconds",
			Help:      "How long display sessions stayed open.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.spawned, m.removed, m.skipped, m.measureFallback, m.lifetime,
		m.sessionsActive, m.sessionsTotal, m.sessionDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) OnSpawn(_ context.Context, shape string, _ int) {
	m.spawned.WithLabelValues(shape).Inc()
}

func (m *Metrics) OnRemove(_ context.Context, shape string, lifetime time.Duration, _ int) {
	m.removed.WithLabelValues(shape).Inc()
	m.lifetime.Observe(lifetime.Seconds())
}

func (m *Metrics) OnSkip(_ context.Context, reason string) {
	m.skipped.WithLabelValues(reason).Inc()
}

func (m *Metrics) OnMeasureFallback(_ context.Context, shape string, _ error) {
	m.measureFallback.WithLabelValues(shape).Inc()
}

func (m *Metrics) OnSessionOpen(context.Context, string) {
	m.sessionsActive.Inc()
	m.sessionsTotal.Inc()
}

func (m *Metrics) OnSessionClose(_ context.Context, _ string, d time.Duration) {
	m.sessionsActive.Dec()
	m.sessionDuration.Observe(d.Seconds())
}
