// Package metrics exposes Prometheus instrumentation for the bridge and the
// provider client. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ankibridge"

// Metrics holds all Prometheus metrics of the bridge.
type Metrics struct {
	registry *prometheus.Registry

	BridgeCallsTotal   *prometheus.CounterVec
	BridgeCallDuration *prometheus.HistogramVec
	BridgeQueueDepth   prometheus.Gauge

	UpdateAttemptsTotal *prometheus.CounterVec
	CacheLookupsTotal   *prometheus.CounterVec
}

// New registers all metrics on a dedicated registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		BridgeCallsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bridge",
			Name:      "calls_total",
			Help:      "Bridge method calls by method and result code",
		}, []string{"method", "code"}),
		BridgeCallDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "bridge",
			Name:      "call_duration_seconds",
			Help:      "Bridge call latency including queue wait",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		BridgeQueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "bridge",
			Name:      "queue_depth",
			Help:      "Calls waiting for the bridge worker",
		}),
		UpdateAttemptsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "update_attempts_total",
			Help:      "Note update attempts by fallback step and result",
		}, []string{"step", "result"}),
		CacheLookupsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Read-through cache lookups by cache and result",
		}, []string{"cache", "result"}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveCall records one finished bridge call. code is "OK" on success.
func (m *Metrics) ObserveCall(method, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.BridgeCallsTotal.WithLabelValues(method, code).Inc()
	m.BridgeCallDuration.WithLabelValues(method).Observe(d.Seconds())
}

// SetQueueDepth records the number of pending bridge calls.
func (m *Metrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.BridgeQueueDepth.Set(float64(n))
}

// ObserveUpdate records one step of the note update ladder.
func (m *Metrics) ObserveUpdate(step, result string) {
	if m == nil {
		return
	}
	m.UpdateAttemptsTotal.WithLabelValues(step, result).Inc()
}

// CacheObserver returns a hit/miss callback for the named cache.
func (m *Metrics) CacheObserver(name string) func(hit bool) {
	return func(hit bool) {
		if m == nil {
			return
		}
		result := "miss"
		if hit {
			result = "hit"
		}
		m.CacheLookupsTotal.WithLabelValues(name, result).Inc()
	}
}
