package resource

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts resolver activity. A nil *Metrics records nothing.
type Metrics struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	failures  prometheus.Counter
	evictions prometheus.Counter
	entries   prometheus.Gauge
}

// NewMetrics creates the resolver metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gateway",
			Subsystem: "resource_cache",
			Name:      "hits_total",
			Help:      "Resolutions answered from the cache.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gateway",
			Subsystem: "resource_cache",
			Name:      "misses_total",
			Help:      "Resolutions not found in the cache.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gateway",
			Subsystem: "resource_cache",
			Name:      "failures_total",
			Help:      "Resolutions that found no resource.",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gateway",
			Subsystem: "resource_cache",
			Name:      "evictions_total",
			Help:      "Handles evicted from the cache.",
		}),
		entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gateway",
			Subsystem: "resource_cache",
			Name:      "entries",
			Help:      "Handles currently cached.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.hits, m.misses, m.failures, m.evictions, m.entries)
	}
	return m
}

func (m *Metrics) hit() {
	if m != nil {
		m.hits.Inc()
	}
}

func (m *Metrics) miss() {
	if m != nil {
		m.misses.Inc()
	}
}

func (m *Metrics) failure() {
	if m != nil {
		m.failures.Inc()
	}
}

func (m *Metrics) evicted() {
	if m != nil {
		m.evictions.Inc()
	}
}

func (m *Metrics) setEntries(n int) {
	if m != nil {
		m.entries.Set(float64(n))
	}
}
