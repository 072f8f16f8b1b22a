package compliance

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks audit publishing. A nil *Metrics is valid and records nothing.
type Metrics struct {
	EventsEmitted   prometheus.Counter
	PersistFailures prometheus.Counter
	PersistDuration prometheus.Histogram
}

// NewMetrics registers audit publisher metrics with the default registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers audit publisher metrics with reg.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EventsEmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "bizledger_audit_events_emitted_total",
			Help: "Total number of audit events accepted by the audit store",
		}),
		PersistFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "bizledger_audit_persist_failures_total",
			Help: "Total number of audit events the audit store rejected",
		}),
		PersistDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bizledger_audit_persist_duration_seconds",
			Help:    "Time spent writing an audit event",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncEventsEmitted() {
	if m == nil {
		return
	}
	m.EventsEmitted.Inc()
}

func (m *Metrics) IncPersistFailures() {
	if m == nil {
		return
	}
	m.PersistFailures.Inc()
}

func (m *Metrics) ObservePersistDuration(seconds float64) {
	if m == nil {
		return
	}
	m.PersistDuration.Observe(seconds)
}
