package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RequestsDenied   prometheus.Counter
	FallbackChecks   prometheus.Counter
	LimiterErrors    prometheus.Counter
	CircuitOpenState prometheus.Gauge
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsDenied: factory.NewCounter(prometheus.CounterOpts{
			Name: "bizledger_ratelimit_denied_total",
			Help: "Total number of profile writes rejected by the per-party rate limit",
		}),
		FallbackChecks: factory.NewCounter(prometheus.CounterOpts{
			Name: "bizledger_ratelimit_fallback_checks_total",
			Help: "Total number of rate limit checks served by the in-memory fallback",
		}),
		LimiterErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "bizledger_ratelimit_store_errors_total",
			Help: "Total number of rate limit store errors",
		}),
		CircuitOpenState: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bizledger_ratelimit_circuit_open",
			Help: "1 while the shared rate limit store is bypassed",
		}),
	}
}

func (m *Metrics) IncrementDenied() {
	if m == nil {
		return
	}
	m.RequestsDenied.Inc()
}

func (m *Metrics) IncrementFallback() {
	if m == nil {
		return
	}
	m.FallbackChecks.Inc()
}

func (m *Metrics) IncrementErrors() {
	if m == nil {
		return
	}
	m.LimiterErrors.Inc()
}

func (m *Metrics) SetCircuitOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.CircuitOpenState.Set(1)
		return
	}
	m.CircuitOpenState.Set(0)
}
