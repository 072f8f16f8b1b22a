package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the profile module.
// Tracks committed transitions, rejections, notary conflicts and the
// duration of the create/update critical path.
type Metrics struct {
	TransitionsCommitted *prometheus.CounterVec
	ValidationRejected   *prometheus.CounterVec
	CommitConflicts      prometheus.Counter
	TransitionDuration   *prometheus.HistogramVec
}

// New creates a new Metrics instance registered with the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates a new Metrics instance registered with reg.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TransitionsCommitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bizledger_profile_transitions_committed_total",
			Help: "Total number of profile transitions committed, by kind",
		}, []string{"kind"}),
		ValidationRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bizledger_profile_validation_rejected_total",
			Help: "Total number of proposed transitions rejected by the validator, by rule",
		}, []string{"rule"}),
		CommitConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "bizledger_profile_commit_conflicts_total",
			Help: "Total number of updates that lost the race for a version",
		}),
		TransitionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bizledger_profile_transition_duration_seconds",
			Help:    "Duration of create/update operations from lookup to store write",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"kind", "outcome"}),
	}
}

// IncrementCommitted records a committed transition.
func (m *Metrics) IncrementCommitted(kind string) {
	if m == nil {
		return
	}
	m.TransitionsCommitted.WithLabelValues(kind).Inc()
}

// IncrementRejected records a validator rejection.
func (m *Metrics) IncrementRejected(rule string) {
	if m == nil {
		return
	}
	m.ValidationRejected.WithLabelValues(rule).Inc()
}

// IncrementConflict records a lost commit race.
func (m *Metrics) IncrementConflict() {
	if m == nil {
		return
	}
	m.CommitConflicts.Inc()
}

// ObserveTransition records the duration of a create/update call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveTransition(kind, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.TransitionDuration.WithLabelValues(kind, outcome).Observe(time.Since(start).Seconds())
}
