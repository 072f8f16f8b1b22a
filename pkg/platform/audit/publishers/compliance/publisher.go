// Package compliance provides a synchronous audit publisher for regulatory events.
//
// Publisher emits events with fail-closed semantics: the caller blocks until the
// underlying store accepts the event and receives the error if it does not.
// Whether a failure aborts the business operation is the caller's decision.
package compliance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	audit "bizledger/pkg/platform/audit"
)

// Publisher emits compliance events synchronously.
type Publisher struct {
	store   audit.Store
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithLogger sets a logger for error reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// New creates a compliance publisher on top of store.
func New(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store: store,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit synchronously writes an event to the audit store.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	start := time.Now()

	if event.PartyID.IsNil() {
		return fmt.Errorf("audit event requires PartyID")
	}
	if event.Action == "" {
		return fmt.Errorf("audit event requires Action")
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Category = audit.AuditEvent(event.Action).Category()

	if err := p.store.Append(ctx, event); err != nil {
		p.metrics.IncPersistFailures()
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "audit persistence failed",
				"action", event.Action,
				"party_id", event.PartyID,
				"profile_id", event.ProfileID,
				"error", err,
			)
		}
		return fmt.Errorf("audit persistence failed: %w", err)
	}

	p.metrics.ObservePersistDuration(time.Since(start).Seconds())
	p.metrics.IncEventsEmitted()
	return nil
}
