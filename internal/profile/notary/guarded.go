package notary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"bizledger/internal/profile/models"
	"bizledger/pkg/platform/circuit"
	"bizledger/pkg/platform/sentinel"
)

// Committer is the notary contract the orchestrator depends on.
type Committer interface {
	Commit(ctx context.Context, st models.SignedTransition) error
	Consumer(ctx context.Context, ref models.Ref) (models.SignedTransition, error)
}

// Guarded fails fast with sentinel.ErrUnavailable while the wrapped notary
// is known to be unreachable. Only unavailability counts as a failure; a
// conflict is a healthy answer.
type Guarded struct {
	next    Committer
	breaker *circuit.Breaker
	logger  *slog.Logger
}

func NewGuarded(next Committer, breaker *circuit.Breaker, logger *slog.Logger) *Guarded {
	return &Guarded{next: next, breaker: breaker, logger: logger}
}

func (g *Guarded) Commit(ctx context.Context, st models.SignedTransition) error {
	if !g.breaker.Allow() {
		return fmt.Errorf("notary %s circuit open: %w", g.breaker.Name(), sentinel.ErrUnavailable)
	}

	err := g.next.Commit(ctx, st)
	g.record(ctx, err)
	return err
}

func (g *Guarded) Consumer(ctx context.Context, ref models.Ref) (models.SignedTransition, error) {
	if !g.breaker.Allow() {
		return models.SignedTransition{}, fmt.Errorf("notary %s circuit open: %w", g.breaker.Name(), sentinel.ErrUnavailable)
	}

	st, err := g.next.Consumer(ctx, ref)
	g.record(ctx, err)
	return st, err
}

func (g *Guarded) record(ctx context.Context, err error) {
	if errors.Is(err, sentinel.ErrUnavailable) {
		if _, change := g.breaker.RecordFailure(); change.Opened && g.logger != nil {
			g.logger.WarnContext(ctx, "notary circuit opened", "breaker", g.breaker.Name(), "error", err)
		}
		return
	}
	if _, change := g.breaker.RecordSuccess(); change.Closed && g.logger != nil {
		g.logger.InfoContext(ctx, "notary circuit closed", "breaker", g.breaker.Name())
	}
}
