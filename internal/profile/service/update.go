package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"bizledger/internal/profile/models"
	id "bizledger/pkg/domain"
	dErrors "bizledger/pkg/domain-errors"
	"bizledger/pkg/platform/audit"
	"bizledger/pkg/platform/sentinel"
)

// UpdateProfile replaces the mutable fields of a profile the caller owns.
//
// The successor consumes the exact version that was looked up. If another
// update committed against that version first, the call fails with
// CodeConflict and the caller must re-read before trying again.
func (s *Service) UpdateProfile(ctx context.Context, profileID id.ProfileID, cmd models.UpdateProfileCommand) (_ *models.Profile, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "profile.update",
		trace.WithAttributes(attribute.String("profile_id", profileID.String())))
	defer func() {
		s.metrics.ObserveTransition(string(models.KindUpdate), outcome(err), start)
		span.End()
	}()

	partyID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	previous, err := s.findOwned(ctx, profileID, partyID)
	if err != nil {
		return nil, err
	}

	proposed := previous.Successor(cmd, s.now(ctx))
	t := models.NewUpdate(*previous, proposed)
	if err := s.validate(ctx, t); err != nil {
		return nil, err
	}

	st, err := s.commit(ctx, t, previous.Owner)
	if err != nil {
		return nil, err
	}

	next := st.Transition.Outputs[0]
	replayed := false
	err = s.runInTx(ctx, func(ctx context.Context) error {
		if err := s.store.Replace(ctx, previous.Ref, &next); err != nil {
			if !errors.Is(err, sentinel.ErrConflict) || !s.alreadyApplied(ctx, next, partyID) {
				return err
			}
			replayed = true
			return nil
		}
		s.logAudit(ctx, audit.EventProfileUpdated, next, st.TxID)
		return nil
	})
	if err != nil {
		// The notary holds st, so the next read of this profile writes it.
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store committed profile")
	}

	// Whoever wrote next first has already audited and published it.
	if !replayed {
		s.publish(ctx, st)
		s.metrics.IncrementCommitted(string(models.KindUpdate))
	}

	return next.Clone(), nil
}

// alreadyApplied reports whether the store already holds next. The notary
// accepts a replay of the same transaction, so an identical concurrent
// request, or a read that rolled the commit forward, can reach the store
// first.
func (s *Service) alreadyApplied(ctx context.Context, next models.Profile, owner id.PartyID) bool {
	current, err := s.store.FindOwned(ctx, next.ID, owner)
	return err == nil && current.Ref == next.Ref
}
