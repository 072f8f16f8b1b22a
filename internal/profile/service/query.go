package service

import (
	"context"
	"errors"

	"bizledger/internal/profile/models"
	id "bizledger/pkg/domain"
	dErrors "bizledger/pkg/domain-errors"
	"bizledger/pkg/platform/audit"
	"bizledger/pkg/platform/sentinel"
	"bizledger/pkg/requestcontext"
)

// GetProfile returns the current version of a profile the caller owns.
// Profiles owned by other parties are reported as not found.
func (s *Service) GetProfile(ctx context.Context, profileID id.ProfileID) (*models.Profile, error) {
	partyID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	return s.findOwned(ctx, profileID, partyID)
}

// ListProfiles returns the current version of every profile the caller owns,
// oldest modification first.
func (s *Service) ListProfiles(ctx context.Context) ([]*models.Profile, error) {
	partyID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	profiles, err := s.store.ListByOwner(ctx, partyID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list profiles")
	}
	return profiles, nil
}

// findOwned is the visibility boundary. Missing and not-owned profiles give
// the same error so callers learn nothing about ids they do not own.
func (s *Service) findOwned(ctx context.Context, profileID id.ProfileID, owner id.PartyID) (*models.Profile, error) {
	p, err := s.store.FindOwned(ctx, profileID, owner)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "profile not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}
	if !p.OwnedBy(owner) {
		return nil, dErrors.New(dErrors.CodeNotFound, "profile not found")
	}
	return s.reconcile(ctx, p.Clone(), owner)
}

// maxRollForward bounds how many committed successors one read applies.
const maxRollForward = 8

// reconcile brings p up to the newest version the notary has committed.
// A successor that was notarised but never written to the store is written
// now, so a failed store write after commit cannot strand the profile. When
// the notary cannot be asked, the stored version is returned as is.
func (s *Service) reconcile(ctx context.Context, p *models.Profile, owner id.PartyID) (*models.Profile, error) {
	for i := 0; i < maxRollForward; i++ {
		st, err := s.notary.Consumer(ctx, p.Ref)
		if err != nil {
			if !errors.Is(err, sentinel.ErrNotFound) && s.logger != nil {
				s.logger.WarnContext(ctx, "could not check profile version with notary",
					"profile_id", p.ID.String(),
					"ref", p.Ref.String(),
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
			}
			return p, nil
		}
		next, ok := st.Transition.Output(p.ID)
		if !ok {
			return p, nil
		}

		err = s.runInTx(ctx, func(ctx context.Context) error {
			if err := s.store.Replace(ctx, p.Ref, &next); err != nil {
				return err
			}
			s.logAudit(ctx, audit.EventProfileRolledForward, next, st.TxID)
			return nil
		})
		switch {
		case err == nil:
			s.publish(ctx, st)
			p = next.Clone()
		case errors.Is(err, sentinel.ErrConflict):
			// Another request moved the store on; continue from what it wrote.
			current, err := s.store.FindOwned(ctx, p.ID, owner)
			if err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
			}
			p = current.Clone()
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to apply committed profile version")
		}
	}
	return p, nil
}
