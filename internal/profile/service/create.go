package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"bizledger/internal/profile/models"
	id "bizledger/pkg/domain"
	dErrors "bizledger/pkg/domain-errors"
	"bizledger/pkg/platform/audit"
)

// CreateProfile registers a new profile owned by the caller.
//
// The caller becomes the owner and sole signer. Status is always ACTIVE on
// creation; a rejected proposal never reaches the signer or the notary.
func (s *Service) CreateProfile(ctx context.Context, cmd models.CreateProfileCommand) (_ *models.Profile, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "profile.create")
	defer func() {
		s.metrics.ObserveTransition(string(models.KindCreate), outcome(err), start)
		span.End()
	}()

	owner, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	proposed := models.Profile{
		ID:                 id.NewProfileID(),
		Owner:              owner,
		MobileNumber:       cmd.MobileNumber,
		GSTUserName:        cmd.GSTUserName,
		RegistrationNumber: cmd.RegistrationNumber,
		RegistrationStatus: cmd.RegistrationStatus,
		LegalBusinessName:  cmd.LegalBusinessName,
		PlaceOfBusiness:    cmd.PlaceOfBusiness,
		Status:             id.StatusActive,
		LastModified:       s.now(ctx),
		Version:            1,
	}
	span.SetAttributes(attribute.String("profile_id", proposed.ID.String()))

	t := models.NewCreate(proposed)
	if err := s.validate(ctx, t); err != nil {
		return nil, err
	}

	st, err := s.commit(ctx, t, owner)
	if err != nil {
		return nil, err
	}

	created := st.Transition.Outputs[0]
	err = s.runInTx(ctx, func(ctx context.Context) error {
		if err := s.store.Insert(ctx, &created); err != nil {
			return err
		}
		s.logAudit(ctx, audit.EventProfileCreated, created, st.TxID)
		return nil
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store committed profile")
	}

	s.publish(ctx, st)
	s.metrics.IncrementCommitted(string(models.KindCreate))

	return created.Clone(), nil
}
