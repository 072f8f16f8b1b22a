package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,PartyDirectory,Signer,Notary,LedgerFeed,AuditPublisher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"bizledger/internal/profile/models"
	"bizledger/internal/profile/service/mocks"
	id "bizledger/pkg/domain"
	dErrors "bizledger/pkg/domain-errors"
	"bizledger/pkg/platform/audit"
	"bizledger/pkg/platform/sentinel"
	"bizledger/pkg/requestcontext"
)

type mockDeps struct {
	store   *mocks.MockStore
	parties *mocks.MockPartyDirectory
	signer  *mocks.MockSigner
	notary  *mocks.MockNotary
	ledger  *mocks.MockLedgerFeed
	audit   *mocks.MockAuditPublisher
	service *Service
}

func newMockDeps(t *testing.T) *mockDeps {
	ctrl := gomock.NewController(t)
	d := &mockDeps{
		store:   mocks.NewMockStore(ctrl),
		parties: mocks.NewMockPartyDirectory(ctrl),
		signer:  mocks.NewMockSigner(ctrl),
		notary:  mocks.NewMockNotary(ctrl),
		ledger:  mocks.NewMockLedgerFeed(ctrl),
		audit:   mocks.NewMockAuditPublisher(ctrl),
	}
	d.service = New(d.store, d.parties, d.signer, d.notary,
		WithLedger(d.ledger),
		WithAuditPublisher(d.audit),
	)
	return d
}

var (
	mockOwner = models.Party{ID: id.NewPartyID(), Name: "alice", OwningKey: "alice-key"}
	mockNow   = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
)

func ownerCtx(party models.Party) context.Context {
	ctx := requestcontext.WithPartyID(context.Background(), party.ID)
	return requestcontext.WithTime(ctx, mockNow)
}

func committedVersion() *models.Profile {
	return &models.Profile{
		ID:                 id.NewProfileID(),
		Owner:              mockOwner,
		MobileNumber:       "1234567890",
		GSTUserName:        "alice_gst",
		RegistrationNumber: "27AAPFU0939F1ZV",
		RegistrationStatus: "ACTIVE",
		LegalBusinessName:  "Alice Traders",
		PlaceOfBusiness:    "Mumbai",
		Status:             id.StatusActive,
		LastModified:       mockNow.Add(-time.Hour),
		Ref:                models.Ref{TxID: "prev-tx", Index: 0},
		Version:            1,
	}
}

func fakeSign(_ context.Context, p models.Party, txID string) (models.Signature, error) {
	return models.Signature{Party: p.ID, Key: p.OwningKey, Token: "token-for-" + txID}, nil
}

func TestCreateProfile_CollaboratorFailures(t *testing.T) {
	t.Run("rejection never reaches the signer", func(t *testing.T) {
		d := newMockDeps(t)
		d.parties.EXPECT().Party(gomock.Any(), mockOwner.ID).Return(mockOwner, nil)

		cmd := aliceCreate()
		cmd.MobileNumber = ""
		_, err := d.service.CreateProfile(ownerCtx(mockOwner), cmd)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("signer unavailable", func(t *testing.T) {
		d := newMockDeps(t)
		d.parties.EXPECT().Party(gomock.Any(), mockOwner.ID).Return(mockOwner, nil)
		d.signer.EXPECT().Sign(gomock.Any(), mockOwner, gomock.Any()).
			Return(models.Signature{}, sentinel.ErrUnavailable)

		_, err := d.service.CreateProfile(ownerCtx(mockOwner), aliceCreate())
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
	})

	t.Run("signer without the caller's key", func(t *testing.T) {
		d := newMockDeps(t)
		d.parties.EXPECT().Party(gomock.Any(), mockOwner.ID).Return(mockOwner, nil)
		d.signer.EXPECT().Sign(gomock.Any(), mockOwner, gomock.Any()).
			Return(models.Signature{}, sentinel.ErrNotFound)

		_, err := d.service.CreateProfile(ownerCtx(mockOwner), aliceCreate())
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("notary unavailable stores nothing", func(t *testing.T) {
		d := newMockDeps(t)
		d.parties.EXPECT().Party(gomock.Any(), mockOwner.ID).Return(mockOwner, nil)
		d.signer.EXPECT().Sign(gomock.Any(), mockOwner, gomock.Any()).DoAndReturn(fakeSign)
		d.notary.EXPECT().Commit(gomock.Any(), gomock.Any()).Return(sentinel.ErrUnavailable)

		_, err := d.service.CreateProfile(ownerCtx(mockOwner), aliceCreate())
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
		assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	})

	t.Run("notary call cancelled is a timeout", func(t *testing.T) {
		d := newMockDeps(t)
		d.parties.EXPECT().Party(gomock.Any(), mockOwner.ID).Return(mockOwner, nil)
		d.signer.EXPECT().Sign(gomock.Any(), mockOwner, gomock.Any()).DoAndReturn(fakeSign)
		d.notary.EXPECT().Commit(gomock.Any(), gomock.Any()).Return(context.Canceled)

		_, err := d.service.CreateProfile(ownerCtx(mockOwner), aliceCreate())
		assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("notary deadline is a timeout", func(t *testing.T) {
		d := newMockDeps(t)
		d.parties.EXPECT().Party(gomock.Any(), mockOwner.ID).Return(mockOwner, nil)
		d.signer.EXPECT().Sign(gomock.Any(), mockOwner, gomock.Any()).DoAndReturn(fakeSign)
		d.notary.EXPECT().Commit(gomock.Any(), gomock.Any()).Return(context.DeadlineExceeded)

		_, err := d.service.CreateProfile(ownerCtx(mockOwner), aliceCreate())
		assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
	})

	t.Run("notary refusing the signatures is internal", func(t *testing.T) {
		d := newMockDeps(t)
		d.parties.EXPECT().Party(gomock.Any(), mockOwner.ID).Return(mockOwner, nil)
		d.signer.EXPECT().Sign(gomock.Any(), mockOwner, gomock.Any()).DoAndReturn(fakeSign)
		d.notary.EXPECT().Commit(gomock.Any(), gomock.Any()).Return(sentinel.ErrInvalidState)

		_, err := d.service.CreateProfile(ownerCtx(mockOwner), aliceCreate())
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})

	t.Run("directory failure is internal", func(t *testing.T) {
		d := newMockDeps(t)
		d.parties.EXPECT().Party(gomock.Any(), mockOwner.ID).Return(models.Party{}, errors.New("directory down"))

		_, err := d.service.CreateProfile(ownerCtx(mockOwner), aliceCreate())
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})

	t.Run("signed transition carries the sealed tx id", func(t *testing.T) {
		d := newMockDeps(t)
		d.parties.EXPECT().Party(gomock.Any(), mockOwner.ID).Return(mockOwner, nil)
		d.signer.EXPECT().Sign(gomock.Any(), mockOwner, gomock.Any()).DoAndReturn(fakeSign)
		d.notary.EXPECT().Commit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, st models.SignedTransition) error {
				assert.Equal(t, st.Transition.Digest(), st.TxID)
				assert.True(t, st.SignedBy(mockOwner.OwningKey))
				assert.Equal(t, st.TxID, st.Transition.Outputs[0].Ref.TxID)
				return nil
			})
		d.store.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
		d.ledger.EXPECT().Record(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))
		d.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("audit down"))

		p, err := d.service.CreateProfile(ownerCtx(mockOwner), aliceCreate())
		require.NoError(t, err, "feed and audit failures after commit are not returned")
		assert.Equal(t, 1, p.Version)
	})

	t.Run("store failure after commit is internal", func(t *testing.T) {
		d := newMockDeps(t)
		d.parties.EXPECT().Party(gomock.Any(), mockOwner.ID).Return(mockOwner, nil)
		d.signer.EXPECT().Sign(gomock.Any(), mockOwner, gomock.Any()).DoAndReturn(fakeSign)
		d.notary.EXPECT().Commit(gomock.Any(), gomock.Any()).Return(nil)
		d.store.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

		_, err := d.service.CreateProfile(ownerCtx(mockOwner), aliceCreate())
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func TestUpdateProfile_CollaboratorFailures(t *testing.T) {
	t.Run("non-owner never reaches the signer", func(t *testing.T) {
		d := newMockDeps(t)
		bob := models.Party{ID: id.NewPartyID(), Name: "bob", OwningKey: "bob-key"}
		prev := committedVersion()
		d.store.EXPECT().FindOwned(gomock.Any(), prev.ID, bob.ID).Return(nil, sentinel.ErrNotFound)

		_, err := d.service.UpdateProfile(ownerCtx(bob), prev.ID, updateFrom(prev))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("store returning a foreign profile is still not found", func(t *testing.T) {
		d := newMockDeps(t)
		bob := models.Party{ID: id.NewPartyID(), Name: "bob", OwningKey: "bob-key"}
		prev := committedVersion()
		d.store.EXPECT().FindOwned(gomock.Any(), prev.ID, bob.ID).Return(prev, nil)

		_, err := d.service.UpdateProfile(ownerCtx(bob), prev.ID, updateFrom(prev))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("conflict is reported and audited", func(t *testing.T) {
		d := newMockDeps(t)
		prev := committedVersion()
		d.store.EXPECT().FindOwned(gomock.Any(), prev.ID, mockOwner.ID).Return(prev, nil)
		d.notary.EXPECT().Consumer(gomock.Any(), prev.Ref).Return(models.SignedTransition{}, sentinel.ErrNotFound)
		d.signer.EXPECT().Sign(gomock.Any(), mockOwner, gomock.Any()).DoAndReturn(fakeSign)
		d.notary.EXPECT().Commit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, st models.SignedTransition) error {
				assert.Equal(t, []models.Ref{prev.Ref}, st.Transition.Consumes())
				return sentinel.ErrConflict
			})
		d.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e audit.Event) error {
				assert.Equal(t, string(audit.EventProfileCommitConflict), e.Action)
				assert.Equal(t, prev.ID, e.ProfileID)
				assert.Equal(t, "version already consumed", e.Reason)
				return nil
			})

		_, err := d.service.UpdateProfile(ownerCtx(mockOwner), prev.ID, updateFrom(prev))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
		assert.Equal(t, "profile was modified concurrently; re-read and retry", err.Error())
	})

	t.Run("replace consumes the looked-up version", func(t *testing.T) {
		d := newMockDeps(t)
		prev := committedVersion()
		d.store.EXPECT().FindOwned(gomock.Any(), prev.ID, mockOwner.ID).Return(prev, nil)
		d.notary.EXPECT().Consumer(gomock.Any(), prev.Ref).Return(models.SignedTransition{}, sentinel.ErrNotFound)
		d.signer.EXPECT().Sign(gomock.Any(), mockOwner, gomock.Any()).DoAndReturn(fakeSign)
		d.notary.EXPECT().Commit(gomock.Any(), gomock.Any()).Return(nil)
		d.store.EXPECT().Replace(gomock.Any(), prev.Ref, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ models.Ref, next *models.Profile) error {
				assert.Equal(t, 2, next.Version)
				assert.Equal(t, mockNow, next.LastModified)
				return nil
			})
		d.ledger.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)
		d.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		_, err := d.service.UpdateProfile(ownerCtx(mockOwner), prev.ID, updateFrom(prev))
		require.NoError(t, err)
	})

	t.Run("replayed transaction already in the store succeeds", func(t *testing.T) {
		d := newMockDeps(t)
		prev := committedVersion()
		var stored *models.Profile
		d.store.EXPECT().FindOwned(gomock.Any(), prev.ID, mockOwner.ID).Return(prev, nil)
		d.notary.EXPECT().Consumer(gomock.Any(), prev.Ref).Return(models.SignedTransition{}, sentinel.ErrNotFound)
		d.signer.EXPECT().Sign(gomock.Any(), mockOwner, gomock.Any()).DoAndReturn(fakeSign)
		d.notary.EXPECT().Commit(gomock.Any(), gomock.Any()).Return(nil)
		d.store.EXPECT().Replace(gomock.Any(), prev.Ref, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ models.Ref, next *models.Profile) error {
				stored = next.Clone()
				return sentinel.ErrConflict
			})
		d.store.EXPECT().FindOwned(gomock.Any(), prev.ID, mockOwner.ID).DoAndReturn(
			func(context.Context, id.ProfileID, id.PartyID) (*models.Profile, error) {
				return stored, nil
			})
		d.ledger.EXPECT().Record(gomock.Any(), gomock.Any()).Times(0)
		d.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Times(0)

		got, err := d.service.UpdateProfile(ownerCtx(mockOwner), prev.ID, updateFrom(prev))
		require.NoError(t, err)
		assert.Equal(t, stored.Ref, got.Ref)
	})

	t.Run("store moved past the committed version is internal", func(t *testing.T) {
		d := newMockDeps(t)
		prev := committedVersion()
		other := committedVersion()
		other.ID = prev.ID
		other.Ref = models.Ref{TxID: "someone-else", Index: 0}
		d.store.EXPECT().FindOwned(gomock.Any(), prev.ID, mockOwner.ID).Return(prev, nil)
		d.notary.EXPECT().Consumer(gomock.Any(), prev.Ref).Return(models.SignedTransition{}, sentinel.ErrNotFound)
		d.signer.EXPECT().Sign(gomock.Any(), mockOwner, gomock.Any()).DoAndReturn(fakeSign)
		d.notary.EXPECT().Commit(gomock.Any(), gomock.Any()).Return(nil)
		d.store.EXPECT().Replace(gomock.Any(), prev.Ref, gomock.Any()).Return(sentinel.ErrConflict)
		d.store.EXPECT().FindOwned(gomock.Any(), prev.ID, mockOwner.ID).Return(other, nil)

		_, err := d.service.UpdateProfile(ownerCtx(mockOwner), prev.ID, updateFrom(prev))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})

	t.Run("store lookup failure is internal", func(t *testing.T) {
		d := newMockDeps(t)
		profileID := id.NewProfileID()
		d.store.EXPECT().FindOwned(gomock.Any(), profileID, mockOwner.ID).Return(nil, errors.New("connection reset"))

		_, err := d.service.UpdateProfile(ownerCtx(mockOwner), profileID, models.UpdateProfileCommand{})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

// committedSuccessor is an update of prev that the notary accepted.
func committedSuccessor(prev *models.Profile) models.SignedTransition {
	cmd := updateFrom(prev)
	cmd.MobileNumber = "5555555555"
	t := models.NewUpdate(*prev, prev.Successor(cmd, mockNow))
	txID := t.Seal()
	sig, _ := fakeSign(context.Background(), prev.Owner, txID)
	return models.SignedTransition{TxID: txID, Transition: t, Signatures: []models.Signature{sig}}
}

func TestGetProfile_RollForward(t *testing.T) {
	t.Run("notary lookup failure serves the stored version", func(t *testing.T) {
		d := newMockDeps(t)
		prev := committedVersion()
		d.store.EXPECT().FindOwned(gomock.Any(), prev.ID, mockOwner.ID).Return(prev, nil)
		d.notary.EXPECT().Consumer(gomock.Any(), prev.Ref).Return(models.SignedTransition{}, sentinel.ErrUnavailable)

		got, err := d.service.GetProfile(ownerCtx(mockOwner), prev.ID)
		require.NoError(t, err)
		assert.Equal(t, prev.Ref, got.Ref)
	})

	t.Run("committed successor missing from the store is written first", func(t *testing.T) {
		d := newMockDeps(t)
		prev := committedVersion()
		st := committedSuccessor(prev)
		next := st.Transition.Outputs[0]

		gomock.InOrder(
			d.store.EXPECT().FindOwned(gomock.Any(), prev.ID, mockOwner.ID).Return(prev, nil),
			d.notary.EXPECT().Consumer(gomock.Any(), prev.Ref).Return(st, nil),
			d.store.EXPECT().Replace(gomock.Any(), prev.Ref, gomock.Any()).DoAndReturn(
				func(_ context.Context, _ models.Ref, p *models.Profile) error {
					assert.Equal(t, next.Ref, p.Ref)
					assert.Equal(t, 2, p.Version)
					return nil
				}),
			d.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, e audit.Event) error {
					assert.Equal(t, string(audit.EventProfileRolledForward), e.Action)
					assert.Equal(t, st.TxID, e.TxID)
					return nil
				}),
			d.ledger.EXPECT().Record(gomock.Any(), st).Return(nil),
			d.notary.EXPECT().Consumer(gomock.Any(), next.Ref).Return(models.SignedTransition{}, sentinel.ErrNotFound),
		)

		got, err := d.service.GetProfile(ownerCtx(mockOwner), prev.ID)
		require.NoError(t, err)
		assert.Equal(t, next.Ref, got.Ref)
		assert.Equal(t, "5555555555", got.MobileNumber)
	})

	t.Run("another reader applying the successor first is followed", func(t *testing.T) {
		d := newMockDeps(t)
		prev := committedVersion()
		st := committedSuccessor(prev)
		next := st.Transition.Outputs[0]

		gomock.InOrder(
			d.store.EXPECT().FindOwned(gomock.Any(), prev.ID, mockOwner.ID).Return(prev, nil),
			d.notary.EXPECT().Consumer(gomock.Any(), prev.Ref).Return(st, nil),
			d.store.EXPECT().Replace(gomock.Any(), prev.Ref, gomock.Any()).Return(sentinel.ErrConflict),
			d.store.EXPECT().FindOwned(gomock.Any(), prev.ID, mockOwner.ID).Return(next.Clone(), nil),
			d.notary.EXPECT().Consumer(gomock.Any(), next.Ref).Return(models.SignedTransition{}, sentinel.ErrNotFound),
		)

		got, err := d.service.GetProfile(ownerCtx(mockOwner), prev.ID)
		require.NoError(t, err)
		assert.Equal(t, next.Ref, got.Ref)
	})

	t.Run("store failure while rolling forward is internal", func(t *testing.T) {
		d := newMockDeps(t)
		prev := committedVersion()
		st := committedSuccessor(prev)
		d.store.EXPECT().FindOwned(gomock.Any(), prev.ID, mockOwner.ID).Return(prev, nil)
		d.notary.EXPECT().Consumer(gomock.Any(), prev.Ref).Return(st, nil)
		d.store.EXPECT().Replace(gomock.Any(), prev.Ref, gomock.Any()).Return(errors.New("disk full"))

		_, err := d.service.GetProfile(ownerCtx(mockOwner), prev.ID)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func TestListProfiles_StoreFailure(t *testing.T) {
	d := newMockDeps(t)
	d.store.EXPECT().ListByOwner(gomock.Any(), mockOwner.ID).Return(nil, errors.New("timeout"))

	_, err := d.service.ListProfiles(ownerCtx(mockOwner))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}

type txMarker struct{}

// stubRunner marks the context it hands to fn and can fail the commit.
type stubRunner struct {
	calls     int
	commitErr error
}

func (r *stubRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.calls++
	if err := fn(context.WithValue(ctx, txMarker{}, true)); err != nil {
		return err
	}
	return r.commitErr
}

func TestTxRunner(t *testing.T) {
	inTx := func(ctx context.Context) bool {
		v, _ := ctx.Value(txMarker{}).(bool)
		return v
	}

	t.Run("store write and audit event share the transaction", func(t *testing.T) {
		d := newMockDeps(t)
		runner := &stubRunner{}
		WithTxRunner(runner)(d.service)

		d.parties.EXPECT().Party(gomock.Any(), mockOwner.ID).Return(mockOwner, nil)
		d.signer.EXPECT().Sign(gomock.Any(), mockOwner, gomock.Any()).DoAndReturn(fakeSign)
		d.notary.EXPECT().Commit(gomock.Any(), gomock.Any()).Return(nil)
		d.store.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, _ *models.Profile) error {
				assert.True(t, inTx(ctx))
				return nil
			})
		d.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, _ audit.Event) error {
				assert.True(t, inTx(ctx))
				return nil
			})
		d.ledger.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, _ models.SignedTransition) error {
				assert.False(t, inTx(ctx))
				return nil
			})

		_, err := d.service.CreateProfile(ownerCtx(mockOwner), aliceCreate())
		require.NoError(t, err)
		assert.Equal(t, 1, runner.calls)
	})

	t.Run("failed commit is internal and nothing is published", func(t *testing.T) {
		d := newMockDeps(t)
		WithTxRunner(&stubRunner{commitErr: errors.New("serialization failure")})(d.service)

		d.parties.EXPECT().Party(gomock.Any(), mockOwner.ID).Return(mockOwner, nil)
		d.signer.EXPECT().Sign(gomock.Any(), mockOwner, gomock.Any()).DoAndReturn(fakeSign)
		d.notary.EXPECT().Commit(gomock.Any(), gomock.Any()).Return(nil)
		d.store.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
		d.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		_, err := d.service.CreateProfile(ownerCtx(mockOwner), aliceCreate())
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})
}
