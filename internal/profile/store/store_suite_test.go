package store

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"bizledger/internal/profile/models"
	id "bizledger/pkg/domain"
	"bizledger/pkg/platform/sentinel"
)

// profileStore is the contract shared by the memory and Postgres stores.
type profileStore interface {
	Insert(ctx context.Context, p *models.Profile) error
	FindOwned(ctx context.Context, profileID id.ProfileID, owner id.PartyID) (*models.Profile, error)
	ListByOwner(ctx context.Context, owner id.PartyID) ([]*models.Profile, error)
	Replace(ctx context.Context, consumed models.Ref, next *models.Profile) error
}

type storeSuite struct {
	suite.Suite
	store profileStore
	reset func()
}

func (s *storeSuite) SetupTest() {
	if s.reset != nil {
		s.reset()
	}
}

var (
	alice = models.Party{ID: id.NewPartyID(), Name: "alice", OwningKey: "alice-key"}
	bob   = models.Party{ID: id.NewPartyID(), Name: "bob", OwningKey: "bob-key"}
)

func newVersion(owner models.Party, modified time.Time) *models.Profile {
	return &models.Profile{
		ID:                 id.NewProfileID(),
		Owner:              owner,
		MobileNumber:       "1234567890",
		GSTUserName:        "gst_user",
		RegistrationNumber: "REG-" + owner.Name,
		RegistrationStatus: "ACTIVE",
		LegalBusinessName:  owner.Name + " Traders",
		PlaceOfBusiness:    "Mumbai",
		Status:             id.StatusActive,
		LastModified:       modified.UTC().Truncate(time.Microsecond),
		Ref:                models.Ref{TxID: "tx-" + id.NewProfileID().String(), Index: 0},
		Version:            1,
	}
}

func successor(p *models.Profile, mobile string) *models.Profile {
	next := *p
	next.MobileNumber = mobile
	next.LastModified = p.LastModified.Add(time.Second)
	next.Ref = models.Ref{TxID: "tx-" + id.NewProfileID().String(), Index: 0}
	next.Version = p.Version + 1
	return &next
}

func (s *storeSuite) TestInsertAndFind() {
	ctx := context.Background()
	p := newVersion(alice, time.Now())
	s.Require().NoError(s.store.Insert(ctx, p))

	s.Run("owner can read", func() {
		got, err := s.store.FindOwned(ctx, p.ID, alice.ID)
		s.Require().NoError(err)
		s.Equal(p.ID, got.ID)
		s.Equal(p.Owner, got.Owner)
		s.Equal(p.Ref, got.Ref)
		s.True(p.LastModified.Equal(got.LastModified))
	})

	s.Run("non-owner sees not found", func() {
		_, err := s.store.FindOwned(ctx, p.ID, bob.ID)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("unknown id is not found", func() {
		_, err := s.store.FindOwned(ctx, id.NewProfileID(), alice.ID)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("duplicate insert is rejected", func() {
		s.Require().ErrorIs(s.store.Insert(ctx, p), sentinel.ErrAlreadyUsed)
	})

	s.Run("returned copies are detached", func() {
		got, err := s.store.FindOwned(ctx, p.ID, alice.ID)
		s.Require().NoError(err)
		got.MobileNumber = "mutated"

		again, err := s.store.FindOwned(ctx, p.ID, alice.ID)
		s.Require().NoError(err)
		s.Equal("1234567890", again.MobileNumber)
	})
}

func (s *storeSuite) TestReplace() {
	ctx := context.Background()
	v1 := newVersion(alice, time.Now())
	s.Require().NoError(s.store.Insert(ctx, v1))

	v2 := successor(v1, "+6512345678")
	s.Require().NoError(s.store.Replace(ctx, v1.Ref, v2))

	got, err := s.store.FindOwned(ctx, v1.ID, alice.ID)
	s.Require().NoError(err)
	s.Equal("+6512345678", got.MobileNumber)
	s.Equal(2, got.Version)
	s.Equal(v2.Ref, got.Ref)

	s.Run("stale consumed ref conflicts", func() {
		stale := successor(v1, "+6500000000")
		s.Require().ErrorIs(s.store.Replace(ctx, v1.Ref, stale), sentinel.ErrConflict)

		current, err := s.store.FindOwned(ctx, v1.ID, alice.ID)
		s.Require().NoError(err)
		s.Equal("+6512345678", current.MobileNumber)
	})

	s.Run("missing profile is not found", func() {
		orphan := newVersion(alice, time.Now())
		s.Require().ErrorIs(s.store.Replace(ctx, orphan.Ref, successor(orphan, "x")), sentinel.ErrNotFound)
	})
}

func (s *storeSuite) TestListByOwner() {
	ctx := context.Background()
	base := time.Now()
	first := newVersion(alice, base)
	second := newVersion(alice, base.Add(time.Minute))
	other := newVersion(bob, base)

	s.Require().NoError(s.store.Insert(ctx, second))
	s.Require().NoError(s.store.Insert(ctx, first))
	s.Require().NoError(s.store.Insert(ctx, other))

	list, err := s.store.ListByOwner(ctx, alice.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(first.ID, list[0].ID)
	s.Equal(second.ID, list[1].ID)

	empty, err := s.store.ListByOwner(ctx, id.NewPartyID())
	s.Require().NoError(err)
	s.NotNil(empty)
	s.Empty(empty)
}
