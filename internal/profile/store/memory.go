// Package store keeps the current committed version of every profile.
//
// The store is a reporting view: it is written only after the notary commits
// a transition, and readers always receive copies.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"bizledger/internal/profile/models"
	id "bizledger/pkg/domain"
	"bizledger/pkg/platform/sentinel"
)

// InMemoryStore holds current versions in a map.
type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[id.ProfileID]*models.Profile
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{profiles: make(map[id.ProfileID]*models.Profile)}
}

// Insert stores the first version of a profile.
//
// Errors: sentinel.ErrAlreadyUsed when the id exists.
func (s *InMemoryStore) Insert(_ context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.profiles[p.ID]; exists {
		return fmt.Errorf("profile %s: %w", p.ID, sentinel.ErrAlreadyUsed)
	}
	s.profiles[p.ID] = p.Clone()
	return nil
}

// FindOwned returns the current version of profileID if owner owns it.
// Missing and not-owned are the same sentinel.ErrNotFound.
func (s *InMemoryStore) FindOwned(_ context.Context, profileID id.ProfileID, owner id.PartyID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[profileID]
	if !ok || !p.OwnedBy(owner) {
		return nil, sentinel.ErrNotFound
	}
	return p.Clone(), nil
}

// ListByOwner returns owner's current versions, oldest modification first.
func (s *InMemoryStore) ListByOwner(_ context.Context, owner id.PartyID) ([]*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Profile, 0)
	for _, p := range s.profiles {
		if p.OwnedBy(owner) {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastModified.Equal(out[j].LastModified) {
			return out[i].LastModified.Before(out[j].LastModified)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// Replace swaps the current version for next, provided the current version
// is still consumed.
//
// Errors: sentinel.ErrNotFound when the profile is missing;
// sentinel.ErrConflict when the current version is not consumed.
func (s *InMemoryStore) Replace(_ context.Context, consumed models.Ref, next *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.profiles[next.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if cur.Ref != consumed {
		return fmt.Errorf("profile %s at %s, expected %s: %w", next.ID, cur.Ref, consumed, sentinel.ErrConflict)
	}
	s.profiles[next.ID] = next.Clone()
	return nil
}
