package ledger

import (
	"context"
	"sync"

	"bizledger/internal/profile/models"
	id "bizledger/pkg/domain"
	"bizledger/pkg/requestcontext"
)

// InMemoryFeed keeps committed transitions in process.
type InMemoryFeed struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewInMemoryFeed() *InMemoryFeed {
	return &InMemoryFeed{}
}

func (f *InMemoryFeed) Record(ctx context.Context, st models.SignedTransition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, NewEntry(st, requestcontext.Now(ctx)))
	return nil
}

// History returns the entries that produced versions of profileID, oldest first.
func (f *InMemoryFeed) History(profileID id.ProfileID) []Entry {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []Entry
	for _, e := range f.entries {
		for _, o := range e.Outputs {
			if o.ID == profileID {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// Len returns the number of recorded entries.
func (f *InMemoryFeed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.entries)
}
