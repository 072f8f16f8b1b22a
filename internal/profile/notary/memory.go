package notary

import (
	"context"
	"fmt"
	"sync"

	"bizledger/internal/profile/models"
	"bizledger/pkg/platform/sentinel"
)

// InMemory is a single-process notary.
type InMemory struct {
	mu        sync.Mutex
	consumed  map[models.Ref]string
	committed map[string]models.SignedTransition
}

func NewInMemory() *InMemory {
	return &InMemory{
		consumed:  make(map[models.Ref]string),
		committed: make(map[string]models.SignedTransition),
	}
}

// Commit records st's inputs as consumed by st.TxID.
func (n *InMemory) Commit(ctx context.Context, st models.SignedTransition) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkSignatures(st); err != nil {
		return err
	}

	refs := st.Transition.Consumes()

	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ref := range refs {
		if by, ok := n.consumed[ref]; ok && by != st.TxID {
			return fmt.Errorf("version %s consumed by %s: %w", ref, by, sentinel.ErrConflict)
		}
	}
	for _, ref := range refs {
		n.consumed[ref] = st.TxID
	}
	if len(refs) > 0 {
		n.committed[st.TxID] = st
	}
	return nil
}

// Consumer returns the committed transaction that consumed ref.
//
// Errors: sentinel.ErrNotFound when ref is unconsumed.
func (n *InMemory) Consumer(ctx context.Context, ref models.Ref) (models.SignedTransition, error) {
	if err := ctx.Err(); err != nil {
		return models.SignedTransition{}, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	txID, ok := n.consumed[ref]
	if !ok {
		return models.SignedTransition{}, fmt.Errorf("version %s: %w", ref, sentinel.ErrNotFound)
	}
	st, ok := n.committed[txID]
	if !ok {
		return models.SignedTransition{}, fmt.Errorf("transaction %s: %w", txID, sentinel.ErrNotFound)
	}
	return st, nil
}

// ConsumedBy returns the transaction that consumed ref, if any.
func (n *InMemory) ConsumedBy(ref models.Ref) (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	tx, ok := n.consumed[ref]
	return tx, ok
}
