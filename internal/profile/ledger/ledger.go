// Package ledger records committed transitions. The record store only keeps
// the current version of each profile; the ledger feed keeps the history.
package ledger

import (
	"time"

	"bizledger/internal/profile/models"
)

// Entry is the wire form of one committed transition.
type Entry struct {
	TxID        string           `json:"tx_id"`
	Kind        models.Kind      `json:"kind"`
	Consumes    []models.Ref     `json:"consumes"`
	Outputs     []models.Profile `json:"outputs"`
	Signatures  []EntrySignature `json:"signatures"`
	CommittedAt time.Time        `json:"committed_at"`
}

// EntrySignature is a signature as published on the feed.
type EntrySignature struct {
	Party string           `json:"party"`
	Key   models.PublicKey `json:"key"`
	Token string           `json:"token"`
}

// NewEntry converts a committed transition into its feed form.
func NewEntry(st models.SignedTransition, committedAt time.Time) Entry {
	e := Entry{
		TxID:        st.TxID,
		Kind:        st.Transition.Kind,
		Consumes:    st.Transition.Consumes(),
		Outputs:     append([]models.Profile(nil), st.Transition.Outputs...),
		CommittedAt: committedAt.UTC(),
	}
	for _, sig := range st.Signatures {
		e.Signatures = append(e.Signatures, EntrySignature{Party: sig.Party.String(), Key: sig.Key, Token: sig.Token})
	}
	return e
}
