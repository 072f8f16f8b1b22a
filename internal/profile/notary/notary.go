// Package notary orders commits: every version may be consumed by at most one
// transaction. A transaction whose inputs are all unconsumed (or were consumed
// by this same transaction) is committed atomically; otherwise it fails with
// sentinel.ErrConflict and nothing is recorded.
package notary

import (
	"fmt"

	"bizledger/internal/profile/models"
	"bizledger/internal/profile/signer"
	"bizledger/pkg/platform/sentinel"
)

// checkSignatures requires a valid signature over the transaction id from
// every key the transition names as required.
func checkSignatures(st models.SignedTransition) error {
	if st.TxID == "" {
		return fmt.Errorf("notarise: missing tx id: %w", sentinel.ErrInvalidState)
	}
	if st.TxID != st.Transition.Digest() {
		return fmt.Errorf("notarise: tx id does not match content: %w", sentinel.ErrInvalidState)
	}
	for key := range st.Transition.Signers {
		found := false
		for _, sig := range st.Signatures {
			if sig.Key != key {
				continue
			}
			if err := signer.Verify(sig, st.TxID); err != nil {
				return fmt.Errorf("notarise: %v: %w", err, sentinel.ErrInvalidState)
			}
			found = true
			break
		}
		if !found {
			return fmt.Errorf("notarise: missing signature for %s: %w", key, sentinel.ErrInvalidState)
		}
	}
	return nil
}
