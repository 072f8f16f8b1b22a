// Package domain holds identifier and value types shared across modules.
//
// Typed IDs keep profile and party identifiers from being swapped at compile
// time. Construct them from external input with the Parse functions so that
// empty, malformed and nil UUIDs are rejected at the trust boundary.
package domain

import (
	"github.com/google/uuid"

	dErrors "bizledger/pkg/domain-errors"
)

// ProfileID identifies a profile lineage. It is assigned once on creation and
// carried unchanged through every later version.
type ProfileID uuid.UUID

// PartyID identifies a participant in the registry (an owner or a signer).
type PartyID uuid.UUID

func NewProfileID() ProfileID { return ProfileID(uuid.New()) }

func NewPartyID() PartyID { return PartyID(uuid.New()) }

func (id ProfileID) String() string { return uuid.UUID(id).String() }
func (id PartyID) String() string   { return uuid.UUID(id).String() }

func (id ProfileID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id PartyID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }

// ParseProfileID parses external input into a ProfileID.
//
// Errors: CodeInvalidInput when the value is empty, malformed or the nil UUID.
func ParseProfileID(s string) (ProfileID, error) {
	u, err := parseUUID(s, "profile id")
	return ProfileID(u), err
}

// ParsePartyID parses external input into a PartyID.
//
// Errors: CodeInvalidInput when the value is empty, malformed or the nil UUID.
func ParsePartyID(s string) (PartyID, error) {
	u, err := parseUUID(s, "party id")
	return PartyID(u), err
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" must not be nil")
	}
	return u, nil
}
