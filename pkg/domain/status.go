package domain

import (
	"strings"

	dErrors "bizledger/pkg/domain-errors"
)

// ProfileStatus is the lifecycle status of a profile version.
// Invariant: the value is one of the supported statuses.
//
// Usage: construct via ParseProfileStatus at trust boundaries; direct casting
// bypasses validation and is left to the validator to reject.
type ProfileStatus string

const (
	StatusActive   ProfileStatus = "ACTIVE"
	StatusInactive ProfileStatus = "INACTIVE"
)

var validProfileStatuses = map[ProfileStatus]bool{
	StatusActive:   true,
	StatusInactive: true,
}

// ParseProfileStatus constructs a ProfileStatus from external input.
// Matching is case-insensitive; the stored form is upper case.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseProfileStatus(s string) (ProfileStatus, error) {
	if strings.TrimSpace(s) == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "status cannot be empty")
	}
	st := ProfileStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid status")
	}
	return st, nil
}

// IsValid checks if the status is one of the supported values.
func (s ProfileStatus) IsValid() bool {
	return validProfileStatuses[s]
}

func (s ProfileStatus) String() string {
	return string(s)
}
