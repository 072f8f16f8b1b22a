package audit

import (
	"context"
	"time"

	id "bizledger/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with legal/regulatory significance:
	// every committed change to a business profile.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers events useful for debugging and operational
	// visibility, such as lost commit races.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	// PartyID is the acting party. For profile events this is always the owner.
	PartyID   id.PartyID
	ProfileID id.ProfileID
	Action    string
	Version   int
	TxID      string
	Reason    string
	RequestID string // Correlation ID from HTTP request context
	ClientIP  string
}

type AuditEvent string

const (
	EventProfileCreated        AuditEvent = "profile_created"
	EventProfileUpdated        AuditEvent = "profile_updated"
	EventProfileRolledForward  AuditEvent = "profile_rolled_forward"
	EventProfileCommitConflict AuditEvent = "profile_commit_conflict"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventProfileCreated:        CategoryCompliance,
	EventProfileUpdated:        CategoryCompliance,
	EventProfileRolledForward:  CategoryCompliance,
	EventProfileCommitConflict: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists or forwards audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}
