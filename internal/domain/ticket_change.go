package domain

import "time"

// ChangeKind tags what produced an audit entry.
type ChangeKind string

const (
	ChangeKindCreated   ChangeKind = "CREATED"
	ChangeKindUpdated   ChangeKind = "UPDATED"
	ChangeKindCommented ChangeKind = "COMMENTED"
)

// TicketChange is an immutable audit trail entry. One row is appended
// per field-level mutation; rows are never updated or deleted.
type TicketChange struct {
	ID          string
	TicketID    string
	ActorID     string
	Kind        ChangeKind
	Field       string
	OldValue    *string
	NewValue    *string
	Description string
	CreatedAt   time.Time
}
