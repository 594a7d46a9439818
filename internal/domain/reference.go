package domain

import "time"

// ReferenceKind names an admin-managed lookup table.
type ReferenceKind string

const (
	KindCategory       ReferenceKind = "categories"
	KindPriority       ReferenceKind = "priorities"
	KindIncidentArea   ReferenceKind = "incident_areas"
	KindEquipmentType  ReferenceKind = "equipment_types"
	KindToolType       ReferenceKind = "tool_types"
	KindConsumableType ReferenceKind = "consumable_types"
)

// ReferenceEntry is one row of a lookup table.
type ReferenceEntry struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Status is a ticket lifecycle state. Exactly one row carries the
// terminal flag; reaching it stamps the ticket's closure time.
type Status struct {
	ID        int64
	Name      string
	Terminal  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
