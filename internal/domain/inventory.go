package domain

import "time"

// AssetState enumerates lifecycle states shared by equipment and tools.
type AssetState string

const (
	AssetStateAvailable   AssetState = "AVAILABLE"
	AssetStateAssigned    AssetState = "ASSIGNED"
	AssetStateMaintenance AssetState = "MAINTENANCE"
	AssetStateRetired     AssetState = "RETIRED"
)

// Equipment is a serialized asset that can be assigned to a user.
type Equipment struct {
	ID             int64
	TypeID         int64
	SerialNumber   string
	AssignedUserID *string
	State          AssetState
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Tool is a shared asset tracked by location rather than assignee.
type Tool struct {
	ID        int64
	TypeID    int64
	Location  string
	State     AssetState
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Consumable tracks stock levels for expendable supplies.
type Consumable struct {
	ID           int64
	TypeID       int64
	Quantity     int
	MinimumStock int
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BelowMinimum reports whether stock has fallen under the reorder level.
func (c Consumable) BelowMinimum() bool {
	return c.Quantity < c.MinimumStock
}
