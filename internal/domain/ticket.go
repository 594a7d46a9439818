package domain

import "time"

// Ticket is the aggregate for support requests. Category, priority and
// status are references into admin-managed lookup tables; the incident
// area is stored as its label.
type Ticket struct {
	ID           string
	Token        string
	Title        string
	Description  string
	IncidentArea string
	CategoryID   int64
	PriorityID   int64
	StatusID     int64
	CreatorID    string
	TechnicianID *string
	ImageKey     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ClosedAt     *time.Time
}

// TicketView is a ticket with every reference resolved to its display
// label, as returned by read endpoints.
type TicketView struct {
	Ticket
	CategoryName   string
	PriorityName   string
	StatusName     string
	CreatorName    string
	TechnicianName *string
}
