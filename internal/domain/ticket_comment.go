package domain

import "time"

// TicketComment is a free-text note on a ticket thread. Append-only.
type TicketComment struct {
	ID        string
	TicketID  string
	AuthorID  string
	Body      string
	CreatedAt time.Time
}
