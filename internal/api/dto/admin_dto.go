package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// ReferenceRequest payload for lookup-table rows.
type ReferenceRequest struct {
	Name string `json:"name"`
}

// ReferenceResponse is one lookup-table row.
type ReferenceResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewReferenceResponse maps a lookup row.
func NewReferenceResponse(entry *domain.ReferenceEntry) ReferenceResponse {
	return ReferenceResponse{
		ID:        entry.ID,
		Name:      entry.Name,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}
}

// NewReferenceResponses maps a slice of lookup rows.
func NewReferenceResponses(entries []domain.ReferenceEntry) []ReferenceResponse {
	out := make([]ReferenceResponse, 0, len(entries))
	for i := range entries {
		out = append(out, NewReferenceResponse(&entries[i]))
	}
	return out
}

// StatusRequest payload for lifecycle statuses.
type StatusRequest struct {
	Name     string `json:"name"`
	Terminal bool   `json:"terminal"`
}

// StatusResponse is one lifecycle status.
type StatusResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Terminal  bool      `json:"terminal"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewStatusResponse maps a status row.
func NewStatusResponse(status *domain.Status) StatusResponse {
	return StatusResponse{
		ID:        status.ID,
		Name:      status.Name,
		Terminal:  status.Terminal,
		CreatedAt: status.CreatedAt,
		UpdatedAt: status.UpdatedAt,
	}
}

// NewStatusResponses maps a slice of statuses.
func NewStatusResponses(statuses []domain.Status) []StatusResponse {
	out := make([]StatusResponse, 0, len(statuses))
	for i := range statuses {
		out = append(out, NewStatusResponse(&statuses[i]))
	}
	return out
}
