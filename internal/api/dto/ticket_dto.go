package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	IncidentArea string  `json:"incident_area"`
	CategoryID   int64   `json:"category_id"`
	PriorityID   int64   `json:"priority_id"`
	ImageKey     *string `json:"image_key,omitempty"`
}

// UpdateTicketRequest carries a partial update. Pointer fields
// distinguish "absent" from "present"; the technician reference is the
// one field where an explicit null is meaningful, so its presence is
// tracked separately during unmarshalling.
type UpdateTicketRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	IncidentArea *string `json:"incident_area"`
	CategoryID   *int64  `json:"category_id"`
	PriorityID   *int64  `json:"priority_id"`
	StatusID     *int64  `json:"status_id"`
	TechnicianID *string `json:"technician_id"`

	technicianPresent bool
}

// rawUpdate mirrors UpdateTicketRequest for two-pass decoding.
type rawUpdate struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	IncidentArea *string `json:"incident_area"`
	CategoryID   *int64  `json:"category_id"`
	PriorityID   *int64  `json:"priority_id"`
	StatusID     *int64  `json:"status_id"`
	TechnicianID *string `json:"technician_id"`
}

// UnmarshalJSON records whether the technician key appeared at all, so
// a JSON null can mean "unassign" while an absent key means "leave it".
func (r *UpdateTicketRequest) UnmarshalJSON(data []byte) error {
	var raw rawUpdate
	if err := jsonUnmarshal(data, &raw); err != nil {
		return err
	}
	keys, err := topLevelKeys(data)
	if err != nil {
		return err
	}

	r.Title = raw.Title
	r.Description = raw.Description
	r.IncidentArea = raw.IncidentArea
	r.CategoryID = raw.CategoryID
	r.PriorityID = raw.PriorityID
	r.StatusID = raw.StatusID
	r.TechnicianID = raw.TechnicianID
	r.technicianPresent = keys["technician_id"]
	return nil
}

// ToPatch converts the request into the service-layer patch.
func (r UpdateTicketRequest) ToPatch() service.TicketPatch {
	return service.TicketPatch{
		Title:         r.Title,
		Description:   r.Description,
		IncidentArea:  r.IncidentArea,
		CategoryID:    r.CategoryID,
		PriorityID:    r.PriorityID,
		StatusID:      r.StatusID,
		SetTechnician: r.technicianPresent,
		TechnicianID:  r.TechnicianID,
	}
}

// TicketResponse is the resolved ticket view. A ticket with no
// technician reports "Unassigned" rather than null.
type TicketResponse struct {
	ID             string     `json:"id"`
	Token          string     `json:"token"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	IncidentArea   string     `json:"incident_area"`
	CategoryID     int64      `json:"category_id"`
	CategoryName   string     `json:"category_name"`
	PriorityID     int64      `json:"priority_id"`
	PriorityName   string     `json:"priority_name"`
	StatusID       int64      `json:"status_id"`
	StatusName     string     `json:"status_name"`
	CreatorID      string     `json:"creator_id"`
	CreatorName    string     `json:"creator_name"`
	TechnicianID   *string    `json:"technician_id"`
	TechnicianName string     `json:"technician_name"`
	ImageKey       *string    `json:"image_key,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	ClosedAt       *time.Time `json:"closed_at"`
}

// NewTicketResponse maps a view to its response shape.
func NewTicketResponse(view *domain.TicketView) TicketResponse {
	technicianName := service.LabelUnassigned
	if view.TechnicianName != nil {
		technicianName = *view.TechnicianName
	}
	return TicketResponse{
		ID:             view.ID,
		Token:          view.Token,
		Title:          view.Title,
		Description:    view.Description,
		IncidentArea:   view.IncidentArea,
		CategoryID:     view.CategoryID,
		CategoryName:   view.CategoryName,
		PriorityID:     view.PriorityID,
		PriorityName:   view.PriorityName,
		StatusID:       view.StatusID,
		StatusName:     view.StatusName,
		CreatorID:      view.CreatorID,
		CreatorName:    view.CreatorName,
		TechnicianID:   view.TechnicianID,
		TechnicianName: technicianName,
		ImageKey:       view.ImageKey,
		CreatedAt:      view.CreatedAt,
		UpdatedAt:      view.UpdatedAt,
		ClosedAt:       view.ClosedAt,
	}
}

// NewTicketResponses maps a slice of views.
func NewTicketResponses(views []domain.TicketView) []TicketResponse {
	out := make([]TicketResponse, 0, len(views))
	for i := range views {
		out = append(out, NewTicketResponse(&views[i]))
	}
	return out
}

// TicketChangeResponse is one audit trail entry.
type TicketChangeResponse struct {
	ID          string    `json:"id"`
	ActorID     string    `json:"actor_id"`
	Kind        string    `json:"kind"`
	Field       string    `json:"field"`
	OldValue    *string   `json:"old_value"`
	NewValue    *string   `json:"new_value"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewTicketChangeResponses maps audit entries.
func NewTicketChangeResponses(changes []domain.TicketChange) []TicketChangeResponse {
	out := make([]TicketChangeResponse, 0, len(changes))
	for _, c := range changes {
		out = append(out, TicketChangeResponse{
			ID:          c.ID,
			ActorID:     c.ActorID,
			Kind:        string(c.Kind),
			Field:       c.Field,
			OldValue:    c.OldValue,
			NewValue:    c.NewValue,
			Description: c.Description,
			CreatedAt:   c.CreatedAt,
		})
	}
	return out
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Body string `json:"body"`
}

// TicketCommentResponse is one comment.
type TicketCommentResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTicketCommentResponses maps comments.
func NewTicketCommentResponses(comments []domain.TicketComment) []TicketCommentResponse {
	out := make([]TicketCommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, TicketCommentResponse{
			ID:        c.ID,
			AuthorID:  c.AuthorID,
			Body:      c.Body,
			CreatedAt: c.CreatedAt,
		})
	}
	return out
}

// TicketDetailResponse bundles a ticket with its history and comments.
type TicketDetailResponse struct {
	Ticket   TicketResponse          `json:"ticket"`
	History  []TicketChangeResponse  `json:"history"`
	Comments []TicketCommentResponse `json:"comments"`
}
