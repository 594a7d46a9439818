package service

import (
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Field identifies a trackable ticket attribute.
type Field string

const (
	FieldTitle        Field = "title"
	FieldDescription  Field = "description"
	FieldIncidentArea Field = "incident_area"
	FieldCategory     Field = "category"
	FieldPriority     Field = "priority"
	FieldStatus       Field = "status"
	FieldTechnician   Field = "technician"
)

// fieldOrder fixes the audit-entry order for a single update call.
var fieldOrder = []Field{
	FieldTitle,
	FieldDescription,
	FieldIncidentArea,
	FieldCategory,
	FieldPriority,
	FieldStatus,
	FieldTechnician,
}

var fieldDisplay = map[Field]string{
	FieldTitle:        "Title",
	FieldDescription:  "Description",
	FieldIncidentArea: "Incident area",
	FieldCategory:     "Category",
	FieldPriority:     "Priority",
	FieldStatus:       "Status",
	FieldTechnician:   "Technician",
}

// TicketPatch carries proposed field values with explicit presence: a
// nil pointer means "not proposed", never "set to null". The technician
// reference is the one field that can legitimately be set to null, so
// it carries its own presence flag.
type TicketPatch struct {
	Title        *string
	Description  *string
	IncidentArea *string
	CategoryID   *int64
	PriorityID   *int64
	StatusID     *int64

	SetTechnician bool
	TechnicianID  *string
}

// TouchesTriage reports whether the patch proposes any field reserved
// for technicians and admins.
func (p TicketPatch) TouchesTriage() bool {
	return p.CategoryID != nil || p.PriorityID != nil || p.StatusID != nil || p.SetTechnician
}

// Empty reports whether the patch proposes nothing at all.
func (p TicketPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.IncidentArea == nil &&
		p.CategoryID == nil && p.PriorityID == nil && p.StatusID == nil && !p.SetTechnician
}

// FieldChange describes one detected difference. Exactly one value pair
// is populated depending on the field: Text for plain fields, Ref for
// lookup-table ids, User for the technician reference.
type FieldChange struct {
	Field Field

	OldText string
	NewText string

	OldRef int64
	NewRef int64

	OldUser *string
	NewUser *string
}

// DetectChanges compares the persisted snapshot against the patch and
// returns one descriptor per field whose proposed value differs, in
// fixed field order. Fields absent from the patch and fields proposed
// with their current value produce no descriptor.
func DetectChanges(current *domain.Ticket, patch TicketPatch) []FieldChange {
	var changes []FieldChange
	for _, field := range fieldOrder {
		switch field {
		case FieldTitle:
			if patch.Title != nil && *patch.Title != current.Title {
				changes = append(changes, FieldChange{Field: field, OldText: current.Title, NewText: *patch.Title})
			}
		case FieldDescription:
			if patch.Description != nil && *patch.Description != current.Description {
				changes = append(changes, FieldChange{Field: field, OldText: current.Description, NewText: *patch.Description})
			}
		case FieldIncidentArea:
			if patch.IncidentArea != nil && *patch.IncidentArea != current.IncidentArea {
				changes = append(changes, FieldChange{Field: field, OldText: current.IncidentArea, NewText: *patch.IncidentArea})
			}
		case FieldCategory:
			if patch.CategoryID != nil && *patch.CategoryID != current.CategoryID {
				changes = append(changes, FieldChange{Field: field, OldRef: current.CategoryID, NewRef: *patch.CategoryID})
			}
		case FieldPriority:
			if patch.PriorityID != nil && *patch.PriorityID != current.PriorityID {
				changes = append(changes, FieldChange{Field: field, OldRef: current.PriorityID, NewRef: *patch.PriorityID})
			}
		case FieldStatus:
			if patch.StatusID != nil && *patch.StatusID != current.StatusID {
				changes = append(changes, FieldChange{Field: field, OldRef: current.StatusID, NewRef: *patch.StatusID})
			}
		case FieldTechnician:
			if patch.SetTechnician && !sameRef(current.TechnicianID, patch.TechnicianID) {
				changes = append(changes, FieldChange{Field: field, OldUser: current.TechnicianID, NewUser: patch.TechnicianID})
			}
		}
	}
	return changes
}

func sameRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
