package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func strPtr(s string) *string { return &s }
func i64Ptr(v int64) *int64   { return &v }

func baseTicket() *domain.Ticket {
	return &domain.Ticket{
		ID:           "t1",
		Title:        "Printer jam",
		Description:  "Tray 2 keeps jamming",
		IncidentArea: "Floor 3",
		CategoryID:   1,
		PriorityID:   2,
		StatusID:     1,
		CreatorID:    "u1",
	}
}

func TestDetectChangesEmptyPatch(t *testing.T) {
	changes := DetectChanges(baseTicket(), TicketPatch{})
	require.Empty(t, changes)
}

func TestDetectChangesSameValuesProduceNothing(t *testing.T) {
	ticket := baseTicket()
	patch := TicketPatch{
		Title:      strPtr("Printer jam"),
		CategoryID: i64Ptr(1),
		StatusID:   i64Ptr(1),
	}
	require.Empty(t, DetectChanges(ticket, patch))
}

func TestDetectChangesFixedOrder(t *testing.T) {
	ticket := baseTicket()
	tech := "u9"
	patch := TicketPatch{
		Title:         strPtr("Printer broken"),
		StatusID:      i64Ptr(2),
		CategoryID:    i64Ptr(3),
		SetTechnician: true,
		TechnicianID:  &tech,
	}

	changes := DetectChanges(ticket, patch)
	require.Len(t, changes, 4)
	require.Equal(t, FieldTitle, changes[0].Field)
	require.Equal(t, FieldCategory, changes[1].Field)
	require.Equal(t, FieldStatus, changes[2].Field)
	require.Equal(t, FieldTechnician, changes[3].Field)

	require.Equal(t, "Printer jam", changes[0].OldText)
	require.Equal(t, "Printer broken", changes[0].NewText)
	require.Equal(t, int64(1), changes[1].OldRef)
	require.Equal(t, int64(3), changes[1].NewRef)
	require.Nil(t, changes[3].OldUser)
	require.Equal(t, "u9", *changes[3].NewUser)
}

func TestDetectChangesTechnicianPresence(t *testing.T) {
	ticket := baseTicket()
	tech := "u9"
	ticket.TechnicianID = &tech

	// A nil TechnicianID without the presence flag proposes nothing.
	require.Empty(t, DetectChanges(ticket, TicketPatch{TechnicianID: nil}))

	// With the flag, nil means unassign.
	changes := DetectChanges(ticket, TicketPatch{SetTechnician: true})
	require.Len(t, changes, 1)
	require.Equal(t, FieldTechnician, changes[0].Field)
	require.Equal(t, "u9", *changes[0].OldUser)
	require.Nil(t, changes[0].NewUser)

	// Proposing the current technician again is a no-op.
	require.Empty(t, DetectChanges(ticket, TicketPatch{SetTechnician: true, TechnicianID: &tech}))
}

func TestTicketPatchTouchesTriage(t *testing.T) {
	require.False(t, TicketPatch{Title: strPtr("x")}.TouchesTriage())
	require.True(t, TicketPatch{StatusID: i64Ptr(2)}.TouchesTriage())
	require.True(t, TicketPatch{SetTechnician: true}.TouchesTriage())
}

func TestTicketPatchEmpty(t *testing.T) {
	require.True(t, TicketPatch{}.Empty())
	require.False(t, TicketPatch{SetTechnician: true}.Empty())
	require.False(t, TicketPatch{Description: strPtr("")}.Empty())
}
