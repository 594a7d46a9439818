package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func TestUpdateTicketRequestTechnicianPresence(t *testing.T) {
	t.Run("absent key leaves technician untouched", func(t *testing.T) {
		var req UpdateTicketRequest
		require.NoError(t, json.Unmarshal([]byte(`{"title":"x"}`), &req))

		patch := req.ToPatch()
		require.False(t, patch.SetTechnician)
		require.Equal(t, "x", *patch.Title)
	})

	t.Run("explicit null unassigns", func(t *testing.T) {
		var req UpdateTicketRequest
		require.NoError(t, json.Unmarshal([]byte(`{"technician_id":null}`), &req))

		patch := req.ToPatch()
		require.True(t, patch.SetTechnician)
		require.Nil(t, patch.TechnicianID)
	})

	t.Run("value assigns", func(t *testing.T) {
		var req UpdateTicketRequest
		require.NoError(t, json.Unmarshal([]byte(`{"technician_id":"u9"}`), &req))

		patch := req.ToPatch()
		require.True(t, patch.SetTechnician)
		require.Equal(t, "u9", *patch.TechnicianID)
	})
}

func TestNewTicketResponseUnassignedTechnician(t *testing.T) {
	view := &domain.TicketView{Ticket: domain.Ticket{ID: "t1"}}
	resp := NewTicketResponse(view)
	require.Equal(t, "Unassigned", resp.TechnicianName)
	require.Nil(t, resp.TechnicianID)

	name := "Sam"
	id := "tech"
	view.TechnicianID = &id
	view.TechnicianName = &name
	resp = NewTicketResponse(view)
	require.Equal(t, "Sam", resp.TechnicianName)
	require.Equal(t, "tech", *resp.TechnicianID)
}
