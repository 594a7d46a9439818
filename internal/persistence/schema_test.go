package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func columnSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

func TestResolveTicketColumnsModernSchema(t *testing.T) {
	present := columnSet("id", "token", "title", "description", "incident_area",
		"category_id", "priority_id", "status_id", "creator_user_id",
		"technician_user_id", "image_key", "created_at", "closed_at")

	cols, legacy := ResolveTicketColumns(present)
	require.False(t, legacy)
	require.Equal(t, ModernTicketColumns(), cols)
}

func TestResolveTicketColumnsLegacySchema(t *testing.T) {
	present := columnSet("id", "token", "title", "description", "area_incidencia",
		"categoria_id", "prioridad_id", "estado_id", "creador_id",
		"tecnico_asignado_id", "imagen", "created_at", "fecha_cierre")

	cols, legacy := ResolveTicketColumns(present)
	require.True(t, legacy)
	require.Equal(t, "estado_id", cols.Status)
	require.Equal(t, "tecnico_asignado_id", cols.Technician)
	require.Equal(t, "area_incidencia", cols.IncidentArea)
	require.Equal(t, "fecha_cierre", cols.ClosedAt)
}

func TestResolveTicketColumnsPartiallyRenamed(t *testing.T) {
	// estado_id survived a half-finished rename, everything else is modern.
	present := columnSet("id", "estado_id", "category_id", "priority_id",
		"incident_area", "creator_user_id", "technician_user_id",
		"image_key", "closed_at")

	cols, legacy := ResolveTicketColumns(present)
	require.True(t, legacy)
	require.Equal(t, "estado_id", cols.Status)
	require.Equal(t, "category_id", cols.Category)
	require.Equal(t, "technician_user_id", cols.Technician)
}

func TestResolveTicketColumnsEmptyProbeDefaultsModern(t *testing.T) {
	cols, legacy := ResolveTicketColumns(nil)
	require.False(t, legacy)
	require.Equal(t, ModernTicketColumns(), cols)
}
