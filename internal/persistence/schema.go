package persistence

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// TicketColumns holds the resolved column names for the tickets table.
// Databases migrated from the legacy system still carry Spanish column
// names; the probe decides once at startup which set is present, so no
// query ever needs a runtime unknown-column fallback.
type TicketColumns struct {
	Category     string
	Priority     string
	Status       string
	IncidentArea string
	Creator      string
	Technician   string
	ImageKey     string
	ClosedAt     string
}

// ModernTicketColumns is the column set created by this repo's migrations.
func ModernTicketColumns() TicketColumns {
	return TicketColumns{
		Category:     "category_id",
		Priority:     "priority_id",
		Status:       "status_id",
		IncidentArea: "incident_area",
		Creator:      "creator_user_id",
		Technician:   "technician_user_id",
		ImageKey:     "image_key",
		ClosedAt:     "closed_at",
	}
}

func legacyTicketColumns() TicketColumns {
	return TicketColumns{
		Category:     "categoria_id",
		Priority:     "prioridad_id",
		Status:       "estado_id",
		IncidentArea: "area_incidencia",
		Creator:      "creador_id",
		Technician:   "tecnico_asignado_id",
		ImageKey:     "imagen",
		ClosedAt:     "fecha_cierre",
	}
}

// ProbeTicketSchema inspects the tickets table once and returns the
// column set to build queries from.
func ProbeTicketSchema(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) (TicketColumns, error) {
	if pool == nil {
		return ModernTicketColumns(), nil
	}

	const query = `
        SELECT column_name FROM information_schema.columns
        WHERE table_name = 'tickets'`
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return TicketColumns{}, err
	}
	defer rows.Close()

	present := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return TicketColumns{}, err
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		return TicketColumns{}, err
	}

	cols, legacy := ResolveTicketColumns(present)
	if legacy {
		logger.Info("legacy ticket schema detected; using spanish column names")
	}
	return cols, nil
}

// ResolveTicketColumns picks between the modern and legacy column sets
// based on which columns exist. The status column is the discriminator;
// any missing column falls back to its modern name so partially renamed
// schemas keep working.
func ResolveTicketColumns(present map[string]bool) (TicketColumns, bool) {
	modern := ModernTicketColumns()
	if len(present) == 0 || present[modern.Status] {
		return modern, false
	}

	legacy := legacyTicketColumns()
	if !present[legacy.Status] {
		return modern, false
	}

	cols := legacy
	if !present[legacy.Category] {
		cols.Category = modern.Category
	}
	if !present[legacy.Priority] {
		cols.Priority = modern.Priority
	}
	if !present[legacy.IncidentArea] {
		cols.IncidentArea = modern.IncidentArea
	}
	if !present[legacy.Creator] {
		cols.Creator = modern.Creator
	}
	if !present[legacy.Technician] {
		cols.Technician = modern.Technician
	}
	if !present[legacy.ImageKey] {
		cols.ImageKey = modern.ImageKey
	}
	if !present[legacy.ClosedAt] {
		cols.ClosedAt = modern.ClosedAt
	}
	return cols, true
}
