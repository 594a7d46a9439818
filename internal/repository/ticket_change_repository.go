package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TicketChangeRepository stores append-only audit entries.
type TicketChangeRepository interface {
	Create(ctx context.Context, change *domain.TicketChange) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketChange, error)
}

type ticketChangeRepository struct {
	pool *pgxpool.Pool
}

// NewTicketChangeRepository builds repository.
func NewTicketChangeRepository(pool *pgxpool.Pool) TicketChangeRepository {
	return &ticketChangeRepository{pool: pool}
}

func (r *ticketChangeRepository) Create(ctx context.Context, change *domain.TicketChange) error {
	// created_at defaults to NOW() unless the caller supplied one.
	if change.CreatedAt.IsZero() {
		const query = `
            INSERT INTO ticket_changes (ticket_id, actor_id, kind, field, old_value, new_value, description)
            VALUES ($1,$2,$3,$4,$5,$6,$7)
            RETURNING id, created_at`
		return r.pool.QueryRow(ctx, query,
			change.TicketID,
			change.ActorID,
			change.Kind,
			change.Field,
			change.OldValue,
			change.NewValue,
			change.Description,
		).Scan(&change.ID, &change.CreatedAt)
	}

	const query = `
        INSERT INTO ticket_changes (ticket_id, actor_id, kind, field, old_value, new_value, description, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		change.TicketID,
		change.ActorID,
		change.Kind,
		change.Field,
		change.OldValue,
		change.NewValue,
		change.Description,
		change.CreatedAt,
	).Scan(&change.ID)
}

func (r *ticketChangeRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketChange, error) {
	const query = `
        SELECT id, ticket_id, actor_id, kind, field, old_value, new_value, description, created_at
        FROM ticket_changes WHERE ticket_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketChange
	for rows.Next() {
		var change domain.TicketChange
		if err := rows.Scan(
			&change.ID,
			&change.TicketID,
			&change.ActorID,
			&change.Kind,
			&change.Field,
			&change.OldValue,
			&change.NewValue,
			&change.Description,
			&change.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, change)
	}
	return result, rows.Err()
}
