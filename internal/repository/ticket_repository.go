package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
)

// TicketFilter captures ticket listing parameters.
type TicketFilter struct {
	CreatorID    *string
	TechnicianID *string
	StatusID     *int64
	PriorityID   *int64
	CategoryID   *int64
	SearchTerm   *string
	Limit        int
	Offset       int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByToken(ctx context.Context, token string) (*domain.Ticket, error)
	GetViewByID(ctx context.Context, id string) (*domain.TicketView, error)
	ListViews(ctx context.Context, filter TicketFilter) ([]domain.TicketView, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
	cols persistence.TicketColumns

	insertSQL string
	updateSQL string
	selectSQL string
	viewSQL   string
}

// NewTicketRepository builds a repository whose SQL uses the column
// names resolved by the startup schema probe.
func NewTicketRepository(pool *pgxpool.Pool, cols persistence.TicketColumns) TicketRepository {
	r := &ticketRepository{pool: pool, cols: cols}

	r.insertSQL = fmt.Sprintf(`
        INSERT INTO tickets (token, title, description, %s, %s, %s, %s, %s, %s, %s)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`,
		cols.IncidentArea, cols.Category, cols.Priority, cols.Status,
		cols.Creator, cols.Technician, cols.ImageKey)

	r.updateSQL = fmt.Sprintf(`
        UPDATE tickets SET title=$1, description=$2, %s=$3, %s=$4, %s=$5, %s=$6,
            %s=$7, %s=$8, %s=$9, updated_at=NOW()
        WHERE id=$10`,
		cols.IncidentArea, cols.Category, cols.Priority, cols.Status,
		cols.Technician, cols.ImageKey, cols.ClosedAt)

	r.selectSQL = fmt.Sprintf(`
        SELECT id, token, title, description, %s, %s, %s, %s, %s, %s, %s,
               created_at, updated_at, %s
        FROM tickets`,
		cols.IncidentArea, cols.Category, cols.Priority, cols.Status,
		cols.Creator, cols.Technician, cols.ImageKey, cols.ClosedAt)

	r.viewSQL = fmt.Sprintf(`
        SELECT t.id, t.token, t.title, t.description, t.%s, t.%s, t.%s, t.%s,
               t.%s, t.%s, t.%s, t.created_at, t.updated_at, t.%s,
               c.name, p.name, s.name, u.name, tech.name
        FROM tickets t
        JOIN categories c ON c.id = t.%s
        JOIN priorities p ON p.id = t.%s
        JOIN statuses s ON s.id = t.%s
        JOIN users u ON u.id = t.%s
        LEFT JOIN users tech ON tech.id = t.%s`,
		cols.IncidentArea, cols.Category, cols.Priority, cols.Status,
		cols.Creator, cols.Technician, cols.ImageKey, cols.ClosedAt,
		cols.Category, cols.Priority, cols.Status, cols.Creator, cols.Technician)

	return r
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	return r.pool.QueryRow(ctx, r.insertSQL,
		ticket.Token,
		ticket.Title,
		ticket.Description,
		ticket.IncidentArea,
		ticket.CategoryID,
		ticket.PriorityID,
		ticket.StatusID,
		ticket.CreatorID,
		ticket.TechnicianID,
		ticket.ImageKey,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	cmd, err := r.pool.Exec(ctx, r.updateSQL,
		ticket.Title,
		ticket.Description,
		ticket.IncidentArea,
		ticket.CategoryID,
		ticket.PriorityID,
		ticket.StatusID,
		ticket.TechnicianID,
		ticket.ImageKey,
		ticket.ClosedAt,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	return r.fetchSingle(ctx, r.selectSQL+" WHERE id=$1", id)
}

func (r *ticketRepository) GetByToken(ctx context.Context, token string) (*domain.Ticket, error) {
	return r.fetchSingle(ctx, r.selectSQL+" WHERE token=$1", token)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&ticket.ID,
		&ticket.Token,
		&ticket.Title,
		&ticket.Description,
		&ticket.IncidentArea,
		&ticket.CategoryID,
		&ticket.PriorityID,
		&ticket.StatusID,
		&ticket.CreatorID,
		&ticket.TechnicianID,
		&ticket.ImageKey,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ClosedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) GetViewByID(ctx context.Context, id string) (*domain.TicketView, error) {
	var view domain.TicketView
	if err := r.pool.QueryRow(ctx, r.viewSQL+" WHERE t.id=$1", id).Scan(
		&view.ID,
		&view.Token,
		&view.Title,
		&view.Description,
		&view.IncidentArea,
		&view.CategoryID,
		&view.PriorityID,
		&view.StatusID,
		&view.CreatorID,
		&view.TechnicianID,
		&view.ImageKey,
		&view.CreatedAt,
		&view.UpdatedAt,
		&view.ClosedAt,
		&view.CategoryName,
		&view.PriorityName,
		&view.StatusName,
		&view.CreatorName,
		&view.TechnicianName,
	); err != nil {
		return nil, err
	}
	return &view, nil
}

func (r *ticketRepository) ListViews(ctx context.Context, filter TicketFilter) ([]domain.TicketView, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CreatorID != nil {
		args = append(args, *filter.CreatorID)
		clauses = append(clauses, fmt.Sprintf("t.%s=$%d", r.cols.Creator, len(args)))
	}
	if filter.TechnicianID != nil {
		args = append(args, *filter.TechnicianID)
		clauses = append(clauses, fmt.Sprintf("t.%s=$%d", r.cols.Technician, len(args)))
	}
	if filter.StatusID != nil {
		args = append(args, *filter.StatusID)
		clauses = append(clauses, fmt.Sprintf("t.%s=$%d", r.cols.Status, len(args)))
	}
	if filter.PriorityID != nil {
		args = append(args, *filter.PriorityID)
		clauses = append(clauses, fmt.Sprintf("t.%s=$%d", r.cols.Priority, len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("t.%s=$%d", r.cols.Category, len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(t.title) LIKE %s OR LOWER(t.description) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY t.updated_at DESC LIMIT %d OFFSET %d",
		r.viewSQL, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketView
	for rows.Next() {
		var view domain.TicketView
		if err := rows.Scan(
			&view.ID,
			&view.Token,
			&view.Title,
			&view.Description,
			&view.IncidentArea,
			&view.CategoryID,
			&view.PriorityID,
			&view.StatusID,
			&view.CreatorID,
			&view.TechnicianID,
			&view.ImageKey,
			&view.CreatedAt,
			&view.UpdatedAt,
			&view.ClosedAt,
			&view.CategoryName,
			&view.PriorityName,
			&view.StatusName,
			&view.CreatorName,
			&view.TechnicianName,
		); err != nil {
			return nil, err
		}
		result = append(result, view)
	}
	return result, rows.Err()
}
