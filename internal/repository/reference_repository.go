package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// ReferenceRepository manages the admin-owned lookup tables. Statuses
// carry a terminal flag and get their own methods; every other lookup
// table shares the id/name shape.
type ReferenceRepository interface {
	Create(ctx context.Context, kind domain.ReferenceKind, name string) (*domain.ReferenceEntry, error)
	Rename(ctx context.Context, kind domain.ReferenceKind, id int64, name string) error
	Delete(ctx context.Context, kind domain.ReferenceKind, id int64) error
	GetByID(ctx context.Context, kind domain.ReferenceKind, id int64) (*domain.ReferenceEntry, error)
	List(ctx context.Context, kind domain.ReferenceKind) ([]domain.ReferenceEntry, error)

	CreateStatus(ctx context.Context, status *domain.Status) error
	UpdateStatus(ctx context.Context, status *domain.Status) error
	GetStatus(ctx context.Context, id int64) (*domain.Status, error)
	ListStatuses(ctx context.Context) ([]domain.Status, error)
	TerminalStatusID(ctx context.Context) (int64, error)
}

var referenceTables = map[domain.ReferenceKind]string{
	domain.KindCategory:       "categories",
	domain.KindPriority:       "priorities",
	domain.KindIncidentArea:   "incident_areas",
	domain.KindEquipmentType:  "equipment_types",
	domain.KindToolType:       "tool_types",
	domain.KindConsumableType: "consumable_types",
}

// ErrUnknownReferenceKind rejects lookups against tables this
// repository does not own.
var ErrUnknownReferenceKind = fmt.Errorf("unknown reference kind")

type referenceRepository struct {
	pool *pgxpool.Pool
}

// NewReferenceRepository builds the repository.
func NewReferenceRepository(pool *pgxpool.Pool) ReferenceRepository {
	return &referenceRepository{pool: pool}
}

func tableFor(kind domain.ReferenceKind) (string, error) {
	table, ok := referenceTables[kind]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownReferenceKind, kind)
	}
	return table, nil
}

func (r *referenceRepository) Create(ctx context.Context, kind domain.ReferenceKind, name string) (*domain.ReferenceEntry, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
        INSERT INTO %s (name) VALUES ($1)
        RETURNING id, created_at, updated_at`, table)

	entry := &domain.ReferenceEntry{Name: name}
	if err := r.pool.QueryRow(ctx, query, name).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *referenceRepository) Rename(ctx context.Context, kind domain.ReferenceKind, id int64, name string) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET name=$1, updated_at=NOW() WHERE id=$2`, table)
	cmd, err := r.pool.Exec(ctx, query, name, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *referenceRepository) Delete(ctx context.Context, kind domain.ReferenceKind, id int64) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id=$1`, table)
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *referenceRepository) GetByID(ctx context.Context, kind domain.ReferenceKind, id int64) (*domain.ReferenceEntry, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT id, name, created_at, updated_at FROM %s WHERE id=$1`, table)

	var entry domain.ReferenceEntry
	if err := r.pool.QueryRow(ctx, query, id).Scan(&entry.ID, &entry.Name, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *referenceRepository) List(ctx context.Context, kind domain.ReferenceKind) ([]domain.ReferenceEntry, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT id, name, created_at, updated_at FROM %s ORDER BY name ASC`, table)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ReferenceEntry
	for rows.Next() {
		var entry domain.ReferenceEntry
		if err := rows.Scan(&entry.ID, &entry.Name, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (r *referenceRepository) CreateStatus(ctx context.Context, status *domain.Status) error {
	const query = `
        INSERT INTO statuses (name, terminal) VALUES ($1,$2)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, status.Name, status.Terminal).
		Scan(&status.ID, &status.CreatedAt, &status.UpdatedAt)
}

func (r *referenceRepository) UpdateStatus(ctx context.Context, status *domain.Status) error {
	const query = `
        UPDATE statuses SET name=$1, terminal=$2, updated_at=NOW() WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, status.Name, status.Terminal, status.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *referenceRepository) GetStatus(ctx context.Context, id int64) (*domain.Status, error) {
	const query = `SELECT id, name, terminal, created_at, updated_at FROM statuses WHERE id=$1`
	var status domain.Status
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&status.ID, &status.Name, &status.Terminal, &status.CreatedAt, &status.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *referenceRepository) ListStatuses(ctx context.Context) ([]domain.Status, error) {
	const query = `SELECT id, name, terminal, created_at, updated_at FROM statuses ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Status
	for rows.Next() {
		var status domain.Status
		if err := rows.Scan(&status.ID, &status.Name, &status.Terminal, &status.CreatedAt, &status.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, status)
	}
	return result, rows.Err()
}

func (r *referenceRepository) TerminalStatusID(ctx context.Context) (int64, error) {
	const query = `SELECT id FROM statuses WHERE terminal = TRUE ORDER BY id ASC LIMIT 1`
	var id int64
	if err := r.pool.QueryRow(ctx, query).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
