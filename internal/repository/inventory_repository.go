package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// InventoryRepository persists equipment, tools and consumables.
type InventoryRepository interface {
	CreateEquipment(ctx context.Context, eq *domain.Equipment) error
	UpdateEquipment(ctx context.Context, eq *domain.Equipment) error
	GetEquipment(ctx context.Context, id int64) (*domain.Equipment, error)
	ListEquipment(ctx context.Context, limit, offset int) ([]domain.Equipment, error)

	CreateTool(ctx context.Context, tool *domain.Tool) error
	UpdateTool(ctx context.Context, tool *domain.Tool) error
	GetTool(ctx context.Context, id int64) (*domain.Tool, error)
	ListTools(ctx context.Context, limit, offset int) ([]domain.Tool, error)

	CreateConsumable(ctx context.Context, item *domain.Consumable) error
	UpdateConsumable(ctx context.Context, item *domain.Consumable) error
	GetConsumable(ctx context.Context, id int64) (*domain.Consumable, error)
	ListConsumables(ctx context.Context, limit, offset int) ([]domain.Consumable, error)
}

type inventoryRepository struct {
	pool *pgxpool.Pool
}

// NewInventoryRepository builds the repository.
func NewInventoryRepository(pool *pgxpool.Pool) InventoryRepository {
	return &inventoryRepository{pool: pool}
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (r *inventoryRepository) CreateEquipment(ctx context.Context, eq *domain.Equipment) error {
	const query = `
        INSERT INTO equipment (type_id, serial_number, assigned_user_id, state, notes)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		eq.TypeID,
		eq.SerialNumber,
		eq.AssignedUserID,
		eq.State,
		eq.Notes,
	).Scan(&eq.ID, &eq.CreatedAt, &eq.UpdatedAt)
}

func (r *inventoryRepository) UpdateEquipment(ctx context.Context, eq *domain.Equipment) error {
	const query = `
        UPDATE equipment SET type_id=$1, serial_number=$2, assigned_user_id=$3,
            state=$4, notes=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		eq.TypeID,
		eq.SerialNumber,
		eq.AssignedUserID,
		eq.State,
		eq.Notes,
		eq.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *inventoryRepository) GetEquipment(ctx context.Context, id int64) (*domain.Equipment, error) {
	const query = `
        SELECT id, type_id, serial_number, assigned_user_id, state, notes, created_at, updated_at
        FROM equipment WHERE id=$1`
	var eq domain.Equipment
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&eq.ID, &eq.TypeID, &eq.SerialNumber, &eq.AssignedUserID,
		&eq.State, &eq.Notes, &eq.CreatedAt, &eq.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &eq, nil
}

func (r *inventoryRepository) ListEquipment(ctx context.Context, limit, offset int) ([]domain.Equipment, error) {
	limit, offset = clampPage(limit, offset)
	const query = `
        SELECT id, type_id, serial_number, assigned_user_id, state, notes, created_at, updated_at
        FROM equipment ORDER BY id ASC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Equipment
	for rows.Next() {
		var eq domain.Equipment
		if err := rows.Scan(
			&eq.ID, &eq.TypeID, &eq.SerialNumber, &eq.AssignedUserID,
			&eq.State, &eq.Notes, &eq.CreatedAt, &eq.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, eq)
	}
	return result, rows.Err()
}

func (r *inventoryRepository) CreateTool(ctx context.Context, tool *domain.Tool) error {
	const query = `
        INSERT INTO tools (type_id, location, state, notes)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		tool.TypeID,
		tool.Location,
		tool.State,
		tool.Notes,
	).Scan(&tool.ID, &tool.CreatedAt, &tool.UpdatedAt)
}

func (r *inventoryRepository) UpdateTool(ctx context.Context, tool *domain.Tool) error {
	const query = `
        UPDATE tools SET type_id=$1, location=$2, state=$3, notes=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		tool.TypeID,
		tool.Location,
		tool.State,
		tool.Notes,
		tool.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *inventoryRepository) GetTool(ctx context.Context, id int64) (*domain.Tool, error) {
	const query = `
        SELECT id, type_id, location, state, notes, created_at, updated_at
        FROM tools WHERE id=$1`
	var tool domain.Tool
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&tool.ID, &tool.TypeID, &tool.Location, &tool.State,
		&tool.Notes, &tool.CreatedAt, &tool.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &tool, nil
}

func (r *inventoryRepository) ListTools(ctx context.Context, limit, offset int) ([]domain.Tool, error) {
	limit, offset = clampPage(limit, offset)
	const query = `
        SELECT id, type_id, location, state, notes, created_at, updated_at
        FROM tools ORDER BY id ASC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Tool
	for rows.Next() {
		var tool domain.Tool
		if err := rows.Scan(
			&tool.ID, &tool.TypeID, &tool.Location, &tool.State,
			&tool.Notes, &tool.CreatedAt, &tool.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, tool)
	}
	return result, rows.Err()
}

func (r *inventoryRepository) CreateConsumable(ctx context.Context, item *domain.Consumable) error {
	const query = `
        INSERT INTO consumables (type_id, quantity, minimum_stock, notes)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		item.TypeID,
		item.Quantity,
		item.MinimumStock,
		item.Notes,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

func (r *inventoryRepository) UpdateConsumable(ctx context.Context, item *domain.Consumable) error {
	const query = `
        UPDATE consumables SET type_id=$1, quantity=$2, minimum_stock=$3, notes=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		item.TypeID,
		item.Quantity,
		item.MinimumStock,
		item.Notes,
		item.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *inventoryRepository) GetConsumable(ctx context.Context, id int64) (*domain.Consumable, error) {
	const query = `
        SELECT id, type_id, quantity, minimum_stock, notes, created_at, updated_at
        FROM consumables WHERE id=$1`
	var item domain.Consumable
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.TypeID, &item.Quantity, &item.MinimumStock,
		&item.Notes, &item.CreatedAt, &item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) ListConsumables(ctx context.Context, limit, offset int) ([]domain.Consumable, error) {
	limit, offset = clampPage(limit, offset)
	const query = `
        SELECT id, type_id, quantity, minimum_stock, notes, created_at, updated_at
        FROM consumables ORDER BY id ASC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Consumable
	for rows.Next() {
		var item domain.Consumable
		if err := rows.Scan(
			&item.ID, &item.TypeID, &item.Quantity, &item.MinimumStock,
			&item.Notes, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
