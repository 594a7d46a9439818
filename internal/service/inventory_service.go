package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// InventoryService manages IT assets: equipment, tools and consumables.
type InventoryService struct {
	inventory repository.InventoryRepository
	refs      repository.ReferenceRepository
	users     repository.UserRepository
	logger    *zap.Logger
}

// NewInventoryService constructs the service.
func NewInventoryService(inventory repository.InventoryRepository, refs repository.ReferenceRepository, users repository.UserRepository, logger *zap.Logger) *InventoryService {
	return &InventoryService{inventory: inventory, refs: refs, users: users, logger: logger}
}

// EquipmentInput carries equipment create/update payload.
type EquipmentInput struct {
	TypeID         int64
	SerialNumber   string
	AssignedUserID *string
	State          domain.AssetState
	Notes          string
}

// ToolInput carries tool create/update payload.
type ToolInput struct {
	TypeID   int64
	Location string
	State    domain.AssetState
	Notes    string
}

// ConsumableInput carries consumable create/update payload.
type ConsumableInput struct {
	TypeID       int64
	Quantity     int
	MinimumStock int
	Notes        string
}

var validAssetStates = map[domain.AssetState]bool{
	domain.AssetStateAvailable:   true,
	domain.AssetStateAssigned:    true,
	domain.AssetStateMaintenance: true,
	domain.AssetStateRetired:     true,
}

func (s *InventoryService) validateEquipment(ctx context.Context, input *EquipmentInput) error {
	input.SerialNumber = strings.TrimSpace(input.SerialNumber)
	if input.SerialNumber == "" {
		return apperrors.NewValidationError("serial number is required", nil)
	}
	if input.State == "" {
		input.State = domain.AssetStateAvailable
	}
	if !validAssetStates[input.State] {
		return apperrors.NewValidationError("unknown asset state", map[string]any{"state": string(input.State)})
	}
	if input.AssignedUserID != nil && input.State != domain.AssetStateAssigned {
		return apperrors.NewValidationError("assigned equipment must be in ASSIGNED state", nil)
	}
	if err := s.checkType(ctx, domain.KindEquipmentType, input.TypeID); err != nil {
		return err
	}
	if input.AssignedUserID != nil {
		if _, err := s.users.GetByID(ctx, *input.AssignedUserID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewValidationError("unknown assignee", map[string]any{"user_id": *input.AssignedUserID})
			}
			return apperrors.MapError(err)
		}
	}
	return nil
}

func (s *InventoryService) CreateEquipment(ctx context.Context, input EquipmentInput) (*domain.Equipment, error) {
	if err := s.validateEquipment(ctx, &input); err != nil {
		return nil, err
	}
	eq := &domain.Equipment{
		TypeID:         input.TypeID,
		SerialNumber:   input.SerialNumber,
		AssignedUserID: input.AssignedUserID,
		State:          input.State,
		Notes:          input.Notes,
	}
	if err := s.inventory.CreateEquipment(ctx, eq); err != nil {
		return nil, apperrors.NewPersistenceFailure("equipment insert", err)
	}
	return eq, nil
}

func (s *InventoryService) UpdateEquipment(ctx context.Context, id int64, input EquipmentInput) (*domain.Equipment, error) {
	if err := s.validateEquipment(ctx, &input); err != nil {
		return nil, err
	}
	eq := &domain.Equipment{
		ID:             id,
		TypeID:         input.TypeID,
		SerialNumber:   input.SerialNumber,
		AssignedUserID: input.AssignedUserID,
		State:          input.State,
		Notes:          input.Notes,
	}
	if err := s.inventory.UpdateEquipment(ctx, eq); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("equipment", map[string]any{"id": id})
		}
		return nil, apperrors.NewPersistenceFailure("equipment update", err)
	}
	return s.inventory.GetEquipment(ctx, id)
}

func (s *InventoryService) GetEquipment(ctx context.Context, id int64) (*domain.Equipment, error) {
	eq, err := s.inventory.GetEquipment(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("equipment", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return eq, nil
}

func (s *InventoryService) ListEquipment(ctx context.Context, limit, offset int) ([]domain.Equipment, error) {
	items, err := s.inventory.ListEquipment(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

func (s *InventoryService) CreateTool(ctx context.Context, input ToolInput) (*domain.Tool, error) {
	if err := s.validateTool(ctx, &input); err != nil {
		return nil, err
	}
	tool := &domain.Tool{
		TypeID:   input.TypeID,
		Location: input.Location,
		State:    input.State,
		Notes:    input.Notes,
	}
	if err := s.inventory.CreateTool(ctx, tool); err != nil {
		return nil, apperrors.NewPersistenceFailure("tool insert", err)
	}
	return tool, nil
}

func (s *InventoryService) UpdateTool(ctx context.Context, id int64, input ToolInput) (*domain.Tool, error) {
	if err := s.validateTool(ctx, &input); err != nil {
		return nil, err
	}
	tool := &domain.Tool{
		ID:       id,
		TypeID:   input.TypeID,
		Location: input.Location,
		State:    input.State,
		Notes:    input.Notes,
	}
	if err := s.inventory.UpdateTool(ctx, tool); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("tool", map[string]any{"id": id})
		}
		return nil, apperrors.NewPersistenceFailure("tool update", err)
	}
	return s.inventory.GetTool(ctx, id)
}

func (s *InventoryService) GetTool(ctx context.Context, id int64) (*domain.Tool, error) {
	tool, err := s.inventory.GetTool(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("tool", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return tool, nil
}

func (s *InventoryService) ListTools(ctx context.Context, limit, offset int) ([]domain.Tool, error) {
	items, err := s.inventory.ListTools(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

func (s *InventoryService) CreateConsumable(ctx context.Context, input ConsumableInput) (*domain.Consumable, error) {
	if err := s.validateConsumable(ctx, &input); err != nil {
		return nil, err
	}
	item := &domain.Consumable{
		TypeID:       input.TypeID,
		Quantity:     input.Quantity,
		MinimumStock: input.MinimumStock,
		Notes:        input.Notes,
	}
	if err := s.inventory.CreateConsumable(ctx, item); err != nil {
		return nil, apperrors.NewPersistenceFailure("consumable insert", err)
	}
	s.warnLowStock(item)
	return item, nil
}

func (s *InventoryService) UpdateConsumable(ctx context.Context, id int64, input ConsumableInput) (*domain.Consumable, error) {
	if err := s.validateConsumable(ctx, &input); err != nil {
		return nil, err
	}
	item := &domain.Consumable{
		ID:           id,
		TypeID:       input.TypeID,
		Quantity:     input.Quantity,
		MinimumStock: input.MinimumStock,
		Notes:        input.Notes,
	}
	if err := s.inventory.UpdateConsumable(ctx, item); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("consumable", map[string]any{"id": id})
		}
		return nil, apperrors.NewPersistenceFailure("consumable update", err)
	}
	s.warnLowStock(item)
	return s.inventory.GetConsumable(ctx, id)
}

func (s *InventoryService) GetConsumable(ctx context.Context, id int64) (*domain.Consumable, error) {
	item, err := s.inventory.GetConsumable(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("consumable", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return item, nil
}

func (s *InventoryService) ListConsumables(ctx context.Context, limit, offset int) ([]domain.Consumable, error) {
	items, err := s.inventory.ListConsumables(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

func (s *InventoryService) validateTool(ctx context.Context, input *ToolInput) error {
	input.Location = strings.TrimSpace(input.Location)
	if input.Location == "" {
		return apperrors.NewValidationError("location is required", nil)
	}
	if input.State == "" {
		input.State = domain.AssetStateAvailable
	}
	if !validAssetStates[input.State] {
		return apperrors.NewValidationError("unknown asset state", map[string]any{"state": string(input.State)})
	}
	return s.checkType(ctx, domain.KindToolType, input.TypeID)
}

func (s *InventoryService) validateConsumable(ctx context.Context, input *ConsumableInput) error {
	if input.Quantity < 0 || input.MinimumStock < 0 {
		return apperrors.NewValidationError("quantity and minimum stock must be non-negative", nil)
	}
	return s.checkType(ctx, domain.KindConsumableType, input.TypeID)
}

func (s *InventoryService) checkType(ctx context.Context, kind domain.ReferenceKind, id int64) error {
	if _, err := s.refs.GetByID(ctx, kind, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("unknown type", map[string]any{"kind": string(kind), "type_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *InventoryService) warnLowStock(item *domain.Consumable) {
	if item.BelowMinimum() {
		s.logger.Warn("consumable below minimum stock",
			zap.Int64("consumable_id", item.ID),
			zap.Int("quantity", item.Quantity),
			zap.Int("minimum_stock", item.MinimumStock))
	}
}
