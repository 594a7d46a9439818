package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// InventoryHandler manages asset endpoints.
type InventoryHandler struct {
	service *service.InventoryService
}

// NewInventoryHandler constructs handler.
func NewInventoryHandler(inventoryService *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: inventoryService}
}

// ListEquipment GET /inventory/equipment.
func (h *InventoryHandler) ListEquipment(c *fiber.Ctx) error {
	limit, offset := parsePage(c)
	items, err := h.service.ListEquipment(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEquipmentResponses(items)})
}

// GetEquipment GET /inventory/equipment/:id.
func (h *InventoryHandler) GetEquipment(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	item, err := h.service.GetEquipment(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEquipmentResponse(item)})
}

// CreateEquipment POST /inventory/equipment.
func (h *InventoryHandler) CreateEquipment(c *fiber.Ctx) error {
	var req dto.EquipmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	item, err := h.service.CreateEquipment(c.UserContext(), equipmentInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewEquipmentResponse(item)})
}

// UpdateEquipment PUT /inventory/equipment/:id.
func (h *InventoryHandler) UpdateEquipment(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	var req dto.EquipmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	item, err := h.service.UpdateEquipment(c.UserContext(), id, equipmentInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEquipmentResponse(item)})
}

// ListTools GET /inventory/tools.
func (h *InventoryHandler) ListTools(c *fiber.Ctx) error {
	limit, offset := parsePage(c)
	items, err := h.service.ListTools(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewToolResponses(items)})
}

// GetTool GET /inventory/tools/:id.
func (h *InventoryHandler) GetTool(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	item, err := h.service.GetTool(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewToolResponse(item)})
}

// CreateTool POST /inventory/tools.
func (h *InventoryHandler) CreateTool(c *fiber.Ctx) error {
	var req dto.ToolRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	item, err := h.service.CreateTool(c.UserContext(), toolInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewToolResponse(item)})
}

// UpdateTool PUT /inventory/tools/:id.
func (h *InventoryHandler) UpdateTool(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	var req dto.ToolRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	item, err := h.service.UpdateTool(c.UserContext(), id, toolInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewToolResponse(item)})
}

// ListConsumables GET /inventory/consumables.
func (h *InventoryHandler) ListConsumables(c *fiber.Ctx) error {
	limit, offset := parsePage(c)
	items, err := h.service.ListConsumables(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewConsumableResponses(items)})
}

// GetConsumable GET /inventory/consumables/:id.
func (h *InventoryHandler) GetConsumable(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	item, err := h.service.GetConsumable(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewConsumableResponse(item)})
}

// CreateConsumable POST /inventory/consumables.
func (h *InventoryHandler) CreateConsumable(c *fiber.Ctx) error {
	var req dto.ConsumableRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	item, err := h.service.CreateConsumable(c.UserContext(), consumableInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewConsumableResponse(item)})
}

// UpdateConsumable PUT /inventory/consumables/:id.
func (h *InventoryHandler) UpdateConsumable(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	var req dto.ConsumableRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	item, err := h.service.UpdateConsumable(c.UserContext(), id, consumableInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewConsumableResponse(item)})
}

func parsePage(c *fiber.Ctx) (limit, offset int) {
	page := parseIntQuery(c.Query("page"), 1)
	pageSize := parseIntQuery(c.Query("page_size"), 50)
	return pageSize, (page - 1) * pageSize
}

func equipmentInput(req dto.EquipmentRequest) service.EquipmentInput {
	return service.EquipmentInput{
		TypeID:         req.TypeID,
		SerialNumber:   req.SerialNumber,
		AssignedUserID: req.AssignedUserID,
		State:          domain.AssetState(req.State),
		Notes:          req.Notes,
	}
}

func toolInput(req dto.ToolRequest) service.ToolInput {
	return service.ToolInput{
		TypeID:   req.TypeID,
		Location: req.Location,
		State:    domain.AssetState(req.State),
		Notes:    req.Notes,
	}
}

func consumableInput(req dto.ConsumableRequest) service.ConsumableInput {
	return service.ConsumableInput{
		TypeID:       req.TypeID,
		Quantity:     req.Quantity,
		MinimumStock: req.MinimumStock,
		Notes:        req.Notes,
	}
}
