package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// AdminHandler manages the reference lookup tables.
type AdminHandler struct {
	service *service.ReferenceService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(referenceService *service.ReferenceService) *AdminHandler {
	return &AdminHandler{service: referenceService}
}

// kindParam maps the URL segment to a reference kind; the API uses
// hyphens ("incident-areas") where the tables use underscores.
func kindParam(c *fiber.Ctx) domain.ReferenceKind {
	return domain.ReferenceKind(strings.ReplaceAll(c.Params("kind"), "-", "_"))
}

// ListReferences GET /admin/:kind.
func (h *AdminHandler) ListReferences(c *fiber.Ctx) error {
	entries, err := h.service.List(c.UserContext(), kindParam(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReferenceResponses(entries)})
}

// CreateReference POST /admin/:kind.
func (h *AdminHandler) CreateReference(c *fiber.Ctx) error {
	var req dto.ReferenceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	entry, err := h.service.Create(c.UserContext(), kindParam(c), req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewReferenceResponse(entry)})
}

// RenameReference PUT /admin/:kind/:id.
func (h *AdminHandler) RenameReference(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	var req dto.ReferenceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	entry, err := h.service.Rename(c.UserContext(), kindParam(c), id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReferenceResponse(entry)})
}

// DeleteReference DELETE /admin/:kind/:id.
func (h *AdminHandler) DeleteReference(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), kindParam(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListStatuses GET /admin/statuses.
func (h *AdminHandler) ListStatuses(c *fiber.Ctx) error {
	statuses, err := h.service.ListStatuses(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStatusResponses(statuses)})
}

// CreateStatus POST /admin/statuses.
func (h *AdminHandler) CreateStatus(c *fiber.Ctx) error {
	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	status, err := h.service.CreateStatus(c.UserContext(), req.Name, req.Terminal)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewStatusResponse(status)})
}

// UpdateStatus PUT /admin/statuses/:id.
func (h *AdminHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	status, err := h.service.UpdateStatus(c.UserContext(), id, req.Name, req.Terminal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStatusResponse(status)})
}

func parseIDParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", map[string]any{"id": c.Params("id")})
	}
	return id, nil
}
