package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EquipmentRequest payload.
type EquipmentRequest struct {
	TypeID         int64   `json:"type_id"`
	SerialNumber   string  `json:"serial_number"`
	AssignedUserID *string `json:"assigned_user_id"`
	State          string  `json:"state"`
	Notes          string  `json:"notes"`
}

// EquipmentResponse is one serialized asset.
type EquipmentResponse struct {
	ID             int64     `json:"id"`
	TypeID         int64     `json:"type_id"`
	SerialNumber   string    `json:"serial_number"`
	AssignedUserID *string   `json:"assigned_user_id"`
	State          string    `json:"state"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewEquipmentResponse maps an equipment row.
func NewEquipmentResponse(eq *domain.Equipment) EquipmentResponse {
	return EquipmentResponse{
		ID:             eq.ID,
		TypeID:         eq.TypeID,
		SerialNumber:   eq.SerialNumber,
		AssignedUserID: eq.AssignedUserID,
		State:          string(eq.State),
		Notes:          eq.Notes,
		CreatedAt:      eq.CreatedAt,
		UpdatedAt:      eq.UpdatedAt,
	}
}

// NewEquipmentResponses maps a slice.
func NewEquipmentResponses(items []domain.Equipment) []EquipmentResponse {
	out := make([]EquipmentResponse, 0, len(items))
	for i := range items {
		out = append(out, NewEquipmentResponse(&items[i]))
	}
	return out
}

// ToolRequest payload.
type ToolRequest struct {
	TypeID   int64  `json:"type_id"`
	Location string `json:"location"`
	State    string `json:"state"`
	Notes    string `json:"notes"`
}

// ToolResponse is one shared asset.
type ToolResponse struct {
	ID        int64     `json:"id"`
	TypeID    int64     `json:"type_id"`
	Location  string    `json:"location"`
	State     string    `json:"state"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewToolResponse maps a tool row.
func NewToolResponse(tool *domain.Tool) ToolResponse {
	return ToolResponse{
		ID:        tool.ID,
		TypeID:    tool.TypeID,
		Location:  tool.Location,
		State:     string(tool.State),
		Notes:     tool.Notes,
		CreatedAt: tool.CreatedAt,
		UpdatedAt: tool.UpdatedAt,
	}
}

// NewToolResponses maps a slice.
func NewToolResponses(items []domain.Tool) []ToolResponse {
	out := make([]ToolResponse, 0, len(items))
	for i := range items {
		out = append(out, NewToolResponse(&items[i]))
	}
	return out
}

// ConsumableRequest payload.
type ConsumableRequest struct {
	TypeID       int64  `json:"type_id"`
	Quantity     int    `json:"quantity"`
	MinimumStock int    `json:"minimum_stock"`
	Notes        string `json:"notes"`
}

// ConsumableResponse is one stock row.
type ConsumableResponse struct {
	ID           int64     `json:"id"`
	TypeID       int64     `json:"type_id"`
	Quantity     int       `json:"quantity"`
	MinimumStock int       `json:"minimum_stock"`
	BelowMinimum bool      `json:"below_minimum"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewConsumableResponse maps a consumable row.
func NewConsumableResponse(item *domain.Consumable) ConsumableResponse {
	return ConsumableResponse{
		ID:           item.ID,
		TypeID:       item.TypeID,
		Quantity:     item.Quantity,
		MinimumStock: item.MinimumStock,
		BelowMinimum: item.BelowMinimum(),
		Notes:        item.Notes,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

// NewConsumableResponses maps a slice.
func NewConsumableResponses(items []domain.Consumable) []ConsumableResponse {
	out := make([]ConsumableResponse, 0, len(items))
	for i := range items {
		out = append(out, NewConsumableResponse(&items[i]))
	}
	return out
}
