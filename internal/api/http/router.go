package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Admin          *handlers.AdminHandler
	Inventory      *handlers.InventoryHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/stats", cfg.Health.Stats)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/verify/request", cfg.Auth.RequestVerification)
	authGroup.Post("/verify/confirm", cfg.Auth.ConfirmVerification)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuth())
	authProtected.Get("/me", cfg.Auth.Me)
	authProtected.Post("/password/change", cfg.Auth.ChangePassword)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireAuth())
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)

	// Statuses carry the terminal flag, so they get dedicated handlers;
	// register them before the generic :kind routes.
	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Get("/statuses", cfg.Admin.ListStatuses)
	admin.Post("/statuses", cfg.Admin.CreateStatus)
	admin.Put("/statuses/:id", cfg.Admin.UpdateStatus)
	admin.Get("/:kind", cfg.Admin.ListReferences)
	admin.Post("/:kind", cfg.Admin.CreateReference)
	admin.Put("/:kind/:id", cfg.Admin.RenameReference)
	admin.Delete("/:kind/:id", cfg.Admin.DeleteReference)

	inventory := app.Group("/inventory", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin, domain.RoleTechnician))
	inventory.Get("/equipment", cfg.Inventory.ListEquipment)
	inventory.Post("/equipment", cfg.Inventory.CreateEquipment)
	inventory.Get("/equipment/:id", cfg.Inventory.GetEquipment)
	inventory.Put("/equipment/:id", cfg.Inventory.UpdateEquipment)
	inventory.Get("/tools", cfg.Inventory.ListTools)
	inventory.Post("/tools", cfg.Inventory.CreateTool)
	inventory.Get("/tools/:id", cfg.Inventory.GetTool)
	inventory.Put("/tools/:id", cfg.Inventory.UpdateTool)
	inventory.Get("/consumables", cfg.Inventory.ListConsumables)
	inventory.Post("/consumables", cfg.Inventory.CreateConsumable)
	inventory.Get("/consumables/:id", cfg.Inventory.GetConsumable)
	inventory.Put("/consumables/:id", cfg.Inventory.UpdateConsumable)
}
