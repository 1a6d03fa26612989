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
	Assignments    *handlers.AssignmentsHandler
	Notifications  *handlers.NotificationsHandler
	Staff          *handlers.StaffHandler
	Streams        *handlers.StreamHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/tenants/register", cfg.Auth.RegisterTenant)
	authGroup.Post("/tenants/login", cfg.Auth.LoginTenant)
	authGroup.Post("/staff/login", cfg.Auth.LoginStaff)

	tenant := app.Group("/tenant", cfg.AuthMiddleware.Handle, auth.RequireTenant())
	tenant.Post("/tickets", cfg.Tickets.CreateTicket)
	tenant.Get("/tickets", cfg.Tickets.ListTenantTickets)

	shared := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	shared.Get("/:id", cfg.Tickets.GetTicket)
	shared.Get("/:id/comments", cfg.Tickets.GetComments)
	shared.Get("/:id/history", cfg.Tickets.GetHistory)
	shared.Post("/:id/comments", cfg.Tickets.AddComment)
	shared.Get("/:id/stream", cfg.Streams.TicketStream)

	staff := app.Group("/staff", cfg.AuthMiddleware.Handle, auth.RequireStaffRole())
	staff.Get("/tickets", cfg.Tickets.ListStaffTickets)
	staff.Get("/tickets/code/:code", cfg.Tickets.GetTicketByCode)
	staff.Put("/tickets/:id/status", cfg.Tickets.ChangeStatus)
	staff.Put("/tickets/:id/priority", cfg.Tickets.ChangePriority)
	staff.Post("/tickets/:id/resolve", cfg.Tickets.Resolve)
	staff.Post("/tickets/:id/claim", cfg.Assignments.Claim)
	staff.Post("/tickets/:id/release", cfg.Assignments.Release)
	staff.Get("/workloads", cfg.Assignments.Workloads)
	staff.Get("/dashboard/stats", cfg.Assignments.DashboardStats)
	staff.Get("/dashboard/stream", cfg.Streams.DashboardStream)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireStaffRole(domain.StaffRoleAdmin))
	admin.Post("/tickets/:id/assign", cfg.Assignments.Assign)
	admin.Post("/tickets/:id/assign-person", cfg.Assignments.AssignToPerson)
	admin.Post("/tickets/:id/auto-assign", cfg.Assignments.AutoAssign)
	admin.Post("/tickets/:id/unassign", cfg.Assignments.Unassign)
	admin.Post("/tickets/bulk-assign", cfg.Assignments.BulkAssign)
	admin.Post("/staff", cfg.Staff.Create)
	admin.Get("/staff", cfg.Staff.List)
	admin.Get("/staff/:id", cfg.Staff.Get)
	admin.Put("/staff/:id/capacity", cfg.Staff.SetCapacity)
	admin.Put("/staff/:id/active", cfg.Staff.SetActive)

	inbox := app.Group("/notifications", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	inbox.Get("/", cfg.Notifications.List)
	inbox.Get("/unread-count", cfg.Notifications.UnreadCount)
	inbox.Put("/:id/read", cfg.Notifications.MarkRead)
	inbox.Delete("/:id", cfg.Notifications.Delete)
}
