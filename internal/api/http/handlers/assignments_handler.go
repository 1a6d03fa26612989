package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// AssignmentsHandler exposes the workload-aware assignment engine.
type AssignmentsHandler struct {
	assignments   *service.AssignmentService
	notifications *service.NotificationService
}

// NewAssignmentsHandler constructs handler.
func NewAssignmentsHandler(assignments *service.AssignmentService, notifications *service.NotificationService) *AssignmentsHandler {
	return &AssignmentsHandler{assignments: assignments, notifications: notifications}
}

// Assign POST /staff/tickets/:id/assign (admin).
func (h *AssignmentsHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.StaffID == "" {
		return apperrors.NewValidationError("staff_id required", nil)
	}
	ticket, err := h.assignments.AssignToStaff(c.Context(), c.Params("id"), req.StaffID, req.Note, actorName(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// AssignToPerson POST /staff/tickets/:id/assign-person (admin).
func (h *AssignmentsHandler) AssignToPerson(c *fiber.Ctx) error {
	var req dto.AssignToPersonRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.PersonName == "" {
		return apperrors.NewValidationError("person_name required", nil)
	}
	ticket, err := h.assignments.AssignToPerson(c.Context(), c.Params("id"), req.PersonName, actorName(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// Claim POST /staff/tickets/:id/claim.
func (h *AssignmentsHandler) Claim(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	ticket, err := h.assignments.Claim(c.Context(), c.Params("id"), principal.Staff.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// Release POST /staff/tickets/:id/release.
func (h *AssignmentsHandler) Release(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	ticket, err := h.assignments.Release(c.Context(), c.Params("id"), principal.Staff.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// Unassign POST /staff/tickets/:id/unassign (admin).
func (h *AssignmentsHandler) Unassign(c *fiber.Ctx) error {
	ticket, err := h.assignments.Unassign(c.Context(), c.Params("id"), actorName(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// BulkAssign POST /staff/tickets/bulk-assign (admin).
func (h *AssignmentsHandler) BulkAssign(c *fiber.Ctx) error {
	var req dto.BulkAssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.StaffID == "" || len(req.TicketIDs) == 0 {
		return apperrors.NewValidationError("staff_id and ticket_ids required", nil)
	}
	assigned, err := h.assignments.BulkAssign(c.Context(), req.TicketIDs, req.StaffID, actorName(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.BulkAssignResponse{Assigned: assigned, Total: len(req.TicketIDs)}})
}

// AutoAssign POST /staff/tickets/:id/auto-assign (admin).
func (h *AssignmentsHandler) AutoAssign(c *fiber.Ctx) error {
	ticket, err := h.assignments.AutoAssign(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// Workloads GET /staff/workloads.
func (h *AssignmentsHandler) Workloads(c *fiber.Ctx) error {
	workloads, err := h.assignments.GetWorkloads(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": workloads})
}

// DashboardStats GET /staff/dashboard/stats.
func (h *AssignmentsHandler) DashboardStats(c *fiber.Ctx) error {
	stats, err := h.notifications.ComputeDashboardStats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}
