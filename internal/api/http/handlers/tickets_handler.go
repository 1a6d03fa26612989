package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// TicketsHandler manages ticket lifecycle endpoints for both tenants and
// staff.
type TicketsHandler struct {
	tickets *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService}
}

// CreateTicket POST /tenant/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Tenant == nil {
		return apperrors.NewUnauthorized("tenant required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.Create(c.Context(), service.TicketCreateInput{
		TenantID:    principal.Tenant.ID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		ProductID:   req.ProductID,
		ImagePath:   req.ImagePath,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// ListTenantTickets GET /tenant/tickets.
func (h *TicketsHandler) ListTenantTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Tenant == nil {
		return apperrors.NewUnauthorized("tenant required")
	}
	filter := parseTicketQuery(c)
	filter.TenantID = &principal.Tenant.ID
	tickets, err := h.tickets.List(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummaries(tickets)})
}

// ListStaffTickets GET /staff/tickets.
func (h *TicketsHandler) ListStaffTickets(c *fiber.Ctx) error {
	filter := parseTicketQuery(c)
	if c.Query("unassigned") == "true" {
		filter.Unassigned = true
	}
	if assignee := c.Query("assignee_id"); assignee != "" {
		filter.AssigneeID = &assignee
	}
	tickets, err := h.tickets.List(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummaries(tickets)})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.authorizeTicket(c)
	if err != nil {
		return err
	}
	comments, err := h.tickets.GetComments(c.Context(), ticket.ID)
	if err != nil {
		return err
	}
	history, err := h.tickets.GetHistory(c.Context(), ticket.ID, domain.AuditOrderDesc)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket, comments, history)})
}

// GetTicketByCode GET /staff/tickets/code/:code.
func (h *TicketsHandler) GetTicketByCode(c *fiber.Ctx) error {
	ticket, err := h.tickets.GetByCode(c.Context(), c.Params("code"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// ChangeStatus PUT /staff/tickets/:id/status.
func (h *TicketsHandler) ChangeStatus(c *fiber.Ctx) error {
	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.ChangeStatus(c.Context(), c.Params("id"), req.Status, actorName(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// ChangePriority PUT /staff/tickets/:id/priority.
func (h *TicketsHandler) ChangePriority(c *fiber.Ctx) error {
	var req dto.ChangePriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.ChangePriority(c.Context(), c.Params("id"), req.Priority, actorName(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// Resolve POST /staff/tickets/:id/resolve.
func (h *TicketsHandler) Resolve(c *fiber.Ctx) error {
	var req dto.ResolveTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.Resolve(c.Context(), c.Params("id"), req.Solution, actorName(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if _, err := h.authorizeTicket(c); err != nil {
		return err
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	author := "unknown"
	fromStaff := false
	channel := domain.ChannelCustomer
	switch {
	case principal.Staff != nil:
		author = principal.Staff.Name
		fromStaff = true
		channel = domain.ChannelStaff
		if principal.Staff.Role == domain.StaffRoleAdmin {
			channel = domain.ChannelAdmin
		}
	case principal.Tenant != nil:
		author = principal.Tenant.Name
	}

	comment, err := h.tickets.AddComment(c.Context(), c.Params("id"), req.Body, author, fromStaff, channel)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": commentResponse(comment)})
}

// GetComments GET /tickets/:id/comments.
func (h *TicketsHandler) GetComments(c *fiber.Ctx) error {
	if _, err := h.authorizeTicket(c); err != nil {
		return err
	}
	comments, err := h.tickets.GetComments(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, commentResponse(&comments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetHistory GET /tickets/:id/history.
func (h *TicketsHandler) GetHistory(c *fiber.Ctx) error {
	if _, err := h.authorizeTicket(c); err != nil {
		return err
	}
	order := domain.AuditOrderAsc
	if c.Query("order") == "desc" {
		order = domain.AuditOrderDesc
	}
	entries, err := h.tickets.GetHistory(c.Context(), c.Params("id"), order)
	if err != nil {
		return err
	}
	items := make([]dto.HistoryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.HistoryResponse{
			ID:          entry.ID,
			Actor:       entry.Actor,
			Description: entry.Description,
			CreatedAt:   entry.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// authorizeTicket loads the ticket and rejects tenants reaching across
// tenant boundaries. Staff see every ticket.
func (h *TicketsHandler) authorizeTicket(c *fiber.Ctx) (*domain.Ticket, error) {
	ticket, err := h.tickets.Get(c.Context(), c.Params("id"))
	if err != nil {
		return nil, err
	}
	if principal, ok := auth.PrincipalFromContext(c); ok && principal.Tenant != nil && principal.Tenant.ID != ticket.TenantID {
		return nil, apperrors.NewForbidden("access denied")
	}
	return ticket, nil
}

func actorName(c *fiber.Ctx) string {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return "System"
	}
	if principal.Staff != nil {
		return principal.Staff.Name
	}
	if principal.Tenant != nil {
		return principal.Tenant.Name
	}
	return "System"
}

func parseTicketQuery(c *fiber.Ctx) repository.TicketFilter {
	filter := repository.TicketFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			if code, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
				filter.Statuses = append(filter.Statuses, domain.StatusCode(code))
			}
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			if code, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
				filter.Priorities = append(filter.Priorities, domain.PriorityCode(code))
			}
		}
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:           ticket.ID,
		Code:         ticket.Code,
		TenantID:     ticket.TenantID,
		AssigneeID:   ticket.AssigneeID,
		AssigneeName: ticket.AssigneeName,
		Title:        ticket.Title,
		Status:       ticket.Status,
		Priority:     ticket.Priority,
		CreatedAt:    ticket.CreatedAt,
		UpdatedAt:    ticket.UpdatedAt,
	}
}

func ticketSummaries(tickets []domain.Ticket) []dto.TicketSummary {
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return items
}

func ticketDetail(ticket *domain.Ticket, comments []domain.Comment, history []domain.AuditEntry) dto.TicketDetailResponse {
	detail := dto.TicketDetailResponse{
		TicketSummary: ticketSummary(ticket),
		Description:   ticket.Description,
		ProductID:     ticket.ProductID,
		ImagePath:     ticket.ImagePath,
	}
	for i := range comments {
		detail.Comments = append(detail.Comments, commentResponse(&comments[i]))
	}
	for _, entry := range history {
		detail.History = append(detail.History, dto.HistoryResponse{
			ID:          entry.ID,
			Actor:       entry.Actor,
			Description: entry.Description,
			CreatedAt:   entry.CreatedAt,
		})
	}
	return detail
}

func commentResponse(comment *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:        comment.ID,
		Author:    comment.Author,
		FromStaff: comment.FromStaff,
		Channel:   comment.Channel,
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
	}
}
