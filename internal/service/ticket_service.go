package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// TicketService owns the ticket lifecycle: creation, status and priority
// transitions, resolution, and the comment thread. Side effects run in a
// fixed order: persist the mutation, append the audit entry, then publish
// the event that drives notification fan-out. Fan-out failures never roll
// back the mutation.
type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.CommentRepository
	audit      repository.AuditRepository
	labels     *LabelService
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	CommentRepo repository.CommentRepository
	AuditRepo   repository.AuditRepository
	Labels      *LabelService
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	TenantID    string
	Title       string
	Description string
	Priority    domain.PriorityCode
	ProductID   *string
	ImagePath   *string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		audit:      deps.AuditRepo,
		labels:     deps.Labels,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Create opens a new ticket in the Open status.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}

	ticket := &domain.Ticket{
		Code:        generateTicketCode(),
		TenantID:    input.TenantID,
		ProductID:   input.ProductID,
		Title:       title,
		Description: description,
		Status:      domain.StatusOpen,
		Priority:    input.Priority,
		ImagePath:   input.ImagePath,
	}
	if ticket.Priority == 0 {
		ticket.Priority = domain.PriorityMedium
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		s.logger.Error("create ticket", zap.Error(err))
		return nil, apperrors.MapError(err)
	}
	if err := s.recordAction(ctx, ticket.ID, "System", fmt.Sprintf("Ticket %s created", ticket.Code)); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    "System",
		Payload: events.TicketCreatedPayload{
			TicketCode: ticket.Code,
			TenantID:   ticket.TenantID,
			Title:      ticket.Title,
			Priority:   ticket.Priority,
		},
	})
	return ticket, nil
}

// ChangeStatus moves the ticket to a new status code. Codes the engine does
// not enumerate pass through untouched; only the lookup table knows the
// full status set.
func (s *TicketService) ChangeStatus(ctx context.Context, ticketID string, newStatus domain.StatusCode, actor string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	ticket.Status = newStatus
	if err := s.tickets.Update(ctx, ticket); err != nil {
		s.logger.Error("change status", zap.String("ticket_id", ticketID), zap.Error(err))
		return nil, apperrors.MapError(err)
	}

	oldLabel := s.labels.Resolve(ctx, domain.LookupGroupTicketStatus, int(oldStatus))
	newLabel := s.labels.Resolve(ctx, domain.LookupGroupTicketStatus, int(newStatus))
	description := fmt.Sprintf("Status changed: %s → %s", oldLabel, newLabel)
	if err := s.recordAction(ctx, ticket.ID, actor, description); err != nil {
		return nil, apperrors.MapError(err)
	}

	if newStatus != oldStatus {
		s.publish(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			Actor:    actor,
			Payload: events.TicketStatusChangedPayload{
				TenantID:  ticket.TenantID,
				OldStatus: oldStatus,
				NewStatus: newStatus,
				OldLabel:  oldLabel,
				NewLabel:  newLabel,
			},
		})
	}
	return ticket, nil
}

// ChangePriority updates the ticket priority. Priority changes are
// staff-internal; the tenant is never notified.
func (s *TicketService) ChangePriority(ctx context.Context, ticketID string, newPriority domain.PriorityCode, actor string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	oldPriority := ticket.Priority
	ticket.Priority = newPriority
	if err := s.tickets.Update(ctx, ticket); err != nil {
		s.logger.Error("change priority", zap.String("ticket_id", ticketID), zap.Error(err))
		return nil, apperrors.MapError(err)
	}

	oldLabel := s.labels.Resolve(ctx, domain.LookupGroupTicketPriority, int(oldPriority))
	newLabel := s.labels.Resolve(ctx, domain.LookupGroupTicketPriority, int(newPriority))
	if err := s.recordAction(ctx, ticket.ID, actor, fmt.Sprintf("Priority changed: %s → %s", oldLabel, newLabel)); err != nil {
		return nil, apperrors.MapError(err)
	}

	if newPriority != oldPriority {
		s.publish(ctx, events.Event{
			Type:     events.EventTicketPriorityChanged,
			TicketID: ticket.ID,
			Actor:    actor,
			Payload: events.TicketPriorityChangedPayload{
				OldPriority: oldPriority,
				NewPriority: newPriority,
				OldLabel:    oldLabel,
				NewLabel:    newLabel,
			},
		})
	}
	return ticket, nil
}

// Resolve closes out a ticket with a solution note. Tenant notification is
// not implied; callers wanting one go through ChangeStatus.
func (s *TicketService) Resolve(ctx context.Context, ticketID, solution, resolvedBy string) (*domain.Ticket, error) {
	solution = strings.TrimSpace(solution)
	if solution == "" {
		return nil, apperrors.NewValidationError("solution note required", nil)
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == domain.StatusResolved {
		return nil, apperrors.NewInvalidState("ticket already resolved", map[string]any{"ticket_id": ticketID})
	}

	ticket.Status = domain.StatusResolved
	if err := s.tickets.Update(ctx, ticket); err != nil {
		s.logger.Error("resolve ticket", zap.String("ticket_id", ticketID), zap.Error(err))
		return nil, apperrors.MapError(err)
	}
	if err := s.recordAction(ctx, ticket.ID, resolvedBy, fmt.Sprintf("Resolved: %s", solution)); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketResolved,
		TicketID: ticket.ID,
		Actor:    resolvedBy,
		Payload: events.TicketResolvedPayload{
			Solution:   solution,
			ResolvedBy: resolvedBy,
		},
	})
	return ticket, nil
}

// AddComment appends a message to the ticket thread and broadcasts it to
// the ticket topic. Staff and admin comments notify the tenant; a tenant's
// own comments notify the admins instead.
func (s *TicketService) AddComment(ctx context.Context, ticketID, body, author string, fromStaff bool, channel domain.CommentChannel) (*domain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("comment body required", nil)
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		TicketID:  ticket.ID,
		Author:    author,
		FromStaff: fromStaff,
		Channel:   channel,
		Body:      body,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		s.logger.Error("add comment", zap.String("ticket_id", ticketID), zap.Error(err))
		return nil, apperrors.MapError(err)
	}
	if err := s.recordAction(ctx, ticket.ID, author, fmt.Sprintf("Comment added via %s channel", strings.ToLower(string(channel)))); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketCommentAdded,
		TicketID: ticket.ID,
		Actor:    author,
		Payload: events.TicketCommentAddedPayload{
			CommentID: comment.ID,
			TenantID:  ticket.TenantID,
			Channel:   channel,
			Author:    author,
			Body:      body,
		},
	})
	return comment, nil
}

// GetHistory returns the ticket's audit trail in the requested order.
func (s *TicketService) GetHistory(ctx context.Context, ticketID string, order domain.AuditOrder) ([]domain.AuditEntry, error) {
	if _, err := s.getTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	entries, err := s.audit.ListByTicket(ctx, ticketID, order)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// GetComments returns the ticket thread in chronological order.
func (s *TicketService) GetComments(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	if _, err := s.getTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return comments, nil
}

// Get fetches one ticket.
func (s *TicketService) Get(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	return s.getTicket(ctx, ticketID)
}

// GetByCode fetches one ticket by its public code.
func (s *TicketService) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"code": code})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// List returns tickets matching the filter.
func (s *TicketService) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

func (s *TicketService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) recordAction(ctx context.Context, ticketID, actor, description string) error {
	return s.audit.Append(ctx, &domain.AuditEntry{
		TicketID:    ticketID,
		Actor:       actor,
		Description: description,
	})
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("ticket_id", event.TicketID), zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func generateTicketCode() string {
	return "TCK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
