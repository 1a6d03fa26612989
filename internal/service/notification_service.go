package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// NotificationService translates lifecycle and assignment events into
// persisted notification records and best-effort live pushes. Every
// failure here is logged and swallowed; the mutation that caused the event
// has already been committed and must not be undone.
type NotificationService struct {
	notifications repository.NotificationRepository
	tickets       repository.TicketRepository
	dispatcher    events.Dispatcher
	broadcaster   events.Broadcaster
	logger        *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(notifications repository.NotificationRepository, tickets repository.TicketRepository, dispatcher events.Dispatcher, broadcaster events.Broadcaster, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		notifications: notifications,
		tickets:       tickets,
		dispatcher:    dispatcher,
		broadcaster:   broadcaster,
		logger:        logger,
	}
}

// DashboardStats is the aggregate payload pushed to the admin dashboard
// topic whenever ticket state changes.
type DashboardStats struct {
	Total      int                       `json:"total"`
	Open       int                       `json:"open"`
	Processing int                       `json:"processing"`
	Resolved   int                       `json:"resolved"`
	Closed     int                       `json:"closed"`
	ByStatus   map[domain.StatusCode]int `json:"by_status"`
}

// RegisterHandlers subscribes the fan-out to domain events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketPriorityChanged, n.handlePriorityChanged)
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleAssigned)
	n.dispatcher.Subscribe(events.EventTicketReleased, n.handleReleased)
	n.dispatcher.Subscribe(events.EventTicketResolved, n.handleResolved)
	n.dispatcher.Subscribe(events.EventTicketCommentAdded, n.handleCommentAdded)
}

// NotifyAdmins persists one admin-scoped notification.
func (n *NotificationService) NotifyAdmins(ctx context.Context, kind domain.NotificationKind, ticketID, title, message string) {
	n.persist(ctx, &domain.Notification{
		Scope:    domain.ScopeAdmin,
		Kind:     kind,
		Title:    title,
		Message:  message,
		TicketID: &ticketID,
	})
}

// NotifyStaff persists one notification scoped to a staff member.
func (n *NotificationService) NotifyStaff(ctx context.Context, staffID string, kind domain.NotificationKind, ticketID, title, message string) {
	n.persist(ctx, &domain.Notification{
		Scope:       domain.ScopeStaff,
		RecipientID: &staffID,
		Kind:        kind,
		Title:       title,
		Message:     message,
		TicketID:    &ticketID,
	})
}

// NotifyTenant persists one notification scoped to a tenant.
func (n *NotificationService) NotifyTenant(ctx context.Context, tenantID string, kind domain.NotificationKind, ticketID, title, message string) {
	n.persist(ctx, &domain.Notification{
		Scope:       domain.ScopeTenant,
		RecipientID: &tenantID,
		Kind:        kind,
		Title:       title,
		Message:     message,
		TicketID:    &ticketID,
	})
}

// Broadcast pushes a live update to the topic's connected listeners.
// Fire-and-forget: transport errors are logged, never propagated.
func (n *NotificationService) Broadcast(ctx context.Context, topic string, payload any) {
	if n.broadcaster == nil {
		return
	}
	if err := n.broadcaster.Publish(ctx, topic, payload); err != nil {
		n.logger.Warn("broadcast failed", zap.String("topic", topic), zap.Error(err))
	}
}

// ListForRecipient returns undeleted notifications for a scope/recipient.
func (n *NotificationService) ListForRecipient(ctx context.Context, scope domain.NotificationScope, recipientID *string, limit, offset int) ([]domain.Notification, error) {
	list, err := n.notifications.ListByScope(ctx, scope, recipientID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// MarkRead flags a notification as read.
func (n *NotificationService) MarkRead(ctx context.Context, id string) error {
	return apperrors.MapError(n.notifications.MarkRead(ctx, id))
}

// Delete soft-deletes a notification.
func (n *NotificationService) Delete(ctx context.Context, id string) error {
	return apperrors.MapError(n.notifications.SoftDelete(ctx, id))
}

// CountUnread returns the unread badge count for a scope/recipient.
func (n *NotificationService) CountUnread(ctx context.Context, scope domain.NotificationScope, recipientID *string) (int, error) {
	count, err := n.notifications.CountUnread(ctx, scope, recipientID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return count, nil
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}
	n.NotifyAdmins(ctx, domain.KindNewTicket, event.TicketID,
		"New ticket",
		fmt.Sprintf("Ticket %s: %s", payload.TicketCode, payload.Title))
	n.broadcastDashboard(ctx)
	return nil
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return nil
	}
	n.NotifyTenant(ctx, payload.TenantID, domain.KindStatusChanged, event.TicketID,
		"Ticket status updated",
		fmt.Sprintf("Status changed from %s to %s", payload.OldLabel, payload.NewLabel))
	n.NotifyAdmins(ctx, domain.KindStatusChanged, event.TicketID,
		"Ticket status changed",
		fmt.Sprintf("Ticket %s moved from %s to %s", event.TicketID, payload.OldLabel, payload.NewLabel))
	n.Broadcast(ctx, events.TicketTopic(event.TicketID), event)
	n.broadcastDashboard(ctx)
	return nil
}

func (n *NotificationService) handlePriorityChanged(ctx context.Context, event events.Event) error {
	// Priority changes are staff-internal; no tenant record, live push only.
	n.Broadcast(ctx, events.TicketTopic(event.TicketID), event)
	return nil
}

func (n *NotificationService) handleAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok {
		return nil
	}
	n.NotifyStaff(ctx, payload.StaffID, domain.KindAssigned, event.TicketID,
		"Ticket assigned to you",
		fmt.Sprintf("%s (tenant: %s, ticket: %s)", payload.TicketTitle, payload.TenantName, event.TicketID))
	n.Broadcast(ctx, events.TicketTopic(event.TicketID), event)
	n.broadcastDashboard(ctx)
	return nil
}

func (n *NotificationService) handleReleased(ctx context.Context, event events.Event) error {
	n.Broadcast(ctx, events.TicketTopic(event.TicketID), event)
	n.broadcastDashboard(ctx)
	return nil
}

func (n *NotificationService) handleResolved(ctx context.Context, event events.Event) error {
	n.Broadcast(ctx, events.TicketTopic(event.TicketID), event)
	n.broadcastDashboard(ctx)
	return nil
}

func (n *NotificationService) handleCommentAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCommentAddedPayload)
	if !ok {
		return nil
	}
	n.Broadcast(ctx, events.TicketTopic(event.TicketID), event)
	if payload.Channel == domain.ChannelCustomer {
		n.NotifyAdmins(ctx, domain.KindNewComment, event.TicketID,
			"New customer comment",
			fmt.Sprintf("%s commented on ticket %s", payload.Author, event.TicketID))
		return nil
	}
	n.NotifyTenant(ctx, payload.TenantID, domain.KindNewComment, event.TicketID,
		"New reply on your ticket",
		fmt.Sprintf("%s replied to your ticket", payload.Author))
	return nil
}

func (n *NotificationService) persist(ctx context.Context, notification *domain.Notification) {
	if err := n.notifications.Create(ctx, notification); err != nil {
		n.logger.Warn("notification persist failed",
			zap.String("scope", string(notification.Scope)),
			zap.String("kind", string(notification.Kind)),
			zap.Error(err))
	}
}

func (n *NotificationService) broadcastDashboard(ctx context.Context) {
	stats, err := n.ComputeDashboardStats(ctx)
	if err != nil {
		n.logger.Warn("dashboard stats failed", zap.Error(err))
		return
	}
	n.Broadcast(ctx, events.TopicAdminDashboard, stats)
}

// ComputeDashboardStats aggregates ticket counters for the admin dashboard.
func (n *NotificationService) ComputeDashboardStats(ctx context.Context) (DashboardStats, error) {
	counts, err := n.tickets.CountByStatus(ctx)
	if err != nil {
		return DashboardStats{}, apperrors.MapError(err)
	}
	stats := DashboardStats{ByStatus: counts}
	for status, count := range counts {
		stats.Total += count
		switch status {
		case domain.StatusOpen:
			stats.Open += count
		case domain.StatusProcessing:
			stats.Processing += count
		case domain.StatusResolved:
			stats.Resolved += count
		case domain.StatusClosed:
			stats.Closed += count
		}
	}
	return stats, nil
}
