package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// NotificationsHandler exposes the per-recipient notification inbox.
type NotificationsHandler struct {
	notifications *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notifications *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications}
}

// List GET /notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	scope, recipientID, err := recipientScope(c)
	if err != nil {
		return err
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	items, err := h.notifications.ListForRecipient(c.Context(), scope, recipientID, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	responses := make([]dto.NotificationResponse, 0, len(items))
	for i := range items {
		responses = append(responses, notificationResponse(&items[i]))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// UnreadCount GET /notifications/unread-count.
func (h *NotificationsHandler) UnreadCount(c *fiber.Ctx) error {
	scope, recipientID, err := recipientScope(c)
	if err != nil {
		return err
	}
	count, err := h.notifications.CountUnread(c.Context(), scope, recipientID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.UnreadCountResponse{Unread: count}})
}

// MarkRead PUT /notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.notifications.MarkRead(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"read": true}})
}

// Delete DELETE /notifications/:id.
func (h *NotificationsHandler) Delete(c *fiber.Ctx) error {
	if err := h.notifications.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

func recipientScope(c *fiber.Ctx) (domain.NotificationScope, *string, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return "", nil, apperrors.NewUnauthorized("authentication required")
	}
	switch {
	case principal.Staff != nil && principal.Staff.Role == domain.StaffRoleAdmin:
		return domain.ScopeAdmin, nil, nil
	case principal.Staff != nil:
		return domain.ScopeStaff, &principal.Staff.ID, nil
	case principal.Tenant != nil:
		return domain.ScopeTenant, &principal.Tenant.ID, nil
	}
	return "", nil, apperrors.NewUnauthorized("authentication required")
}

func notificationResponse(notification *domain.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        notification.ID,
		Kind:      notification.Kind,
		Title:     notification.Title,
		Message:   notification.Message,
		TicketID:  notification.TicketID,
		Read:      notification.Read,
		CreatedAt: notification.CreatedAt,
	}
}
