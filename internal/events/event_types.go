package events

import (
	"fmt"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventTicketStatusChanged   EventType = "ticket_status_changed"
	EventTicketPriorityChanged EventType = "ticket_priority_changed"
	EventTicketAssigned        EventType = "ticket_assigned"
	EventTicketReleased        EventType = "ticket_released"
	EventTicketResolved        EventType = "ticket_resolved"
	EventTicketCommentAdded    EventType = "ticket_comment_added"
)

// Broadcast topic names. Connected listeners subscribe to one of these.
const TopicAdminDashboard = "admin-dashboard"

// TicketTopic returns the per-ticket broadcast topic.
func TicketTopic(ticketID string) string {
	return fmt.Sprintf("ticket-%s", ticketID)
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     string      `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketCode string              `json:"ticket_code"`
	TenantID   string              `json:"tenant_id"`
	Title      string              `json:"title"`
	Priority   domain.PriorityCode `json:"priority"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	TenantID  string            `json:"tenant_id"`
	OldStatus domain.StatusCode `json:"old_status"`
	NewStatus domain.StatusCode `json:"new_status"`
	OldLabel  string            `json:"old_label"`
	NewLabel  string            `json:"new_label"`
}

// TicketPriorityChangedPayload payload.
type TicketPriorityChangedPayload struct {
	OldPriority domain.PriorityCode `json:"old_priority"`
	NewPriority domain.PriorityCode `json:"new_priority"`
	OldLabel    string              `json:"old_label"`
	NewLabel    string              `json:"new_label"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	StaffID     string `json:"staff_id"`
	StaffName   string `json:"staff_name"`
	TenantID    string `json:"tenant_id"`
	TenantName  string `json:"tenant_name"`
	TicketTitle string `json:"ticket_title"`
}

// TicketReleasedPayload payload.
type TicketReleasedPayload struct {
	StaffID string `json:"staff_id"`
}

// TicketResolvedPayload payload.
type TicketResolvedPayload struct {
	Solution   string `json:"solution"`
	ResolvedBy string `json:"resolved_by"`
}

// TicketCommentAddedPayload payload.
type TicketCommentAddedPayload struct {
	CommentID string                `json:"comment_id"`
	TenantID  string                `json:"tenant_id"`
	Channel   domain.CommentChannel `json:"channel"`
	Author    string                `json:"author"`
	Body      string                `json:"body"`
}
