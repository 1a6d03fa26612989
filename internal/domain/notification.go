package domain

import "time"

// NotificationScope classifies the target audience of a notification.
type NotificationScope string

const (
	ScopeAdmin  NotificationScope = "ADMIN"
	ScopeStaff  NotificationScope = "STAFF"
	ScopeTenant NotificationScope = "TENANT"
)

// NotificationKind names the event that produced a notification.
type NotificationKind string

const (
	KindNewTicket     NotificationKind = "NEW_TICKET"
	KindStatusChanged NotificationKind = "STATUS_CHANGED"
	KindNewComment    NotificationKind = "NEW_COMMENT"
	KindAssigned      NotificationKind = "TICKET_ASSIGNED"
)

// Notification is a persisted fan-out record. Admin-scoped notifications
// have no recipient id; staff and tenant notifications name one.
type Notification struct {
	ID          string
	Scope       NotificationScope
	RecipientID *string
	Kind        NotificationKind
	Title       string
	Message     string
	TicketID    *string
	Read        bool
	Deleted     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
