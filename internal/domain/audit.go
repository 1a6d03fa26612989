package domain

import "time"

// AuditEntry is an immutable record of one action taken on a ticket.
// Entries are append-only; the engine never edits or deletes them.
type AuditEntry struct {
	ID          string
	TicketID    string
	Actor       string
	Description string
	CreatedAt   time.Time
}

// AuditOrder selects the read-back ordering for a ticket's trail.
type AuditOrder string

const (
	AuditOrderAsc  AuditOrder = "ASC"
	AuditOrderDesc AuditOrder = "DESC"
)
