package domain

import "time"

// StatusCode is a numeric ticket status. The set of valid codes is defined
// by the external lookup table, not by this enumeration; unrecognized codes
// round-trip untouched. The sentinels below are the ones the engine itself
// branches on.
type StatusCode int

const (
	StatusOpen               StatusCode = 1
	StatusProcessing         StatusCode = 2
	StatusWaitingForCustomer StatusCode = 3
	StatusResolved           StatusCode = 4
	StatusClosed             StatusCode = 5
)

// IsTerminal reports whether tickets in this status stop counting toward a
// staff member's active load.
func (s StatusCode) IsTerminal() bool {
	return s == StatusResolved || s == StatusClosed
}

// PriorityCode is a numeric ticket priority, open-ended like StatusCode.
type PriorityCode int

const (
	PriorityLow    PriorityCode = 1
	PriorityMedium PriorityCode = 2
	PriorityHigh   PriorityCode = 3
	PriorityUrgent PriorityCode = 4
)

// Ticket is the aggregate for support requests. AssigneeID and AssigneeName
// are set and cleared together; the name is a display snapshot, not a second
// source of truth.
type Ticket struct {
	ID           string
	Code         string
	TenantID     string
	ProductID    *string
	AssigneeID   *string
	AssigneeName *string
	Title        string
	Description  string
	Status       StatusCode
	Priority     PriorityCode
	ImagePath    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Assigned reports whether the ticket currently has an assignee.
func (t *Ticket) Assigned() bool {
	return t.AssigneeID != nil
}
