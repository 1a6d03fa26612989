package domain

import "time"

// Lookup groups for the dynamic parameter table.
const (
	LookupGroupTicketStatus   = "ticket_status"
	LookupGroupTicketPriority = "ticket_priority"
)

// LookupRow is one entry of the externally editable parameter table used to
// render human-readable labels for numeric status and priority codes.
type LookupRow struct {
	ID        string
	GroupName string
	NumericID int
	Ident     string
	Value     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
