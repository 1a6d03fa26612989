package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateStaffRequest payload.
type CreateStaffRequest struct {
	Name           string           `json:"name"`
	Email          string           `json:"email"`
	Password       string           `json:"password"`
	Role           domain.StaffRole `json:"role"`
	MaxOpenTickets int              `json:"max_open_tickets"`
}

// SetCapacityRequest payload.
type SetCapacityRequest struct {
	MaxOpenTickets int `json:"max_open_tickets"`
}

// SetActiveRequest payload.
type SetActiveRequest struct {
	Active bool `json:"active"`
}

// StaffResponse response.
type StaffResponse struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Email          string           `json:"email"`
	Role           domain.StaffRole `json:"role"`
	Active         bool             `json:"active"`
	MaxOpenTickets int              `json:"max_open_tickets"`
	CreatedAt      time.Time        `json:"created_at"`
}

// AssignRequest payload.
type AssignRequest struct {
	StaffID string `json:"staff_id"`
	Note    string `json:"note,omitempty"`
}

// AssignToPersonRequest payload.
type AssignToPersonRequest struct {
	PersonName string `json:"person_name"`
}

// BulkAssignRequest payload.
type BulkAssignRequest struct {
	TicketIDs []string `json:"ticket_ids"`
	StaffID   string   `json:"staff_id"`
}

// BulkAssignResponse reports batch outcome.
type BulkAssignResponse struct {
	Assigned int `json:"assigned"`
	Total    int `json:"total"`
}
