package domain

import "time"

// StaffRole enumerates internal operator roles.
type StaffRole string

const (
	StaffRoleAgent StaffRole = "AGENT"
	StaffRoleAdmin StaffRole = "ADMIN"
)

// StaffMember models a support agent or administrator eligible for ticket
// assignment.
type StaffMember struct {
	ID             string
	Name           string
	Email          string
	PasswordHash   string
	Role           StaffRole
	Active         bool
	MaxOpenTickets int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// StaffWorkload is a derived view of a staff member's current load. It is
// recomputed on demand and never persisted.
type StaffWorkload struct {
	StaffID            string  `json:"staff_id"`
	StaffName          string  `json:"staff_name"`
	ActiveTickets      int     `json:"active_tickets"`
	MaxTickets         int     `json:"max_tickets"`
	WorkloadPercentage float64 `json:"workload_percentage"`
	Available          bool    `json:"is_available"`
}

// ComputeWorkload derives the workload snapshot for a staff member given
// the count of their non-terminal tickets.
func ComputeWorkload(staff *StaffMember, activeTickets int) StaffWorkload {
	w := StaffWorkload{
		StaffID:       staff.ID,
		StaffName:     staff.Name,
		ActiveTickets: activeTickets,
		MaxTickets:    staff.MaxOpenTickets,
	}
	if staff.MaxOpenTickets > 0 {
		w.WorkloadPercentage = float64(activeTickets) / float64(staff.MaxOpenTickets) * 100
		w.Available = staff.Active && activeTickets < staff.MaxOpenTickets
	}
	return w
}
