package domain

import "time"

// TenantStatus represents lifecycle states for a client organization.
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "ACTIVE"
	TenantStatusSuspended TenantStatus = "SUSPENDED"
)

// Tenant is a client organization that submits tickets.
type Tenant struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Status       TenantStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
