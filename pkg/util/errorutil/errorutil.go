package errorutil

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewInvalidState(message string, details map[string]any) error {
	return NewDomainError("INVALID_STATE", message, http.StatusConflict, details)
}

func NewStaffInactive(staffID string) error {
	return NewDomainError("STAFF_INACTIVE", "staff member is inactive", http.StatusConflict,
		map[string]any{"staff_id": staffID})
}

func NewCapacityExceeded(staffID string, activeTickets, maxTickets int) error {
	return NewDomainError("CAPACITY_EXCEEDED",
		fmt.Sprintf("staff member at capacity: %d of %d active tickets", activeTickets, maxTickets),
		http.StatusConflict,
		map[string]any{"staff_id": staffID, "active_tickets": activeTickets, "max_tickets": maxTickets})
}

func NewAlreadyAssigned(ticketID string) error {
	return NewDomainError("ALREADY_ASSIGNED", "ticket already has an assignee", http.StatusConflict,
		map[string]any{"ticket_id": ticketID})
}

func NewNotOwned(ticketID, staffID string) error {
	return NewDomainError("NOT_OWNED", "ticket is not assigned to this staff member", http.StatusConflict,
		map[string]any{"ticket_id": ticketID, "staff_id": staffID})
}

func NewAlreadyUnassigned(ticketID string) error {
	return NewDomainError("ALREADY_UNASSIGNED", "ticket has no assignee to clear", http.StatusConflict,
		map[string]any{"ticket_id": ticketID})
}

func NewNoStaffAvailable() error {
	return NewDomainError("NO_STAFF_AVAILABLE", "no staff member has free capacity", http.StatusConflict, nil)
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}

// IsCode reports whether err carries the given domain error code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
