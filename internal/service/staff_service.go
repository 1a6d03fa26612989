package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// StaffService manages the worker pool the assignment engine schedules
// over: accounts, activation flags, and capacity ceilings.
type StaffService struct {
	staff      repository.StaffRepository
	bcryptCost int
}

// NewStaffService constructs the service.
func NewStaffService(cfg config.Config, staff repository.StaffRepository) *StaffService {
	return &StaffService{staff: staff, bcryptCost: cfg.Auth.BcryptCost}
}

// StaffCreateInput describes a new staff account.
type StaffCreateInput struct {
	Name           string
	Email          string
	Password       string
	Role           domain.StaffRole
	MaxOpenTickets int
}

// CreateStaffMember adds a new staff account to the pool.
func (s *StaffService) CreateStaffMember(ctx context.Context, input StaffCreateInput) (*domain.StaffMember, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("name, email, password required", nil)
	}
	if input.MaxOpenTickets < 0 {
		return nil, apperrors.NewValidationError("max_open_tickets must not be negative", nil)
	}
	role := input.Role
	if role == "" {
		role = domain.StaffRoleAgent
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	member := &domain.StaffMember{
		Name:           name,
		Email:          email,
		PasswordHash:   hash,
		Role:           role,
		Active:         true,
		MaxOpenTickets: input.MaxOpenTickets,
	}
	if err := s.staff.Create(ctx, member); err != nil {
		return nil, apperrors.MapError(err)
	}
	return member, nil
}

// ListStaff returns pool members, optionally active only.
func (s *StaffService) ListStaff(ctx context.Context, activeOnly bool) ([]domain.StaffMember, error) {
	filter := repository.StaffFilter{}
	if activeOnly {
		active := true
		filter.Active = &active
	}
	members, err := s.staff.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return members, nil
}

// GetStaff fetches one member.
func (s *StaffService) GetStaff(ctx context.Context, id string) (*domain.StaffMember, error) {
	member, err := s.staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff", map[string]any{"staff_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return member, nil
}

// SetActive toggles a member's activation flag. Deactivated members keep
// their current tickets but receive no new assignments.
func (s *StaffService) SetActive(ctx context.Context, id string, active bool) (*domain.StaffMember, error) {
	member, err := s.GetStaff(ctx, id)
	if err != nil {
		return nil, err
	}
	member.Active = active
	if err := s.staff.Update(ctx, member); err != nil {
		return nil, apperrors.MapError(err)
	}
	return member, nil
}

// SetCapacity updates a member's concurrent-ticket ceiling.
func (s *StaffService) SetCapacity(ctx context.Context, id string, maxOpenTickets int) (*domain.StaffMember, error) {
	if maxOpenTickets < 0 {
		return nil, apperrors.NewValidationError("max_open_tickets must not be negative", nil)
	}
	member, err := s.GetStaff(ctx, id)
	if err != nil {
		return nil, err
	}
	member.MaxOpenTickets = maxOpenTickets
	if err := s.staff.Update(ctx, member); err != nil {
		return nil, apperrors.MapError(err)
	}
	return member, nil
}
