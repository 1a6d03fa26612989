package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// AssignmentService binds tickets to staff members while enforcing each
// member's concurrent-capacity ceiling. The capacity check and the ticket
// write are serialized per staff id, so concurrent assignments targeting
// the same member admit at most capacity tickets.
type AssignmentService struct {
	tickets    repository.TicketRepository
	staff      repository.StaffRepository
	tenants    repository.TenantRepository
	audit      repository.AuditRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	locks      *keyedMutex
}

// AssignmentDependencies bundles collaborators.
type AssignmentDependencies struct {
	TicketRepo repository.TicketRepository
	StaffRepo  repository.StaffRepository
	TenantRepo repository.TenantRepository
	AuditRepo  repository.AuditRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		tickets:    deps.TicketRepo,
		staff:      deps.StaffRepo,
		tenants:    deps.TenantRepo,
		audit:      deps.AuditRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		locks:      newKeyedMutex(),
	}
}

// Workload computes the derived load snapshot for one staff member.
func (s *AssignmentService) Workload(ctx context.Context, staff *domain.StaffMember) (domain.StaffWorkload, error) {
	active, err := s.staff.CountActiveTickets(ctx, staff.ID)
	if err != nil {
		return domain.StaffWorkload{}, apperrors.MapError(err)
	}
	return domain.ComputeWorkload(staff, active), nil
}

// GetWorkloads returns snapshots for every active staff member.
func (s *AssignmentService) GetWorkloads(ctx context.Context) ([]domain.StaffWorkload, error) {
	active := true
	members, err := s.staff.List(ctx, repository.StaffFilter{Active: &active})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	workloads := make([]domain.StaffWorkload, 0, len(members))
	for i := range members {
		w, err := s.Workload(ctx, &members[i])
		if err != nil {
			return nil, err
		}
		workloads = append(workloads, w)
	}
	return workloads, nil
}

// AssignToStaff assigns or reassigns a ticket to the given staff member.
func (s *AssignmentService) AssignToStaff(ctx context.Context, ticketID, staffID, note, actor string) (*domain.Ticket, error) {
	staff, err := s.getStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return s.assign(ctx, ticket, staff, note, actor)
}

// Claim lets a staff member take an unassigned ticket for themselves.
func (s *AssignmentService) Claim(ctx context.Context, ticketID, staffID string) (*domain.Ticket, error) {
	staff, err := s.getStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Assigned() {
		return nil, apperrors.NewAlreadyAssigned(ticketID)
	}
	return s.assign(ctx, ticket, staff, "", staff.Name)
}

// AssignToPerson assigns a ticket by staff display name. Legacy entry
// point: the name is resolved to a staff member so the assignee reference
// and the display snapshot stay consistent.
func (s *AssignmentService) AssignToPerson(ctx context.Context, ticketID, personName, actor string) (*domain.Ticket, error) {
	members, err := s.staff.List(ctx, repository.StaffFilter{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for i := range members {
		if members[i].Name == personName {
			return s.AssignToStaff(ctx, ticketID, members[i].ID, "", actor)
		}
	}
	return nil, apperrors.NewNotFound("staff", map[string]any{"name": personName})
}

// Release lets the current assignee hand a ticket back to the pool.
func (s *AssignmentService) Release(ctx context.Context, ticketID, staffID string) (*domain.Ticket, error) {
	staff, err := s.getStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.AssigneeID == nil || *ticket.AssigneeID != staffID {
		return nil, apperrors.NewNotOwned(ticketID, staffID)
	}
	return s.unassign(ctx, ticket, staff.Name)
}

// Unassign clears the assignee regardless of who holds the ticket.
func (s *AssignmentService) Unassign(ctx context.Context, ticketID, actor string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !ticket.Assigned() {
		return nil, apperrors.NewAlreadyUnassigned(ticketID)
	}
	return s.unassign(ctx, ticket, actor)
}

// BulkAssign applies AssignToStaff to each ticket independently and
// returns the number of successes. Per-ticket failures do not abort the
// batch.
func (s *AssignmentService) BulkAssign(ctx context.Context, ticketIDs []string, staffID, actor string) (int, error) {
	assigned := 0
	for _, ticketID := range ticketIDs {
		if _, err := s.AssignToStaff(ctx, ticketID, staffID, "", actor); err != nil {
			s.logger.Warn("bulk assign skipped ticket",
				zap.String("ticket_id", ticketID),
				zap.String("staff_id", staffID),
				zap.Error(err))
			continue
		}
		assigned++
	}
	return assigned, nil
}

// AutoAssign picks the active staff member with the lowest capacity ratio
// and assigns the ticket to them. Ties break on the lowest staff id.
func (s *AssignmentService) AutoAssign(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Assigned() {
		return nil, apperrors.NewAlreadyAssigned(ticketID)
	}

	active := true
	members, err := s.staff.List(ctx, repository.StaffFilter{Active: &active})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	var best *domain.StaffMember
	bestRatio := 0.0
	for i := range members {
		w, err := s.Workload(ctx, &members[i])
		if err != nil {
			return nil, err
		}
		if !w.Available {
			continue
		}
		ratio := w.WorkloadPercentage
		if best == nil || ratio < bestRatio || (ratio == bestRatio && members[i].ID < best.ID) {
			best = &members[i]
			bestRatio = ratio
		}
	}
	if best == nil {
		return nil, apperrors.NewNoStaffAvailable()
	}
	return s.assign(ctx, ticket, best, "automatic assignment", "System")
}

func (s *AssignmentService) assign(ctx context.Context, ticket *domain.Ticket, staff *domain.StaffMember, note, actor string) (*domain.Ticket, error) {
	if !staff.Active {
		return nil, apperrors.NewStaffInactive(staff.ID)
	}

	unlock := s.locks.Lock(staff.ID)
	defer unlock()

	// A ticket already counted against this member's load stays with them.
	if ticket.AssigneeID == nil || *ticket.AssigneeID != staff.ID {
		active, err := s.staff.CountActiveTickets(ctx, staff.ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if active >= staff.MaxOpenTickets {
			return nil, apperrors.NewCapacityExceeded(staff.ID, active, staff.MaxOpenTickets)
		}
	}

	var previous *string
	if ticket.AssigneeName != nil {
		name := *ticket.AssigneeName
		previous = &name
	}
	ticket.AssigneeID = &staff.ID
	ticket.AssigneeName = &staff.Name
	ticket.Status = domain.StatusProcessing
	if err := s.tickets.Update(ctx, ticket); err != nil {
		s.logger.Error("assign ticket", zap.String("ticket_id", ticket.ID), zap.String("staff_id", staff.ID), zap.Error(err))
		return nil, apperrors.MapError(err)
	}

	description := fmt.Sprintf("Assigned to %s", staff.Name)
	if previous != nil {
		description = fmt.Sprintf("Reassigned from %s to %s", *previous, staff.Name)
	}
	if note != "" {
		description += fmt.Sprintf(" (%s)", note)
	}
	if err := s.recordAction(ctx, ticket.ID, actor, description); err != nil {
		return nil, apperrors.MapError(err)
	}

	tenantName := s.tenantName(ctx, ticket.TenantID)
	s.publish(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.TicketAssignedPayload{
			StaffID:     staff.ID,
			StaffName:   staff.Name,
			TenantID:    ticket.TenantID,
			TenantName:  tenantName,
			TicketTitle: ticket.Title,
		},
	})
	return ticket, nil
}

func (s *AssignmentService) unassign(ctx context.Context, ticket *domain.Ticket, actor string) (*domain.Ticket, error) {
	releasedFrom := ""
	releasedID := ""
	if ticket.AssigneeName != nil {
		releasedFrom = *ticket.AssigneeName
	}
	if ticket.AssigneeID != nil {
		releasedID = *ticket.AssigneeID
	}
	ticket.AssigneeID = nil
	ticket.AssigneeName = nil
	ticket.Status = domain.StatusOpen
	if err := s.tickets.Update(ctx, ticket); err != nil {
		s.logger.Error("unassign ticket", zap.String("ticket_id", ticket.ID), zap.Error(err))
		return nil, apperrors.MapError(err)
	}

	description := "Assignment cleared"
	if releasedFrom != "" {
		description = fmt.Sprintf("Released from %s", releasedFrom)
	}
	if err := s.recordAction(ctx, ticket.ID, actor, description); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketReleased,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload:  events.TicketReleasedPayload{StaffID: releasedID},
	})
	return ticket, nil
}

func (s *AssignmentService) getStaff(ctx context.Context, staffID string) (*domain.StaffMember, error) {
	staff, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff", map[string]any{"staff_id": staffID})
		}
		return nil, apperrors.MapError(err)
	}
	return staff, nil
}

func (s *AssignmentService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *AssignmentService) tenantName(ctx context.Context, tenantID string) string {
	if s.tenants == nil {
		return ""
	}
	tenant, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		s.logger.Warn("tenant lookup failed", zap.String("tenant_id", tenantID), zap.Error(err))
		return ""
	}
	return tenant.Name
}

func (s *AssignmentService) recordAction(ctx context.Context, ticketID, actor, description string) error {
	return s.audit.Append(ctx, &domain.AuditEntry{
		TicketID:    ticketID,
		Actor:       actor,
		Description: description,
	})
}

func (s *AssignmentService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("ticket_id", event.TicketID), zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
