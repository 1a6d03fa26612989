package service

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// In-memory repositories backing the service tests. All of them are safe
// for concurrent use so the capacity-race tests can hammer them.

type fakeTicketRepo struct {
	mu      sync.Mutex
	seq     int
	tickets map[string]domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]domain.Ticket)}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ticket.ID == "" {
		r.seq++
		ticket.ID = "t" + strconv.Itoa(r.seq)
	}
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := ticket
	return &copied, nil
}

func (r *fakeTicketRepo) GetByCode(_ context.Context, code string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ticket := range r.tickets {
		if ticket.Code == code {
			copied := ticket
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Ticket
	for _, ticket := range r.tickets {
		if filter.TenantID != nil && ticket.TenantID != *filter.TenantID {
			continue
		}
		if filter.Unassigned && ticket.AssigneeID != nil {
			continue
		}
		if filter.AssigneeID != nil && (ticket.AssigneeID == nil || *ticket.AssigneeID != *filter.AssigneeID) {
			continue
		}
		out = append(out, ticket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTicketRepo) CountByStatus(_ context.Context) (map[domain.StatusCode]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[domain.StatusCode]int)
	for _, ticket := range r.tickets {
		counts[ticket.Status]++
	}
	return counts, nil
}

func (r *fakeTicketRepo) countAssigned(staffID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, ticket := range r.tickets {
		if ticket.AssigneeID != nil && *ticket.AssigneeID == staffID && !ticket.Status.IsTerminal() {
			count++
		}
	}
	return count
}

type fakeStaffRepo struct {
	mu      sync.Mutex
	members map[string]domain.StaffMember
	tickets *fakeTicketRepo
}

func newFakeStaffRepo(tickets *fakeTicketRepo) *fakeStaffRepo {
	return &fakeStaffRepo{members: make(map[string]domain.StaffMember), tickets: tickets}
}

func (r *fakeStaffRepo) Create(_ context.Context, staff *domain.StaffMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if staff.ID == "" {
		staff.ID = "s" + strconv.Itoa(len(r.members)+1)
	}
	r.members[staff.ID] = *staff
	return nil
}

func (r *fakeStaffRepo) Update(_ context.Context, staff *domain.StaffMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[staff.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.members[staff.ID] = *staff
	return nil
}

func (r *fakeStaffRepo) GetByID(_ context.Context, id string) (*domain.StaffMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	staff, ok := r.members[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := staff
	return &copied, nil
}

func (r *fakeStaffRepo) GetByEmail(_ context.Context, email string) (*domain.StaffMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, staff := range r.members {
		if staff.Email == email {
			copied := staff
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStaffRepo) List(_ context.Context, filter repository.StaffFilter) ([]domain.StaffMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.StaffMember
	for _, staff := range r.members {
		if filter.Active != nil && staff.Active != *filter.Active {
			continue
		}
		if filter.Role != nil && staff.Role != *filter.Role {
			continue
		}
		out = append(out, staff)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *fakeStaffRepo) CountActiveTickets(_ context.Context, staffID string) (int, error) {
	return r.tickets.countAssigned(staffID), nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func (r *fakeAuditRepo) Append(_ context.Context, entry *domain.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = "a" + strconv.Itoa(len(r.entries)+1)
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) ListByTicket(_ context.Context, ticketID string, order domain.AuditOrder) ([]domain.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.AuditEntry
	for _, entry := range r.entries {
		if entry.TicketID == ticketID {
			out = append(out, entry)
		}
	}
	if order == domain.AuditOrderDesc {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

func (r *fakeAuditRepo) descriptions(ticketID string) []string {
	entries, _ := r.ListByTicket(context.Background(), ticketID, domain.AuditOrderAsc)
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.Description)
	}
	return out
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments []domain.Comment
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment.ID = "c" + strconv.Itoa(len(r.comments)+1)
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeCommentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Comment
	for _, comment := range r.comments {
		if comment.TicketID == ticketID {
			out = append(out, comment)
		}
	}
	return out, nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []domain.Notification
}

func (r *fakeNotificationRepo) Create(_ context.Context, notification *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	notification.ID = "n" + strconv.Itoa(len(r.notifications)+1)
	r.notifications = append(r.notifications, *notification)
	return nil
}

func (r *fakeNotificationRepo) ListByScope(_ context.Context, scope domain.NotificationScope, recipientID *string, limit, offset int) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Notification
	for _, notification := range r.notifications {
		if notification.Scope != scope || notification.Deleted {
			continue
		}
		if recipientID != nil && (notification.RecipientID == nil || *notification.RecipientID != *recipientID) {
			continue
		}
		out = append(out, notification)
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notifications {
		if r.notifications[i].ID == id {
			r.notifications[i].Read = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeNotificationRepo) SoftDelete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notifications {
		if r.notifications[i].ID == id {
			r.notifications[i].Deleted = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, scope domain.NotificationScope, recipientID *string) (int, error) {
	items, _ := r.ListByScope(context.Background(), scope, recipientID, 0, 0)
	count := 0
	for _, item := range items {
		if !item.Read {
			count++
		}
	}
	return count, nil
}

type fakeLookupRepo struct {
	rows []domain.LookupRow
}

func (r *fakeLookupRepo) GetByNumericID(_ context.Context, group string, numericID int) (*domain.LookupRow, error) {
	for i := range r.rows {
		if r.rows[i].GroupName == group && r.rows[i].NumericID == numericID {
			return &r.rows[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeLookupRepo) GetByIdent(_ context.Context, group, ident string) (*domain.LookupRow, error) {
	for i := range r.rows {
		if r.rows[i].GroupName == group && r.rows[i].Ident == ident {
			return &r.rows[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeTenantRepo struct {
	mu      sync.Mutex
	tenants map[string]domain.Tenant
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{tenants: make(map[string]domain.Tenant)}
}

func (r *fakeTenantRepo) Create(_ context.Context, tenant *domain.Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tenant.ID == "" {
		tenant.ID = "tn" + strconv.Itoa(len(r.tenants)+1)
	}
	r.tenants[tenant.ID] = *tenant
	return nil
}

func (r *fakeTenantRepo) GetByID(_ context.Context, id string) (*domain.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tenant, ok := r.tenants[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := tenant
	return &copied, nil
}

func (r *fakeTenantRepo) GetByEmail(_ context.Context, email string) (*domain.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tenant := range r.tenants {
		if tenant.Email == email {
			copied := tenant
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

// captureDispatcher records published events for assertions while still
// driving subscribed handlers like the real dispatcher.
type captureDispatcher struct {
	mu        sync.Mutex
	published []events.Event
	inner     events.Dispatcher
}

func newCaptureDispatcher() *captureDispatcher {
	return &captureDispatcher{inner: events.NewInMemoryDispatcher()}
}

func (d *captureDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	d.published = append(d.published, event)
	d.mu.Unlock()
	return d.inner.Publish(ctx, event)
}

func (d *captureDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {
	d.inner.Subscribe(eventType, handler)
}

func (d *captureDispatcher) eventsOfType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []events.Event
	for _, event := range d.published {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}
