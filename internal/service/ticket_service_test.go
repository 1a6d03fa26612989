package service

import (
	"context"
	"strings"
	"testing"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

type ticketFixture struct {
	tickets    *fakeTicketRepo
	comments   *fakeCommentRepo
	audit      *fakeAuditRepo
	lookups    *fakeLookupRepo
	dispatcher *captureDispatcher
	service    *TicketService
}

func newTicketFixture() *ticketFixture {
	tickets := newFakeTicketRepo()
	comments := &fakeCommentRepo{}
	audit := &fakeAuditRepo{}
	lookups := &fakeLookupRepo{rows: []domain.LookupRow{
		{GroupName: domain.LookupGroupTicketStatus, NumericID: 1, Ident: "open", Value: "Open"},
		{GroupName: domain.LookupGroupTicketStatus, NumericID: 2, Ident: "processing", Value: "Processing"},
		{GroupName: domain.LookupGroupTicketStatus, NumericID: 4, Ident: "resolved", Value: "Resolved"},
		{GroupName: domain.LookupGroupTicketPriority, NumericID: 2, Ident: "medium", Value: "Medium"},
		{GroupName: domain.LookupGroupTicketPriority, NumericID: 4, Ident: "urgent", Value: "Urgent"},
	}}
	dispatcher := newCaptureDispatcher()
	svc := NewTicketService(TicketDependencies{
		TicketRepo:  tickets,
		CommentRepo: comments,
		AuditRepo:   audit,
		Labels:      NewLabelService(lookups),
		Dispatcher:  dispatcher,
	})
	return &ticketFixture{
		tickets:    tickets,
		comments:   comments,
		audit:      audit,
		lookups:    lookups,
		dispatcher: dispatcher,
		service:    svc,
	}
}

func (f *ticketFixture) createTicket(t *testing.T) *domain.Ticket {
	t.Helper()
	ticket, err := f.service.Create(context.Background(), TicketCreateInput{
		TenantID:    "tenant1",
		Title:       "Printer on fire",
		Description: "The office printer is on fire.",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return ticket
}

func TestCreateTicket(t *testing.T) {
	f := newTicketFixture()
	ticket := f.createTicket(t)

	if ticket.Status != domain.StatusOpen {
		t.Errorf("Status = %d, want %d", ticket.Status, domain.StatusOpen)
	}
	if ticket.Priority != domain.PriorityMedium {
		t.Errorf("Priority = %d, want default %d", ticket.Priority, domain.PriorityMedium)
	}
	if !strings.HasPrefix(ticket.Code, "TCK-") || len(ticket.Code) != 12 {
		t.Errorf("Code = %q, want TCK- prefix with 8 hex chars", ticket.Code)
	}

	descs := f.audit.descriptions(ticket.ID)
	if len(descs) != 1 || !strings.Contains(descs[0], ticket.Code) {
		t.Errorf("audit trail = %v, want creation entry naming %s", descs, ticket.Code)
	}
	if got := f.dispatcher.eventsOfType(events.EventTicketCreated); len(got) != 1 {
		t.Errorf("created events = %d, want 1", len(got))
	}
}

func TestCreateTicketValidation(t *testing.T) {
	f := newTicketFixture()
	tests := []struct {
		name  string
		input TicketCreateInput
	}{
		{"empty title", TicketCreateInput{TenantID: "tenant1", Description: "desc"}},
		{"empty description", TicketCreateInput{TenantID: "tenant1", Title: "title"}},
		{"whitespace only", TicketCreateInput{TenantID: "tenant1", Title: "  ", Description: "\t"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Create(context.Background(), tt.input)
			if !apperrors.IsCode(err, "VALIDATION_FAILED") {
				t.Errorf("Create() error = %v, want VALIDATION_FAILED", err)
			}
		})
	}
}

func TestChangeStatus(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture()
	ticket := f.createTicket(t)

	updated, err := f.service.ChangeStatus(ctx, ticket.ID, domain.StatusProcessing, "Alice")
	if err != nil {
		t.Fatalf("ChangeStatus() error = %v", err)
	}
	if updated.Status != domain.StatusProcessing {
		t.Errorf("Status = %d, want %d", updated.Status, domain.StatusProcessing)
	}

	descs := f.audit.descriptions(ticket.ID)
	last := descs[len(descs)-1]
	if !strings.Contains(last, "Open") || !strings.Contains(last, "Processing") {
		t.Errorf("audit entry %q, want both old and new labels", last)
	}
	if got := f.dispatcher.eventsOfType(events.EventTicketStatusChanged); len(got) != 1 {
		t.Errorf("status events = %d, want 1", len(got))
	}
}

func TestChangeStatusNoOpStillAudited(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture()
	ticket := f.createTicket(t)

	if _, err := f.service.ChangeStatus(ctx, ticket.ID, domain.StatusOpen, "Alice"); err != nil {
		t.Fatalf("ChangeStatus() error = %v", err)
	}
	// Same-status writes land in the trail but publish no event.
	if got := f.dispatcher.eventsOfType(events.EventTicketStatusChanged); len(got) != 0 {
		t.Errorf("status events = %d, want 0 for unchanged status", len(got))
	}
	if descs := f.audit.descriptions(ticket.ID); len(descs) != 2 {
		t.Errorf("audit entries = %d, want 2", len(descs))
	}
}

func TestChangeStatusUnknownCodePassesThrough(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture()
	ticket := f.createTicket(t)

	updated, err := f.service.ChangeStatus(ctx, ticket.ID, domain.StatusCode(42), "Alice")
	if err != nil {
		t.Fatalf("ChangeStatus() error = %v", err)
	}
	if updated.Status != domain.StatusCode(42) {
		t.Errorf("Status = %d, want 42", updated.Status)
	}
	descs := f.audit.descriptions(ticket.ID)
	if last := descs[len(descs)-1]; !strings.Contains(last, "42") {
		t.Errorf("audit entry %q, want raw code fallback", last)
	}
}

func TestChangePriority(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture()
	ticket := f.createTicket(t)

	updated, err := f.service.ChangePriority(ctx, ticket.ID, domain.PriorityUrgent, "Alice")
	if err != nil {
		t.Fatalf("ChangePriority() error = %v", err)
	}
	if updated.Priority != domain.PriorityUrgent {
		t.Errorf("Priority = %d, want %d", updated.Priority, domain.PriorityUrgent)
	}
	descs := f.audit.descriptions(ticket.ID)
	last := descs[len(descs)-1]
	if !strings.Contains(last, "Medium") || !strings.Contains(last, "Urgent") {
		t.Errorf("audit entry %q, want Medium and Urgent labels", last)
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture()
	ticket := f.createTicket(t)

	if _, err := f.service.Resolve(ctx, ticket.ID, "   ", "Alice"); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Errorf("Resolve() with blank solution error = %v, want VALIDATION_FAILED", err)
	}

	updated, err := f.service.Resolve(ctx, ticket.ID, "Replaced the fuser", "Alice")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if updated.Status != domain.StatusResolved {
		t.Errorf("Status = %d, want %d", updated.Status, domain.StatusResolved)
	}
	descs := f.audit.descriptions(ticket.ID)
	if last := descs[len(descs)-1]; last != "Resolved: Replaced the fuser" {
		t.Errorf("audit entry = %q", last)
	}

	if _, err := f.service.Resolve(ctx, ticket.ID, "again", "Alice"); !apperrors.IsCode(err, "INVALID_STATE") {
		t.Errorf("Resolve() on resolved ticket error = %v, want INVALID_STATE", err)
	}
}

func TestAddComment(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture()
	ticket := f.createTicket(t)

	if _, err := f.service.AddComment(ctx, ticket.ID, " ", "Alice", true, domain.ChannelStaff); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Errorf("AddComment() with blank body error = %v, want VALIDATION_FAILED", err)
	}
	if _, err := f.service.AddComment(ctx, "missing", "hi", "Alice", true, domain.ChannelStaff); !apperrors.IsCode(err, "NOT_FOUND") {
		t.Errorf("AddComment() on missing ticket error = %v, want NOT_FOUND", err)
	}

	comment, err := f.service.AddComment(ctx, ticket.ID, "Looking into it", "Alice", true, domain.ChannelStaff)
	if err != nil {
		t.Fatalf("AddComment() error = %v", err)
	}
	if comment.ID == "" || !comment.FromStaff {
		t.Errorf("comment = %+v, want persisted staff comment", comment)
	}

	descs := f.audit.descriptions(ticket.ID)
	if last := descs[len(descs)-1]; last != "Comment added via staff channel" {
		t.Errorf("audit entry = %q", last)
	}
	if got := f.dispatcher.eventsOfType(events.EventTicketCommentAdded); len(got) != 1 {
		t.Errorf("comment events = %d, want 1", len(got))
	}

	thread, err := f.service.GetComments(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("GetComments() error = %v", err)
	}
	if len(thread) != 1 || thread[0].Body != "Looking into it" {
		t.Errorf("thread = %+v, want one comment", thread)
	}
}

func TestGetHistoryOrder(t *testing.T) {
	ctx := context.Background()
	f := newTicketFixture()
	ticket := f.createTicket(t)

	if _, err := f.service.ChangeStatus(ctx, ticket.ID, domain.StatusProcessing, "Alice"); err != nil {
		t.Fatal(err)
	}

	asc, err := f.service.GetHistory(ctx, ticket.ID, domain.AuditOrderAsc)
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	desc, err := f.service.GetHistory(ctx, ticket.ID, domain.AuditOrderDesc)
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(asc) != 2 || len(desc) != 2 {
		t.Fatalf("history lengths = %d/%d, want 2/2", len(asc), len(desc))
	}
	if asc[0].ID != desc[1].ID || asc[1].ID != desc[0].ID {
		t.Errorf("desc order is not the reverse of asc order")
	}

	if _, err := f.service.GetHistory(ctx, "missing", domain.AuditOrderAsc); !apperrors.IsCode(err, "NOT_FOUND") {
		t.Errorf("GetHistory() on missing ticket error = %v, want NOT_FOUND", err)
	}
}
