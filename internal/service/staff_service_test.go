package service

import (
	"context"
	"testing"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

func testConfig() config.Config {
	return config.Config{Auth: config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 5,
		BcryptCost:            4,
	}}
}

func newStaffService() (*StaffService, *fakeStaffRepo) {
	repo := newFakeStaffRepo(newFakeTicketRepo())
	return NewStaffService(testConfig(), repo), repo
}

func TestCreateStaffMember(t *testing.T) {
	ctx := context.Background()
	svc, _ := newStaffService()

	member, err := svc.CreateStaffMember(ctx, StaffCreateInput{
		Name:           "Alice",
		Email:          "alice@example.com",
		Password:       "secret",
		MaxOpenTickets: 5,
	})
	if err != nil {
		t.Fatalf("CreateStaffMember() error = %v", err)
	}
	if member.Role != domain.StaffRoleAgent {
		t.Errorf("Role = %s, want default AGENT", member.Role)
	}
	if !member.Active {
		t.Error("new member should start active")
	}
	if member.PasswordHash == "" || member.PasswordHash == "secret" {
		t.Error("password not hashed")
	}
}

func TestCreateStaffMemberValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newStaffService()

	tests := []struct {
		name  string
		input StaffCreateInput
	}{
		{"missing name", StaffCreateInput{Email: "a@b.c", Password: "x"}},
		{"missing email", StaffCreateInput{Name: "Alice", Password: "x"}},
		{"missing password", StaffCreateInput{Name: "Alice", Email: "a@b.c"}},
		{"negative capacity", StaffCreateInput{Name: "Alice", Email: "a@b.c", Password: "x", MaxOpenTickets: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateStaffMember(ctx, tt.input); !apperrors.IsCode(err, "VALIDATION_FAILED") {
				t.Errorf("error = %v, want VALIDATION_FAILED", err)
			}
		})
	}
}

func TestSetCapacityAndActive(t *testing.T) {
	ctx := context.Background()
	svc, _ := newStaffService()

	member, err := svc.CreateStaffMember(ctx, StaffCreateInput{
		Name: "Alice", Email: "alice@example.com", Password: "secret", MaxOpenTickets: 5,
	})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := svc.SetCapacity(ctx, member.ID, 2)
	if err != nil {
		t.Fatalf("SetCapacity() error = %v", err)
	}
	if updated.MaxOpenTickets != 2 {
		t.Errorf("MaxOpenTickets = %d, want 2", updated.MaxOpenTickets)
	}
	if _, err := svc.SetCapacity(ctx, member.ID, -1); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Errorf("SetCapacity(-1) error = %v, want VALIDATION_FAILED", err)
	}

	updated, err = svc.SetActive(ctx, member.ID, false)
	if err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}
	if updated.Active {
		t.Error("member still active after SetActive(false)")
	}

	if _, err := svc.SetActive(ctx, "missing", true); !apperrors.IsCode(err, "NOT_FOUND") {
		t.Errorf("SetActive() on missing member error = %v, want NOT_FOUND", err)
	}
}

func TestListStaffActiveOnly(t *testing.T) {
	ctx := context.Background()
	svc, _ := newStaffService()

	for _, spec := range []struct {
		email  string
		active bool
	}{
		{"a@example.com", true},
		{"b@example.com", false},
	} {
		member, err := svc.CreateStaffMember(ctx, StaffCreateInput{
			Name: "M", Email: spec.email, Password: "x", MaxOpenTickets: 3,
		})
		if err != nil {
			t.Fatal(err)
		}
		if !spec.active {
			if _, err := svc.SetActive(ctx, member.ID, false); err != nil {
				t.Fatal(err)
			}
		}
	}

	all, err := svc.ListStaff(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	active, err := svc.ListStaff(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || len(active) != 1 {
		t.Errorf("all=%d active=%d, want 2/1", len(all), len(active))
	}
}
