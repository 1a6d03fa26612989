package service

import (
	"context"
	"testing"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

func newAuthFixture() (*AuthService, *fakeTenantRepo, *fakeStaffRepo) {
	tenants := newFakeTenantRepo()
	staff := newFakeStaffRepo(newFakeTicketRepo())
	svc := NewAuthService(testConfig(), AuthDependencies{TenantRepo: tenants, StaffRepo: staff})
	return svc, tenants, staff
}

func TestTenantRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthFixture()

	tenant, err := svc.RegisterTenant(ctx, "Acme", "acme@example.com", "secret")
	if err != nil {
		t.Fatalf("RegisterTenant() error = %v", err)
	}
	if tenant.Status != domain.TenantStatusActive {
		t.Errorf("Status = %s, want ACTIVE", tenant.Status)
	}
	if tenant.PasswordHash == "secret" {
		t.Error("password stored in clear")
	}

	result, err := svc.LoginTenant(ctx, "acme@example.com", "secret")
	if err != nil {
		t.Fatalf("LoginTenant() error = %v", err)
	}
	if result.Token == "" || result.ExpiresAt.IsZero() {
		t.Errorf("login result = %+v, want token and expiry", result)
	}

	claims, err := svc.TokenManager().ParseToken(result.Token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.SubjectID != tenant.ID || claims.Subject != domain.SubjectTypeTenant {
		t.Errorf("claims = %+v, want tenant subject %s", claims, tenant.ID)
	}
}

func TestLoginTenantRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthFixture()

	if _, err := svc.RegisterTenant(ctx, "Acme", "acme@example.com", "secret"); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.LoginTenant(ctx, "acme@example.com", "wrong"); !apperrors.IsCode(err, "UNAUTHORIZED") {
		t.Errorf("wrong password error = %v, want UNAUTHORIZED", err)
	}
	if _, err := svc.LoginTenant(ctx, "nobody@example.com", "secret"); !apperrors.IsCode(err, "UNAUTHORIZED") {
		t.Errorf("unknown email error = %v, want UNAUTHORIZED", err)
	}
}

func TestLoginStaffRejectsInactive(t *testing.T) {
	ctx := context.Background()
	svc, _, staffRepo := newAuthFixture()

	staffSvc := NewStaffService(testConfig(), staffRepo)
	member, err := staffSvc.CreateStaffMember(ctx, StaffCreateInput{
		Name: "Alice", Email: "alice@example.com", Password: "secret", MaxOpenTickets: 3,
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.LoginStaff(ctx, "alice@example.com", "secret"); err != nil {
		t.Fatalf("LoginStaff() error = %v", err)
	}

	if _, err := staffSvc.SetActive(ctx, member.ID, false); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.LoginStaff(ctx, "alice@example.com", "secret"); !apperrors.IsCode(err, "UNAUTHORIZED") {
		t.Errorf("inactive staff login error = %v, want UNAUTHORIZED", err)
	}
}
