package authz

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/hygienedash/internal/app/system/auth"
)


func TestUserCtx(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	role, name, ok := UserCtx(r)
	if ok || role != "visitor" || name != "" {
		t.Errorf("UserCtx(no user) = %q, %q, %v", role, name, ok)
	}

	r = auth.WithTestUser(r, &auth.SessionUser{Name: "Sarah Nakato", Role: "Manager"})
	role, name, ok = UserCtx(r)
	if !ok || role != "manager" || name != "Sarah Nakato" {
		t.Errorf("UserCtx = %q, %q, %v", role, name, ok)
	}
}

func TestRoleChecks(t *testing.T) {
	tests := []struct {
		role       string
		superAdmin bool
		canExport  bool
	}{
		{"viewer", false, false},
		{"manager", false, true},
		{"superadmin", true, true},
		{"SUPERADMIN", true, true},
		{"unknown", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			r := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{Role: tt.role})
			if got := IsSuperAdmin(r); got != tt.superAdmin {
				t.Errorf("IsSuperAdmin = %v, want %v", got, tt.superAdmin)
			}
			if got := CanExport(r); got != tt.canExport {
				t.Errorf("CanExport = %v, want %v", got, tt.canExport)
			}
		})
	}
}

func TestRoleChecks_NoUser(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	if IsSuperAdmin(r) || CanExport(r) || HasAnyRole(r, "viewer") {
		t.Error("anonymous request should have no roles")
	}
}
