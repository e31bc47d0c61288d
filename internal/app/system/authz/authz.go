// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/hygienedash/internal/app/system/auth"
)

// Role values stored in the session.
const (
	RoleViewer     = "viewer"
	RoleManager    = "manager"
	RoleSuperAdmin = "superadmin"
)

// UserCtx returns the user's role (lowercased), name, and a found flag.
// If no user is present in context it returns "visitor", "", false.
func UserCtx(r *http.Request) (role string, name string, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", false
	}
	return strings.ToLower(user.Role), user.Name, true
}

// HasAnyRole reports whether the current request's user has any of the given roles.
// Returns false if no user is present (i.e., not signed in).
func HasAnyRole(r *http.Request, roles ...string) bool {
	role, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if role == strings.ToLower(strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

// IsSuperAdmin reports whether the current request's user is a superadmin.
func IsSuperAdmin(r *http.Request) bool {
	return HasAnyRole(r, RoleSuperAdmin)
}

// CanExport reports whether the export buttons are shown. This is a display
// rule only; the export routes require sign-in and nothing more.
func CanExport(r *http.Request) bool {
	return HasAnyRole(r, RoleManager, RoleSuperAdmin)
}
