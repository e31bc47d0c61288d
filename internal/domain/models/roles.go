// internal/domain/models/roles.go
package models

import "strings"

// Role is a dashboard role option for the UI.
type Role struct {
	Value string // The value sent to the upstream API
	Label string // The display label in the UI
}

// AllRoles contains every role a dashboard account can hold.
var AllRoles = []Role{
	{Value: "viewer", Label: "Viewer"},
	{Value: "manager", Label: "Manager"},
	{Value: "superadmin", Label: "Super Admin"},
}

// DefaultRole is assigned when the registration form leaves role blank.
const DefaultRole = "viewer"

// IsValidRole reports whether value names a known role (case-insensitive).
func IsValidRole(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, r := range AllRoles {
		if r.Value == v {
			return true
		}
	}
	return false
}

// RoleLabel returns the display label for value, or value itself when unknown.
func RoleLabel(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, r := range AllRoles {
		if r.Value == v {
			return r.Label
		}
	}
	return value
}
