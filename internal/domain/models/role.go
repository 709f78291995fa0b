// internal/domain/models/role.go
package models

import "strings"

// Role is the closed set of roles a learnboard user can hold.
type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleMentor     Role = "MENTOR"
	RoleInstructor Role = "INSTRUCTOR"
)

// ParseRole normalizes s into a Role. Unknown values come back as the
// empty Role, which is not Valid.
func ParseRole(s string) Role {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleStudent:
		return RoleStudent
	case RoleMentor:
		return RoleMentor
	case RoleInstructor:
		return RoleInstructor
	default:
		return ""
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleMentor, RoleInstructor:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }
