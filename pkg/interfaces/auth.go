package interfaces

import "strings"

// User is the authenticated-user descriptor carried on a render context.
// Authentication and session mechanics live in the host application; the
// engine only reads identity and role membership for visibility rules.
type User struct {
	ID    string
	Email string
	Roles []string
}

// HasRole reports whether the user carries the given role. Comparison is
// case-insensitive to match how role names arrive from config files.
func (u *User) HasRole(role string) bool {
	if u == nil {
		return false
	}
	for _, candidate := range u.Roles {
		if strings.EqualFold(candidate, role) {
			return true
		}
	}
	return false
}
