package domain

import (
	"errors"
	"fmt"
)

// Role is one of the fixed, closed set of portal roles.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleDoctor     Role = "doctor"
	RoleNurse      Role = "nurse"
	RolePatient    Role = "patient"
	RoleSuperAdmin Role = "superadmin"
)

var ErrInvalidRole = errors.New("invalid role")

// allRoles fixes the iteration order used by RoleSet.Roles and the tests
// that check the route table is total.
var allRoles = [...]Role{RoleAdmin, RoleDoctor, RoleNurse, RolePatient, RoleSuperAdmin}

// AllRoles returns every role in a stable order.
func AllRoles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles[:])
	return out
}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	for _, known := range allRoles {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRole converts a raw string into a Role. Matching is exact.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// RoleSet is an unordered set of roles. The zero value is the empty set,
// which guards treat as "any authenticated role".
type RoleSet map[Role]struct{}

// NewRoleSet builds a set from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// Contains reports whether r is in the set.
func (s RoleSet) Contains(r Role) bool {
	_, ok := s[r]
	return ok
}

// Empty reports whether the set restricts nothing.
func (s RoleSet) Empty() bool {
	return len(s) == 0
}

// Roles lists the members in AllRoles order.
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, len(s))
	for _, r := range allRoles {
		if s.Contains(r) {
			out = append(out, r)
		}
	}
	return out
}
