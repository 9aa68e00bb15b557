package domain

import (
	"fmt"
	"strings"
)

// Role is one of the fixed organizational roles. Exactly one role is held per identity.
type Role string

const (
	RoleCEO    Role = "CEO"
	RoleHR     Role = "HR"
	RoleSenior Role = "Senior"
	RoleJunior Role = "Junior"
)

// Roles lists every valid role in descending order of seniority.
var Roles = []Role{RoleCEO, RoleHR, RoleSenior, RoleJunior}

// DefaultOverrideRoles bypass resource ownership checks.
var DefaultOverrideRoles = []Role{RoleCEO, RoleHR}

// ParseRole accepts a role name case-insensitively and returns its canonical form.
// Unknown names fail with ErrInvalidRole.
func ParseRole(s string) (Role, error) {
	trimmed := strings.TrimSpace(s)
	for _, r := range Roles {
		if strings.EqualFold(trimmed, string(r)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// IsValid reports whether r belongs to the closed role set.
func (r Role) IsValid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

func (r Role) String() string { return string(r) }

// UnmarshalText rejects unknown role names at deserialization time.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalText encodes the zero Role as "" and refuses any other unknown name.
func (r Role) MarshalText() ([]byte, error) {
	if r == "" {
		return []byte{}, nil
	}
	if !r.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, string(r))
	}
	return []byte(r), nil
}

// RoleSet is an immutable membership set of roles.
type RoleSet struct {
	members map[Role]struct{}
}

// NewRoleSet builds a set from roles; invalid roles are dropped so they can never match.
func NewRoleSet(roles ...Role) RoleSet {
	members := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		if r.IsValid() {
			members[r] = struct{}{}
		}
	}
	return RoleSet{members: members}
}

// Contains reports membership. The zero RoleSet contains nothing.
func (s RoleSet) Contains(r Role) bool {
	_, ok := s.members[r]
	return ok
}
