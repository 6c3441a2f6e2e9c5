package domain

import (
	"slices"
	"strings"
)

// Role is a permission tag attached to a user.
type Role string

const (
	RoleMember    Role = "member"
	RoleClubAdmin Role = "clubAdmin"
	RoleEditor    Role = "editor"
	RoleOrgAdmin  Role = "orgAdmin"
)

var knownRoles = []Role{RoleMember, RoleClubAdmin, RoleEditor, RoleOrgAdmin}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return slices.Contains(knownRoles, r)
}

// Roles is a set of role tags kept sorted and without duplicates.
type Roles []Role

// DefaultRoles is the role set assigned at registration.
func DefaultRoles() Roles {
	return Roles{RoleMember}
}

// NewRoles builds a canonical role set. It fails if the set is empty or holds an
// unknown role.
func NewRoles(rs ...Role) (Roles, error) {
	if len(rs) == 0 {
		return nil, Invalid("at least one role is required")
	}
	out := make(Roles, 0, len(rs))
	for _, r := range rs {
		if !r.Valid() {
			return nil, Invalid("unknown role %q", r)
		}
		if !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	slices.Sort(out)
	return out, nil
}

// ParseRoles decodes the comma-separated form produced by Roles.String.
func ParseRoles(s string) (Roles, error) {
	var rs []Role
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			rs = append(rs, Role(part))
		}
	}
	return NewRoles(rs...)
}

// Has reports whether the set contains r.
func (rs Roles) Has(r Role) bool {
	return slices.Contains(rs, r)
}

// Intersects reports whether the set shares at least one role with accepted.
func (rs Roles) Intersects(accepted ...Role) bool {
	for _, r := range accepted {
		if rs.Has(r) {
			return true
		}
	}
	return false
}

func (rs Roles) String() string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}
