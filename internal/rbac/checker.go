package rbac

import (
	"context"
	"strings"
)

// Checker answers "may this role do this?" against a role-to-permission
// table. A nil table falls back to the portal defaults in rules.go.
type Checker struct {
	RolePermissions map[string][]string
}

func NewChecker(rp map[string][]string) *Checker {
	if rp == nil {
		rp = RolePermissions
	}
	return &Checker{RolePermissions: rp}
}

// Has reports whether role is granted perm, either literally or through a
// wildcard grant ("*" or a "quiz:*" style prefix). Unknown roles hold
// nothing.
func (c *Checker) Has(role, perm string) bool {
	for _, granted := range c.RolePermissions[role] {
		if permMatches(granted, perm) {
			return true
		}
	}
	return false
}

// Any reports whether role holds at least one of perms.
func (c *Checker) Any(role string, perms ...string) bool {
	for _, p := range perms {
		if c.Has(role, p) {
			return true
		}
	}
	return false
}

// All reports whether role holds every one of perms.
func (c *Checker) All(role string, perms ...string) bool {
	for _, p := range perms {
		if !c.Has(role, p) {
			return false
		}
	}
	return true
}

func permMatches(granted, want string) bool {
	switch {
	case granted == "*" || granted == want:
		return true
	case strings.HasSuffix(granted, "*"):
		return strings.HasPrefix(want, granted[:len(granted)-1])
	}
	return false
}

type roleKey struct{}

// WithRole stores the caller's resolved role on the context for the
// permission middleware further down the chain.
func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey{}, role)
}

// RoleFromContext returns the role set by WithRole, or "" when absent.
func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(roleKey{}).(string)
	return role
}
