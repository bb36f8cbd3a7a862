// Package authz holds the single authorization decision point. Handlers and
// services never compare roles themselves; they ask the Guard.
package authz

import "github.com/skymanifest/passenger-admin/internal/core/domain"

// Guard decides whether a principal may perform an action on a resource owned
// by ownerID. It holds no per-request state and is safe for concurrent use.
type Guard struct {
	onDeny func(domain.Resource, domain.Action)
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithDenyHook registers fn to be called for every denial returned by Authorize.
func WithDenyHook(fn func(domain.Resource, domain.Action)) GuardOption {
	return func(g *Guard) { g.onDeny = fn }
}

func NewGuard(opts ...GuardOption) *Guard {
	g := &Guard{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CanAccess applies the rule set in order; the first matching rule decides.
func (g *Guard) CanAccess(p domain.Principal, resource domain.Resource, ownerID string, action domain.Action) bool {
	if p.ID == "" || !p.Role.Valid() {
		return false
	}

	// An account can never delete itself, whatever its role.
	if resource == domain.ResourceUser && action == domain.ActionDelete && ownerID == p.ID {
		return false
	}

	if p.Role == domain.RoleAdmin {
		return true
	}

	// User management is reserved for ADMIN; others may only read their own record.
	if resource == domain.ResourceUser {
		return action == domain.ActionRead && ownerID == p.ID
	}

	switch p.Role {
	case domain.RoleManager:
		return resource == domain.ResourcePassenger
	case domain.RoleUser:
		return ownerID != "" && ownerID == p.ID
	}
	return false
}

// Authorize is CanAccess expressed as an error: nil or domain.ErrForbidden.
func (g *Guard) Authorize(p domain.Principal, resource domain.Resource, ownerID string, action domain.Action) error {
	if !g.CanAccess(p, resource, ownerID, action) {
		if g.onDeny != nil {
			g.onDeny(resource, action)
		}
		return domain.ErrForbidden
	}
	return nil
}

// ListScope returns the owner filter collection queries must apply for p.
// ADMIN and MANAGER see every record (""); USER sees only its own.
func (g *Guard) ListScope(p domain.Principal) string {
	switch p.Role {
	case domain.RoleAdmin, domain.RoleManager:
		return ""
	default:
		return p.ID
	}
}
