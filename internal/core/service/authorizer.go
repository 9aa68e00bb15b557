package service

import (
	"strings"

	"github.com/staffdesk/hr-identity/internal/core/domain"
)

// Authorizer is the authorization engine. Every call is a pure function of the
// identity snapshot, the request parameters and the override set fixed at construction.
//
// The reporting chain (ManagerID) is deliberately not consulted: a Senior gains no
// access to resources owned by its Junior reports.
type Authorizer struct {
	overrides domain.RoleSet
}

// NewAuthorizer builds an engine whose default ownership override set is overrides,
// or {CEO, HR} when none are given.
func NewAuthorizer(overrides ...domain.Role) *Authorizer {
	if len(overrides) == 0 {
		overrides = domain.DefaultOverrideRoles
	}
	return &Authorizer{overrides: domain.NewRoleSet(overrides...)}
}

// RequireRole allows iff identity's role is in allowed. Missing identities are
// rejected before role membership is considered.
func (a *Authorizer) RequireRole(identity *domain.User, allowed ...domain.Role) domain.Decision {
	if !authenticated(identity) {
		return domain.Deny(domain.ReasonUnauthenticated, "")
	}
	if domain.NewRoleSet(allowed...).Contains(identity.Role) {
		return domain.Allow()
	}
	return domain.Deny(domain.ReasonRoleNotPermitted, identity.Role)
}

// RequireOwnerOrRole allows override roles unconditionally and otherwise requires
// identity.ID to equal resourceOwnerID exactly. An empty owner id is a denial.
// With no overrides given the engine's default set applies.
func (a *Authorizer) RequireOwnerOrRole(identity *domain.User, resourceOwnerID string, overrides ...domain.Role) domain.Decision {
	if !authenticated(identity) {
		return domain.Deny(domain.ReasonUnauthenticated, "")
	}

	set := a.overrides
	if len(overrides) > 0 {
		set = domain.NewRoleSet(overrides...)
	}
	if set.Contains(identity.Role) {
		return domain.Allow()
	}

	owner := strings.TrimSpace(resourceOwnerID)
	if owner != "" && identity.ID == owner {
		return domain.Allow()
	}
	return domain.Deny(domain.ReasonNotResourceOwner, identity.Role)
}

func authenticated(identity *domain.User) bool {
	return identity != nil && identity.ID != ""
}
