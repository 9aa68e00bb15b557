package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// DenyReason is the machine-readable cause of an authentication or authorization failure.
type DenyReason int

const (
	// ReasonNone accompanies an allowed decision.
	ReasonNone DenyReason = iota

	// ReasonMissingCredential means no token was presented.
	ReasonMissingCredential

	// ReasonInvalidToken covers malformed, forged and expired tokens as well as
	// tokens bound to identities that no longer exist.
	ReasonInvalidToken

	// ReasonAccountDeactivated means the bound identity has been switched off.
	ReasonAccountDeactivated

	// ReasonUnauthenticated means an authorization check ran without an identity.
	ReasonUnauthenticated

	// ReasonRoleNotPermitted means the identity's role is outside the allow-list.
	ReasonRoleNotPermitted

	// ReasonNotResourceOwner means the identity neither owns the resource nor holds
	// an override role.
	ReasonNotResourceOwner
)

var reasonCodes = map[DenyReason]string{
	ReasonNone:               "allowed",
	ReasonMissingCredential:  "missing_credential",
	ReasonInvalidToken:       "invalid_token",
	ReasonAccountDeactivated: "account_deactivated",
	ReasonUnauthenticated:    "unauthenticated",
	ReasonRoleNotPermitted:   "role_not_permitted",
	ReasonNotResourceOwner:   "not_resource_owner",
}

// String returns the stable snake_case code, suitable for metrics labels and API payloads.
func (r DenyReason) String() string {
	if code, ok := reasonCodes[r]; ok {
		return code
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// Status maps the reason onto the transport contract: identity problems are 401,
// permission problems are 403.
func (r DenyReason) Status() int {
	switch r {
	case ReasonNone:
		return http.StatusOK
	case ReasonRoleNotPermitted, ReasonNotResourceOwner:
		return http.StatusForbidden
	default:
		return http.StatusUnauthorized
	}
}

// AuthError is the typed failure returned by the Authenticator and Authorizer.
type AuthError struct {
	Reason DenyReason
	// Role is set for ReasonRoleNotPermitted.
	Role Role
}

func (e *AuthError) Error() string {
	switch e.Reason {
	case ReasonMissingCredential:
		return "access denied: no token provided"
	case ReasonInvalidToken:
		return "invalid token"
	case ReasonAccountDeactivated:
		return "account is deactivated"
	case ReasonUnauthenticated:
		return "access denied: not authenticated"
	case ReasonRoleNotPermitted:
		return fmt.Sprintf("access denied: %s role is not authorized", e.Role)
	case ReasonNotResourceOwner:
		return "access denied: you can only access your own resources"
	default:
		return "access denied"
	}
}

// Is matches any *AuthError carrying the same reason, so errors.Is(err, ErrNotResourceOwner) works.
func (e *AuthError) Is(target error) bool {
	var other *AuthError
	if !errors.As(target, &other) {
		return false
	}
	return other.Reason == e.Reason
}

// Sentinels for errors.Is comparisons.
var (
	ErrMissingCredential  = &AuthError{Reason: ReasonMissingCredential}
	ErrTokenRejected      = &AuthError{Reason: ReasonInvalidToken}
	ErrAccountDeactivated = &AuthError{Reason: ReasonAccountDeactivated}
	ErrUnauthenticated    = &AuthError{Reason: ReasonUnauthenticated}
	ErrRoleNotPermitted   = &AuthError{Reason: ReasonRoleNotPermitted}
	ErrNotResourceOwner   = &AuthError{Reason: ReasonNotResourceOwner}
)

// ReasonOf extracts the deny reason from err, reporting false for non-auth errors.
func ReasonOf(err error) (DenyReason, bool) {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Reason, true
	}
	return ReasonNone, false
}

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  DenyReason
	Role    Role
}

// Allow is the single allowed outcome.
func Allow() Decision {
	return Decision{Allowed: true, Reason: ReasonNone}
}

// Deny builds a denied decision. A ReasonNone deny is coerced to Unauthenticated
// so a denial can never look like an allow.
func Deny(reason DenyReason, role Role) Decision {
	if reason == ReasonNone {
		reason = ReasonUnauthenticated
	}
	return Decision{Allowed: false, Reason: reason, Role: role}
}

// Err returns nil for allowed decisions and an *AuthError otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &AuthError{Reason: d.Reason, Role: d.Role}
}
