package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestDenyReason_Status(t *testing.T) {
	unauthorized := []DenyReason{ReasonMissingCredential, ReasonInvalidToken, ReasonAccountDeactivated, ReasonUnauthenticated}
	for _, r := range unauthorized {
		if r.Status() != http.StatusUnauthorized {
			t.Fatalf("%s should map to 401", r)
		}
	}
	for _, r := range []DenyReason{ReasonRoleNotPermitted, ReasonNotResourceOwner} {
		if r.Status() != http.StatusForbidden {
			t.Fatalf("%s should map to 403", r)
		}
	}
}

func TestAuthError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &AuthError{Reason: ReasonRoleNotPermitted, Role: RoleJunior})
	if !errors.Is(err, ErrRoleNotPermitted) {
		t.Fatalf("expected match on reason")
	}
	if errors.Is(err, ErrNotResourceOwner) {
		t.Fatalf("different reasons must not match")
	}
	if reason, ok := ReasonOf(err); !ok || reason != ReasonRoleNotPermitted {
		t.Fatalf("ReasonOf = %v, %v", reason, ok)
	}
	if _, ok := ReasonOf(errors.New("plain")); ok {
		t.Fatalf("plain errors carry no reason")
	}
	if msg := err.Error(); msg != "wrapped: access denied: Junior role is not authorized" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestDecision(t *testing.T) {
	if Allow().Err() != nil {
		t.Fatalf("allow must not produce an error")
	}
	d := Deny(ReasonNone, "")
	if d.Allowed || d.Reason != ReasonUnauthenticated {
		t.Fatalf("deny without reason must still deny: %+v", d)
	}
	var zero Decision
	if zero.Err() == nil {
		t.Fatalf("zero decision must fail closed")
	}
	if !errors.Is(Deny(ReasonNotResourceOwner, RoleSenior).Err(), ErrNotResourceOwner) {
		t.Fatalf("decision error should carry its reason")
	}
}
