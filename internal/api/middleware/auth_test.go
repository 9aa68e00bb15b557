package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/staffdesk/hr-identity/internal/core/domain"
)

type stubAuthenticator struct {
	resolveFn func(ctx context.Context, raw string) (*domain.User, error)
}

func (s *stubAuthenticator) Resolve(ctx context.Context, raw string) (*domain.User, error) {
	return s.resolveFn(ctx, raw)
}

func runAuth(t *testing.T, header string, authn *stubAuthenticator) (echo.Context, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	err := Auth(authn)(func(c echo.Context) error {
		called = true
		return nil
	})(c)
	return c, called, err
}

func TestAuth_ValidToken(t *testing.T) {
	authn := &stubAuthenticator{resolveFn: func(_ context.Context, raw string) (*domain.User, error) {
		if raw != "tok123" {
			t.Fatalf("unexpected token %q", raw)
		}
		return &domain.User{ID: "u1", Role: domain.RoleHR, IsActive: true}, nil
	}}

	c, called, err := runAuth(t, "bEaReR tok123", authn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if u := Identity(c); u == nil || u.ID != "u1" {
		t.Fatalf("identity not injected: %+v", u)
	}
}

func TestAuth_MissingHeaderDelegatesToAuthenticator(t *testing.T) {
	authn := &stubAuthenticator{resolveFn: func(_ context.Context, raw string) (*domain.User, error) {
		if raw != "" {
			t.Fatalf("expected empty token, got %q", raw)
		}
		return nil, &domain.AuthError{Reason: domain.ReasonMissingCredential}
	}}

	_, called, err := runAuth(t, "", authn)
	if called {
		t.Fatalf("next must not run")
	}
	if !errors.Is(err, domain.ErrMissingCredential) {
		t.Fatalf("expected missing credential, got %v", err)
	}
}

func TestAuth_BareBearerIsMissingCredential(t *testing.T) {
	authn := &stubAuthenticator{resolveFn: func(_ context.Context, raw string) (*domain.User, error) {
		if raw != "" {
			t.Fatalf("expected empty token, got %q", raw)
		}
		return nil, &domain.AuthError{Reason: domain.ReasonMissingCredential}
	}}

	for _, header := range []string{"Bearer", "Bearer   "} {
		_, called, err := runAuth(t, header, authn)
		if called {
			t.Fatalf("%q: next must not run", header)
		}
		if !errors.Is(err, domain.ErrMissingCredential) {
			t.Fatalf("%q: expected missing credential, got %v", header, err)
		}
	}
}

func TestAuth_WrongScheme(t *testing.T) {
	authn := &stubAuthenticator{resolveFn: func(context.Context, string) (*domain.User, error) {
		t.Fatalf("authenticator must not be called")
		return nil, nil
	}}

	_, called, err := runAuth(t, "Token abc", authn)
	if called {
		t.Fatalf("next must not run")
	}
	if !errors.Is(err, domain.ErrTokenRejected) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestAuth_DeactivatedPassesReasonThrough(t *testing.T) {
	authn := &stubAuthenticator{resolveFn: func(context.Context, string) (*domain.User, error) {
		return nil, &domain.AuthError{Reason: domain.ReasonAccountDeactivated}
	}}

	_, _, err := runAuth(t, "Bearer tok", authn)
	if !errors.Is(err, domain.ErrAccountDeactivated) {
		t.Fatalf("expected deactivated, got %v", err)
	}
}

func TestAuth_StoreFaultIsNotAuthError(t *testing.T) {
	fault := errors.New("connection reset")
	authn := &stubAuthenticator{resolveFn: func(context.Context, string) (*domain.User, error) {
		return nil, fault
	}}

	_, called, err := runAuth(t, "Bearer tok", authn)
	if called {
		t.Fatalf("next must not run on store fault")
	}
	if !errors.Is(err, fault) {
		t.Fatalf("expected wrapped fault, got %v", err)
	}
	if _, ok := domain.ReasonOf(err); ok {
		t.Fatalf("store fault must not look like an auth denial")
	}
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer   abc ", "abc", true},
		{"", "", true},
		{"Basic abc", "", false},
		{"Bearer", "", true},
		{"bearer    ", "", true},
	}
	for _, tc := range cases {
		token, ok := bearerToken(tc.header)
		if token != tc.token || ok != tc.ok {
			t.Fatalf("bearerToken(%q) = (%q, %v), want (%q, %v)", tc.header, token, ok, tc.token, tc.ok)
		}
	}
}
