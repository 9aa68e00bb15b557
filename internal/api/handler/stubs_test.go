package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/staffdesk/hr-identity/internal/api/middleware"
	"github.com/staffdesk/hr-identity/internal/core/domain"
)

type stubAuthService struct {
	registerFn       func(ctx context.Context, p domain.NewUserParams) (*domain.User, error)
	loginFn          func(ctx context.Context, email, password string) (string, *domain.User, error)
	changePasswordFn func(ctx context.Context, id, current, next string) error
	setActiveFn      func(ctx context.Context, id string, active bool) (*domain.User, error)
	getUserFn        func(ctx context.Context, id string) (*domain.User, error)
	listReportsFn    func(ctx context.Context, managerID string) ([]*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, p domain.NewUserParams) (*domain.User, error) {
	return s.registerFn(ctx, p)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, id, current, next string) error {
	return s.changePasswordFn(ctx, id, current, next)
}

func (s *stubAuthService) SetActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	return s.setActiveFn(ctx, id, active)
}

func (s *stubAuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getUserFn(ctx, id)
}

func (s *stubAuthService) ListReports(ctx context.Context, managerID string) ([]*domain.User, error) {
	return s.listReportsFn(ctx, managerID)
}

type stubRecorder struct {
	mu      sync.Mutex
	entries []domain.ActivityEntry
}

func (r *stubRecorder) Record(_ context.Context, e domain.ActivityEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

// newTestContext builds a JSON request context with the validator installed and,
// when identity is non-nil, the identity injected as the Auth middleware would.
func newTestContext(method, target, body string, identity *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("User-Agent", "handler-test")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity != nil {
		c.Set(middleware.IdentityKey, identity)
	}
	return c, rec
}
