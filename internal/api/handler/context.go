package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/staffdesk/hr-identity/internal/api/middleware"
	"github.com/staffdesk/hr-identity/internal/core/domain"
	"github.com/staffdesk/hr-identity/internal/core/ports"
)

// currentUser returns the identity injected by the Auth middleware. A route that
// reaches a handler without one was wired without the middleware; fail closed.
func currentUser(c echo.Context) (*domain.User, error) {
	user := middleware.Identity(c)
	if user == nil || user.ID == "" {
		return nil, &domain.AuthError{Reason: domain.ReasonUnauthenticated}
	}
	return user, nil
}

// recordActivity hands an audit entry to the recorder, if one is configured.
// Recording failures never fail the request.
func recordActivity(c echo.Context, rec ports.ActivityRecorder, entry domain.ActivityEntry) {
	if rec == nil {
		return
	}
	entry.Module = domain.ActivityModuleAuth
	entry.IPAddress = c.RealIP()
	entry.UserAgent = c.Request().UserAgent()
	_ = rec.Record(c.Request().Context(), entry)
}
