package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/staffdesk/hr-identity/internal/api/metrics"
	"github.com/staffdesk/hr-identity/internal/core/domain"
	"github.com/staffdesk/hr-identity/internal/core/ports"
)

// AuthHandler serves login and self-service account routes.
type AuthHandler struct {
	authService ports.AuthService
	activity    ports.ActivityRecorder
}

// NewAuthHandler builds an AuthHandler. activity may be nil.
func NewAuthHandler(authService ports.AuthService, activity ports.ActivityRecorder) *AuthHandler {
	return &AuthHandler{authService: authService, activity: activity}
}

// Login authenticates a user and returns a signed token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		result := loginResult(err)
		metrics.LoginsTotal.WithLabelValues(result).Inc()
		status := domain.ActivityFailed
		if result == "throttled" {
			status = domain.ActivityWarning
		}
		recordActivity(c, h.activity, domain.ActivityEntry{
			Action:  "Login",
			Details: "failed login for " + domain.NormalizeEmail(req.Email) + ": " + err.Error(),
			Status:  status,
		})
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	recordActivity(c, h.activity, domain.ActivityEntry{
		UserID:  user.ID,
		Action:  "Login",
		Details: "user logged in",
		Status:  domain.ActivitySuccess,
	})
	return c.JSON(http.StatusOK, loginResponse{Token: token, User: user})
}

// Me returns the authenticated identity.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// ChangePassword replaces the caller's password.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/password [put]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ChangePassword(c.Request().Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		recordActivity(c, h.activity, domain.ActivityEntry{
			UserID:  user.ID,
			Action:  "ChangePassword",
			Details: err.Error(),
			Status:  domain.ActivityFailed,
		})
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusBadRequest, "current password is incorrect")
		}
		return err
	}

	recordActivity(c, h.activity, domain.ActivityEntry{
		UserID:  user.ID,
		Action:  "ChangePassword",
		Details: "password changed",
		Status:  domain.ActivitySuccess,
	})
	return c.JSON(http.StatusOK, messageResponse{Message: "password updated"})
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrAccountDeactivated):
		return "deactivated"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "throttled"
	default:
		return "error"
	}
}
