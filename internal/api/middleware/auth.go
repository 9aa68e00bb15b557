package middleware

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/staffdesk/hr-identity/internal/api/metrics"
	"github.com/staffdesk/hr-identity/internal/core/domain"
	"github.com/staffdesk/hr-identity/internal/core/ports"
)

// IdentityKey is the echo context key holding the resolved *domain.User.
const IdentityKey = "identity"

// Auth resolves the bearer token through authn and injects the identity into context.
// Failures are returned as *domain.AuthError so the error handler picks the status.
func Auth(authn ports.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.AuthenticationsTotal.WithLabelValues(domain.ReasonInvalidToken.String()).Inc()
				return &domain.AuthError{Reason: domain.ReasonInvalidToken}
			}

			user, err := authn.Resolve(c.Request().Context(), raw)
			if err != nil {
				if reason, isAuth := domain.ReasonOf(err); isAuth {
					metrics.AuthenticationsTotal.WithLabelValues(reason.String()).Inc()
					return err
				}
				metrics.AuthenticationsTotal.WithLabelValues("error").Inc()
				return fmt.Errorf("authenticate request: %w", err)
			}

			metrics.AuthenticationsTotal.WithLabelValues(domain.ReasonNone.String()).Inc()
			c.Set(IdentityKey, user)
			return next(c)
		}
	}
}

// Identity returns the identity injected by Auth, or nil.
func Identity(c echo.Context) *domain.User {
	user, _ := c.Get(IdentityKey).(*domain.User)
	return user
}

// bearerToken extracts the token from an Authorization header. An empty header or
// a bare Bearer scheme yields ("", true) so the authenticator reports a missing
// credential; any other scheme is rejected.
func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", true
	}
	scheme, token, _ := strings.Cut(header, " ")
	if !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	return strings.TrimSpace(token), true
}
