package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/staffdesk/hr-identity/internal/api/metrics"
	"github.com/staffdesk/hr-identity/internal/core/domain"
	"github.com/staffdesk/hr-identity/internal/core/ports"
)

// RequireRole enforces role-based access control on an authenticated route.
func RequireRole(authz ports.Authorizer, allowed ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d := authz.RequireRole(Identity(c), allowed...)
			observe("role", d)
			if err := d.Err(); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// RequireOwnerOrRole admits the identity named by the path parameter param, or any
// identity holding one of overrides (the engine default when none are given).
func RequireOwnerOrRole(authz ports.Authorizer, param string, overrides ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d := authz.RequireOwnerOrRole(Identity(c), c.Param(param), overrides...)
			observe("owner", d)
			if err := d.Err(); err != nil {
				return err
			}
			return next(c)
		}
	}
}

func observe(mode string, d domain.Decision) {
	metrics.AuthorizationDecisionsTotal.WithLabelValues(mode, d.Reason.String()).Inc()
}
