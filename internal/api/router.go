package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/staffdesk/hr-identity/internal/api/handler"
	"github.com/staffdesk/hr-identity/internal/api/middleware"
	"github.com/staffdesk/hr-identity/internal/core/domain"
	"github.com/staffdesk/hr-identity/internal/core/ports"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	AuthService   ports.AuthService
	Authenticator ports.Authenticator
	Authorizer    ports.Authorizer
	// Activity may be nil, in which case nothing is audited.
	Activity ports.ActivityRecorder

	// Mongo and Redis are only used by the readiness probe; nil means disabled.
	Mongo *mongo.Database
	Redis *redis.Client

	// Registry receives the HTTP request metrics and backs /metrics.
	// Nil selects the prometheus default registry.
	Registry *prometheus.Registry

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "hr_identity",
		Subsystem:  "http",
		Registerer: registerer,
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.AuthService, d.Activity)
	userHandler := handler.NewUserHandler(d.AuthService, d.Activity)
	authn := middleware.Auth(d.Authenticator)
	privileged := middleware.RequireRole(d.Authorizer, domain.DefaultOverrideRoles...)
	ownerOrPrivileged := middleware.RequireOwnerOrRole(d.Authorizer, "id")

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)

	me := e.Group("/auth", authn)
	me.GET("/me", authHandler.Me)
	me.PUT("/password", authHandler.ChangePassword)

	// --- User administration ---
	users := e.Group("/users", authn)
	users.POST("", userHandler.Create, privileged)
	users.GET("/:id", userHandler.Get, ownerOrPrivileged)
	users.GET("/:id/reports", userHandler.Reports, ownerOrPrivileged)
	users.PATCH("/:id/deactivate", userHandler.Deactivate, privileged)
	users.PATCH("/:id/activate", userHandler.Activate, privileged)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))

	return e
}

// requestLogger emits one structured access log line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
