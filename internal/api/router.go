package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/sirpyerre/appointment-scheduler/internal/api/handler"
	"github.com/sirpyerre/appointment-scheduler/internal/api/middleware"
	"github.com/sirpyerre/appointment-scheduler/internal/core/domain"
	"github.com/sirpyerre/appointment-scheduler/internal/core/ports"
)

// Dependencies are the services and settings the router wires into handlers.
type Dependencies struct {
	Appointments ports.AppointmentService
	Audit        ports.AuditService
	Users        ports.UserService
	Auth         ports.AuthService

	// Checks are run by GET /health/ready, keyed by dependency name.
	Checks map[string]handler.DependencyCheck

	JWTSecret      string
	RateLimitRPS   float64
	RateLimitBurst int
	Log            zerolog.Logger

	// Registerer receives the HTTP metrics. Defaults to the global registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "scheduler",
		Registerer: deps.Registerer,
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users)
	appointmentHandler := handler.NewAppointmentHandler(deps.Appointments, deps.Audit)
	authMiddleware := middleware.Auth(deps.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	rateLimit := middleware.RateLimit(deps.RateLimitRPS, deps.RateLimitBurst)

	apiGroup := e.Group("/api")

	// --- Auth routes ---
	apiGroup.POST("/auth/login", authHandler.Login, rateLimit)

	// --- User routes ---
	users := apiGroup.Group("/users")
	users.POST("", userHandler.Create, rateLimit, middleware.OptionalAuth(deps.JWTSecret))
	users.GET("", userHandler.List, authMiddleware, adminOnly)
	users.GET("/:id", userHandler.Get, authMiddleware)
	users.PUT("/:id", userHandler.Update, authMiddleware)
	users.DELETE("/:id", userHandler.Delete, authMiddleware)

	// --- Appointment routes ---
	appointments := apiGroup.Group("/appointments", authMiddleware)
	appointments.GET("", appointmentHandler.List)
	appointments.GET("/calendar", appointmentHandler.Calendar)
	appointments.POST("/availability", appointmentHandler.Availability)
	appointments.GET("/:id", appointmentHandler.Get)
	appointments.GET("/:id/history", appointmentHandler.History, adminOnly)
	appointments.POST("/:userId", appointmentHandler.Create)
	appointments.PUT("/:id", appointmentHandler.Update)
	appointments.DELETE("/:id", appointmentHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness) // pings every configured backing store

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger emits one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
