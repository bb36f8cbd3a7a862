package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/skymanifest/passenger-admin/docs"
	"github.com/skymanifest/passenger-admin/internal/api/handler"
	"github.com/skymanifest/passenger-admin/internal/api/middleware"
	"github.com/skymanifest/passenger-admin/internal/core/authz"
	"github.com/skymanifest/passenger-admin/internal/core/ports"
)

const metricsSubsystem = "passenger_admin"

// Dependencies is everything the HTTP layer needs. It is assembled once in
// cmd/server and by the router tests.
type Dependencies struct {
	Logger zerolog.Logger

	Tokens middleware.TokenVerifier
	Cookie middleware.TokenCookie
	Guard  *authz.Guard

	Auth       ports.AuthService
	Users      ports.UserService
	Passengers ports.PassengerService
	Dashboard  ports.DashboardService

	// HealthChecks are probed by /health/ready.
	HealthChecks map[string]handler.HealthCheck

	// Registerer and Gatherer back the HTTP metrics and /metrics. Tests pass
	// a fresh registry; production passes the default one.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	renderer, err := handler.NewTemplateRenderer()
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer

	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}
	httpMetrics, err := echoprometheus.MiddlewareConfig{
		Subsystem:  metricsSubsystem,
		Registerer: deps.Registerer,
	}.ToMiddleware()
	if err != nil {
		return nil, err
	}

	resolver := middleware.NewSessionResolver(deps.Tokens)
	gate := middleware.NewGate(middleware.DefaultRules(), resolver, deps.Cookie, deps.Guard, deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(httpMetrics)
	e.Use(gate.Middleware())

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, resolver, deps.Cookie)
	userHandler := handler.NewUserHandler(deps.Users, resolver)
	passengerHandler := handler.NewPassengerHandler(deps.Passengers, resolver)
	dashboardHandler := handler.NewDashboardHandler(deps.Dashboard, resolver)
	pageHandler := handler.NewPageHandler(resolver, deps.Guard, deps.Passengers, deps.Users, deps.Dashboard)
	healthHandler := handler.NewHealthHandler(deps.HealthChecks)

	// --- Auth routes ---
	authGroup := e.Group("/api/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.GET("/session", authHandler.Session)

	// --- Passenger routes ---
	passengers := e.Group("/api/passengers")
	passengers.GET("", passengerHandler.List)
	passengers.POST("", passengerHandler.Create)
	passengers.GET("/export.csv", passengerHandler.ExportCSV)
	passengers.GET("/export.pdf", passengerHandler.ExportPDF)
	passengers.GET("/:id", passengerHandler.Get)
	passengers.PUT("/:id", passengerHandler.Update)
	passengers.DELETE("/:id", passengerHandler.Delete)

	// --- User management (ADMIN; enforced by the gate and again by the guard) ---
	users := e.Group("/api/users")
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/:id", userHandler.Get)
	users.PATCH("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	e.GET("/api/dashboard", dashboardHandler.Summary)

	// --- Pages ---
	e.GET("/", pageHandler.Root)
	e.GET("/login", pageHandler.Login)
	e.GET("/register", pageHandler.Register)
	e.GET("/dashboard", pageHandler.Dashboard)
	e.GET("/passengers", pageHandler.Passengers)
	e.GET("/users", pageHandler.Users)

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}

// requestLogger writes one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Error != nil || v.Status >= 500 {
				event = log.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
