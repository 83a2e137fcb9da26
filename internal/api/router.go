package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/thynkpro/portal/docs"
	"github.com/thynkpro/portal/internal/api/handler"
	"github.com/thynkpro/portal/internal/api/middleware"
	"github.com/thynkpro/portal/internal/core/domain"
	"github.com/thynkpro/portal/internal/core/ports"
)

// RouterConfig carries everything the router needs. Registerer and
// Gatherer default to the global Prometheus registry when nil.
type RouterConfig struct {
	Session    ports.SessionService
	Guard      ports.RouteGuard
	Log        zerolog.Logger
	Production bool

	// Checks are pinged by /health/ready, keyed by dependency name.
	Checks map[string]handler.Pinger

	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(cfg.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: cfg.Registerer,
	}))
	e.Use(middleware.Session(cfg.Session))

	sessionHandler := handler.NewSessionHandler(cfg.Session, cfg.Guard, cfg.Production, cfg.Log)

	// --- Auth routes ---
	e.GET(string(domain.PathSignIn), sessionHandler.SignInPage)
	e.POST(string(domain.PathSignIn), sessionHandler.SignIn)
	e.GET(string(domain.PathSignOut), sessionHandler.SignOut)
	e.POST(string(domain.PathSignOut), sessionHandler.SignOut)
	e.GET("/auth/session", sessionHandler.Session)

	// --- Views ---
	e.GET(string(domain.PathDashboard), sessionHandler.Dashboard)
	e.GET("/navigation", sessionHandler.Navigation,
		middleware.Guard(cfg.Guard, "/navigation", nil, cfg.Log))
	for _, v := range domain.Views() {
		e.GET(string(v.Path), handler.View(v),
			middleware.Guard(cfg.Guard, v.Path, v.Roles, cfg.Log))
	}

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler(cfg.Checks)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: cfg.Gatherer,
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger logs one line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
