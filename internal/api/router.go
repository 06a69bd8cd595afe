package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/internalpj/crm-api/internal/api/handler"
	"github.com/internalpj/crm-api/internal/api/middleware"
	"github.com/internalpj/crm-api/internal/core/domain"
	"github.com/internalpj/crm-api/internal/core/ports"
	"github.com/internalpj/crm-api/internal/core/token"
)

// RouterDeps carries the constructed dependencies the router wires into
// handlers and middleware.
type RouterDeps struct {
	Accounts    ports.AccountService
	Users       ports.UserRepository
	Tokens      *token.Service
	Audit       ports.AuditRepository
	Mongo       *mongo.Database
	Redis       *redis.Client
	Log         zerolog.Logger
	CORSOrigins []string
	// Registry scopes the HTTP metrics; nil means the global registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
//
// Authentication is a two-step policy: the Authenticate filter runs on every
// request and attaches a principal when a valid bearer token is presented,
// never rejecting by itself; RequireAuth/RequireAuthority then gate the routes
// that demand one. Only registration and login are open.
func NewRouter(d RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     d.CORSOrigins,
		AllowMethods:     []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS, echo.PATCH},
		AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderAccept, "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           3600,
	}))
	promMiddleware := echoprometheus.NewMiddleware("crm_auth")
	promHandler := echoprometheus.NewHandler()
	if d.Registry != nil {
		promMiddleware = echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  "crm_auth",
			Registerer: d.Registry,
		})
		promHandler = echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: d.Registry,
		})
	}
	e.Use(promMiddleware)
	e.Use(middleware.Authenticate(d.Tokens, d.Users))

	// --- Auth routes (open) ---
	authHandler := handler.NewAuthHandler(d.Accounts)
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)

	// --- Authenticated routes ---
	userHandler := handler.NewUserHandler(d.Accounts)
	users := e.Group("/api/users", middleware.RequireAuth())
	users.GET("/me", userHandler.Me)
	users.GET("", userHandler.List, middleware.RequireAuthority(domain.AuthorityAdmin))
	users.GET("/:id", userHandler.Get, middleware.RequireAuthority(domain.AuthorityAdmin))

	auditHandler := handler.NewAuditHandler(d.Audit)
	e.GET("/api/audit", auditHandler.Recent,
		middleware.RequireAuth(), middleware.RequireAuthority(domain.AuthorityAdmin))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness)  // readiness – are dependencies up?
	e.GET("/metrics", promHandler)

	return e
}
