package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/boloflier/bolo-system/internal/api/handler"
	"github.com/boloflier/bolo-system/internal/api/middleware"
	"github.com/boloflier/bolo-system/internal/core/domain"
	"github.com/boloflier/bolo-system/internal/core/ports"
)

// Deps carries everything the router needs, constructed once in cmd/server.
// The Redis client may be nil; the read cache and its health check are then
// disabled.
type Deps struct {
	Users     ports.UserService
	Bolos     ports.BoloService
	Mongo     *mongo.Database
	Redis     *redis.Client
	JWTSecret string
	TokenTTL  time.Duration
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("bolo"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Users, d.JWTSecret, d.TokenTTL)
	userHandler := handler.NewUserHandler(d.Users)
	boloHandler := handler.NewBoloHandler(d.Bolos)

	authRequired := middleware.Auth(d.JWTSecret)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)
	supervisorUp := middleware.RequireRole(domain.RoleAdmin, domain.RoleSupervisor)

	// --- Auth ---
	e.POST("/auth/login", authHandler.Login)

	// --- Account administration (admin only) ---
	users := e.Group("/users", authRequired, adminOnly)
	users.POST("", userHandler.Create)
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id/password", userHandler.ResetPassword)
	users.DELETE("/:id", userHandler.Delete)

	// --- Fliers (any authenticated officer) ---
	bolos := e.Group("/bolos", authRequired)
	bolos.POST("", boloHandler.Create)
	bolos.GET("", boloHandler.List)
	bolos.GET("/:id", boloHandler.Get)
	bolos.GET("/:id/attachments/:name", boloHandler.Attachment)
	bolos.PUT("/:id", boloHandler.Update)
	bolos.DELETE("/:id", boloHandler.Delete, supervisorUp)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())

	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Mongo, d.Redis)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	return e
}
