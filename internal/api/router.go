package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/accountd/user-directory/internal/api/handler"
	"github.com/accountd/user-directory/internal/api/middleware"
	"github.com/accountd/user-directory/internal/core/service"
	"github.com/accountd/user-directory/internal/infrastructure/config"
	mongodb "github.com/accountd/user-directory/internal/infrastructure/db/mongo"
	redisdb "github.com/accountd/user-directory/internal/infrastructure/db/redis"
	"github.com/accountd/user-directory/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("userdirectory"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)

	var limiter service.LoginLimiter
	if rdb != nil {
		limiter = redisdb.NewLoginThrottle(rdb, cfg.Throttle.MaxAttempts, cfg.Throttle.Window)
	}

	authService := service.NewAuthService(userRepo, limiter, cfg.JWTSecret, cfg.TokenTTL, log)
	userService := service.NewUserService(userRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	identify := middleware.Identify(authService)

	// --- Auth routes (public) ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Authenticated routes ---
	v1 := e.Group("/v1", identify, middleware.RequireAuth())
	v1.GET("/me", userHandler.Me)
	v1.GET("/users", userHandler.List)
	v1.GET("/users/search", userHandler.Search)
	v1.GET("/users/:id", userHandler.Get)
	v1.PATCH("/profile", userHandler.UpdateProfile)

	// --- Admin routes ---
	admin := e.Group("/v1/admin", identify, middleware.RequireAdmin())
	admin.GET("/stats", userHandler.Stats)
	admin.PATCH("/users/:id", userHandler.Update)
	admin.DELETE("/users/:id", userHandler.Delete)
	admin.POST("/users/:id/activate", userHandler.Activate)
	admin.POST("/users/:id/deactivate", userHandler.Deactivate)
	admin.PUT("/users/:id/role", userHandler.ChangeRole)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
