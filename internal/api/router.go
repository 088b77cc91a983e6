package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/notekeeper/notes-api/internal/api/handler"
	"github.com/notekeeper/notes-api/internal/api/middleware"
	"github.com/notekeeper/notes-api/internal/core/service"
	"github.com/notekeeper/notes-api/internal/core/token"
	"github.com/notekeeper/notes-api/internal/infrastructure/config"
	mongodb "github.com/notekeeper/notes-api/internal/infrastructure/db/mongo"
	redisdb "github.com/notekeeper/notes-api/internal/infrastructure/db/redis"
	"github.com/notekeeper/notes-api/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// All dependencies are constructed here and passed down explicitly; nothing
// is held in package-level state.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("notes"))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.ClientOrigin},
		AllowCredentials: true,
	}))

	// --- Dependencies ---
	tokens := token.NewIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.TokenTTL)
	userRepo := mongodb.NewUserRepository(db, cfg.Mongo.Collection)
	limiter := redisdb.NewLoginLimiter(rdb, cfg.Login.MaxAttempts, cfg.Login.AttemptTTL)

	authService := service.NewAuthService(userRepo, tokens, limiter, log)
	noteService := service.NewNoteService(userRepo, log)

	authHandler := handler.NewAuthHandler(authService, tokens)
	noteHandler := handler.NewNoteHandler(noteService)
	sessionAuth := middleware.SessionAuth(tokens)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/tokeninfo", authHandler.TokenInfo)

	// --- Note routes (session required) ---
	tasks := e.Group("/api/tasks", sessionAuth)
	tasks.GET("", noteHandler.List)
	tasks.POST("", noteHandler.Create)
	tasks.GET("/:id", noteHandler.GetByID)
	tasks.PUT("/:id", noteHandler.Update)
	tasks.DELETE("/:id", noteHandler.Delete)

	// --- Observability & health (no auth required) ---
	e.GET("/metrics", echoprometheus.NewHandler())

	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
