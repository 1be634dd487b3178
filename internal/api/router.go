package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/brandpulse/content-api/internal/api/handler"
	"github.com/brandpulse/content-api/internal/api/middleware"
	"github.com/brandpulse/content-api/internal/core/service"
	"github.com/brandpulse/content-api/internal/infrastructure/ai"
	"github.com/brandpulse/content-api/internal/infrastructure/config"
	mongodb "github.com/brandpulse/content-api/internal/infrastructure/db/mongo"
	redisdb "github.com/brandpulse/content-api/internal/infrastructure/db/redis"
	"github.com/brandpulse/content-api/internal/infrastructure/social"
)

const sessionTTL = 24 * time.Hour

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("contentapi"))

	// --- Infrastructure ---
	userRepo := mongodb.NewUserRepository(db)
	jobRepo := mongodb.NewJobRepository(db)
	sessions := redisdb.NewSessionStore(rdb)

	textClient := ai.NewTextClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.Timeout)
	imageClient := ai.NewImageClient(cfg.Image.BaseURL, cfg.Image.APIKey, cfg.Image.Width, cfg.Image.Height, cfg.Image.Timeout)
	twitter := social.NewTwitterAdapter(social.Credentials{
		APIKey:       cfg.Twitter.APIKey,
		APISecret:    cfg.Twitter.APISecret,
		AccessToken:  cfg.Twitter.AccessToken,
		AccessSecret: cfg.Twitter.AccessSecret,
	})

	// --- Services ---
	authService := service.NewAuthService(userRepo, sessions, cfg.JWTSecret, sessionTTL)
	generationService := service.NewGenerationService(userRepo, jobRepo, textClient, imageClient, log)
	publishService := service.NewPublishService(jobRepo, social.NewAdapterRegistry(twitter), log)

	// --- Handlers ---
	secureCookies := cfg.Env == "production"
	authHandler := handler.NewAuthHandler(authService, sessionTTL, secureCookies)
	contentHandler := handler.NewContentHandler(generationService, publishService)
	authRequired := middleware.Auth(cfg.JWTSecret, sessions)

	v1 := e.Group("/api/v1")

	// --- Auth routes ---
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)
	v1.POST("/auth/logout", authHandler.Logout)
	v1.GET("/auth/me", authHandler.Me, authRequired)
	v1.POST("/auth/onboarding", authHandler.Onboarding, authRequired)

	// --- Content routes ---
	v1.POST("/content/generate", contentHandler.Generate, authRequired)
	v1.POST("/content/publish", contentHandler.Publish, authRequired)
	v1.GET("/content/jobs", contentHandler.ListJobs, authRequired)
	v1.GET("/content/jobs/:id", contentHandler.GetJob, authRequired)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
