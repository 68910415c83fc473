package main

import (
	"log/slog"
	"os"

	"phishguard/internal/analyzer"
	"phishguard/internal/brands"
	"phishguard/internal/config"
	"phishguard/internal/db"
	"phishguard/internal/handlers"
	"phishguard/internal/middleware"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	// Optional local overrides; production injects real env vars.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		slog.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	engine := analyzer.New(brands.NewStore(database),
		analyzer.WithRDAPBase(cfg.RDAPBaseURL),
		analyzer.WithAgeCacheSize(cfg.AgeCacheSize),
		analyzer.WithMaxConcurrent(cfg.MaxConcurrent),
	)
	slog.Info("Risk engine initialized",
		"rdap_base", cfg.RDAPBaseURL,
		"age_cache_size", cfg.AgeCacheSize,
		"max_concurrent", cfg.MaxConcurrent,
	)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(middleware.RequestContext())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS())

	rateLimiter := middleware.NewInMemoryRateLimiter()
	slog.Info("Rate limiter initialized",
		"backend", "in-memory",
		"max_requests", middleware.RateLimitMaxRequests,
		"window_seconds", middleware.RateLimitWindow,
	)

	riskHandler := handlers.NewRiskHandler(engine, database)
	historyHandler := handlers.NewHistoryHandler(database)
	statsHandler := handlers.NewStatsHandler(database)
	healthHandler := handlers.NewHealthHandler(database, engine)
	telemetryHandler := handlers.NewTelemetryHandler(engine)

	router.GET("/api/health", healthHandler.HealthCheck)
	router.GET("/api/health/db", healthHandler.DBHealth)

	router.POST("/api/risk/evaluate", middleware.EvaluateRateLimit(rateLimiter), riskHandler.Evaluate)
	router.GET("/api/risk/history", historyHandler.History)
	router.GET("/api/risk/logs/:id", historyHandler.GetLog)
	router.GET("/api/risk/stats", statsHandler.Stats)

	router.GET("/api/telemetry", telemetryHandler.Telemetry)

	slog.Info("Server listening", "port", cfg.Port, "version", cfg.AppVersion)
	if err := router.Run(":" + cfg.Port); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
