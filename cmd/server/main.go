package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nycwatch/landlordwatch/internal/cache"
	"github.com/nycwatch/landlordwatch/internal/config"
	"github.com/nycwatch/landlordwatch/internal/database"
	"github.com/nycwatch/landlordwatch/internal/handlers"
	"github.com/nycwatch/landlordwatch/internal/jobs"
	"github.com/nycwatch/landlordwatch/internal/logger"
	"github.com/nycwatch/landlordwatch/internal/middleware"
	"github.com/nycwatch/landlordwatch/internal/pipeline"
	"github.com/nycwatch/landlordwatch/internal/repository"
	"github.com/nycwatch/landlordwatch/internal/resolution"
	"github.com/nycwatch/landlordwatch/internal/scoring"
	"github.com/nycwatch/landlordwatch/internal/services"
	"github.com/nycwatch/landlordwatch/internal/socrata"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env)
	log.Info("Starting LandlordWatch API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	// Create database connection pool
	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
			"name": cfg.Database.Name,
		})
	}
	defer db.Close()

	log.Info("Database connection established", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	// Select the cache backend: Redis when configured, in-process otherwise.
	var queryCache cache.Cache
	if cfg.Cache.RedisURL != "" {
		queryCache, err = cache.NewRedis(ctx, cfg.Cache.RedisURL)
		if err != nil {
			log.Fatal("Failed to connect to redis", err, nil)
		}
		log.Info("Redis cache connected", nil)
	} else {
		queryCache = cache.NewMemory(0)
		log.Info("Using in-memory cache", nil)
	}
	defer queryCache.Close()

	// Initialize repository layer
	buildingRepo := repository.NewBuildingRepository(db)
	portfolioRepo := repository.NewPortfolioRepository(db)
	scoreRepo := repository.NewScoreRepository(db)

	// Initialize the pipeline
	client := socrata.NewClient(cfg.Socrata, log)
	registry := pipeline.NewRegistry(cfg.Datasets)
	resolver := resolution.NewResolver(db, portfolioRepo, log)
	engine := scoring.NewEngine(db, scoreRepo, portfolioRepo, log)
	runner := pipeline.NewRunner(db, client, registry, resolver, engine, log)

	// Initialize service layer
	cacheTTL := time.Duration(cfg.Cache.DefaultTTL) * time.Second
	buildingService := services.NewBuildingService(buildingRepo, log)
	ownerService := services.NewOwnerService(portfolioRepo, log)
	leaderboardService := services.NewLeaderboardService(scoreRepo, portfolioRepo, queryCache, cacheTTL, log)
	pipelineService := services.NewPipelineService(runner, leaderboardService.Invalidate, log)

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	// Register health check and metrics routes
	healthHandler := handlers.NewHealthHandler(db, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/api/v1/info", healthHandler.Info)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Initialize handlers
	buildingHandler := handlers.NewBuildingHandler(buildingService)
	ownerHandler := handlers.NewOwnerHandler(ownerService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	adminHandler := handlers.NewAdminHandler(pipelineService)

	// Register API v1 routes
	v1 := router.Group("/api/v1")
	{
		buildings := v1.Group("/buildings")
		{
			buildings.GET("", buildingHandler.Search)
			buildings.GET("/:bbl", buildingHandler.Get)
			buildings.GET("/:bbl/violations", buildingHandler.Violations)
			buildings.GET("/:bbl/complaints", buildingHandler.Complaints)
			buildings.GET("/:bbl/evictions", buildingHandler.Evictions)
			buildings.GET("/:bbl/owner", buildingHandler.Owner)
		}

		owners := v1.Group("/owners")
		{
			owners.GET("", ownerHandler.Search)
			owners.GET("/:id", ownerHandler.Get)
		}

		leaderboards := v1.Group("/leaderboards")
		{
			leaderboards.GET("/buildings", leaderboardHandler.WorstBuildings)
			leaderboards.GET("/landlords", leaderboardHandler.WorstLandlords)
		}

		admin := v1.Group("/admin")
		{
			admin.POST("/pipeline/run", adminHandler.Trigger)
			admin.GET("/pipeline/status", adminHandler.Status)
		}
	}

	// Start the nightly refresh scheduler
	var scheduler *jobs.Scheduler
	if cfg.Scheduler.Enabled {
		scheduler = jobs.NewScheduler(pipelineService, log)
		if err := scheduler.Start(cfg.Scheduler.Cron); err != nil {
			log.Fatal("Failed to start scheduler", err, map[string]interface{}{
				"cron": cfg.Scheduler.Cron,
			})
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	if scheduler != nil {
		scheduler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
