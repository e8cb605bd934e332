package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/config"
	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/handler"
	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/infrastructure/database"
	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/logger"
	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/middleware"
	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/normalizer"
	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/repository"
	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/service"
	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/sheets"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration",
			slog.String("error", err.Error()))
	}

	logger.Init(cfg.LogLevel)

	// Open the local snapshot cache
	db, err := database.NewSQLite(cfg.CachePath)
	if err != nil {
		logger.Fatal("Failed to open snapshot cache",
			slog.String("path", cfg.CachePath),
			slog.String("error", err.Error()))
	}
	defer db.Close()

	cache, err := repository.NewSnapshotCache(db)
	if err != nil {
		logger.Fatal("Failed to initialize snapshot cache",
			slog.String("error", err.Error()))
	}

	// Initialize sheet source and snapshot store
	source := sheets.NewClient(cfg.SheetURL, cfg.SheetToken, cfg.FetchTimeout)
	store := repository.NewStore()

	// Initialize the refresh service and run the first cycle synchronously
	// so readiness reflects real data (live, cached, or empty).
	refreshService := service.NewRefreshService(
		source,
		normalizer.New(),
		store,
		cache,
		cfg.RefreshInterval,
		cfg.FetchTimeout,
	)
	refreshService.Refresh(context.Background())
	refreshService.Start()

	// Initialize handlers
	questionHandler := handler.NewQuestionHandler(store)
	healthHandler := handler.NewHealthHandler(store)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())
	router.Use(gin.Logger())

	// Health and metrics endpoints
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/live", healthHandler.Live)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		questions := v1.Group("/questions")
		{
			questions.GET("", questionHandler.List)
			questions.GET("/:slug", questionHandler.Get)
		}

		v1.GET("/categories", questionHandler.Categories)
		v1.GET("/slugs", questionHandler.Slugs)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting server",
			slog.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server",
				slog.String("error", err.Error()))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	// Stop the refresh loop before the HTTP server so no swap races shutdown
	logger.Info("Closing refresh service")
	refreshService.Close()

	// Shutdown HTTP server
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error",
			slog.String("error", err.Error()))
	}

	logger.Info("Server exited")
}
