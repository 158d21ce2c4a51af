package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/trop3n/ARCompanion/internal/api"
	"github.com/trop3n/ARCompanion/internal/cache"
	"github.com/trop3n/ARCompanion/internal/config"
	"github.com/trop3n/ARCompanion/internal/fetch"
	"github.com/trop3n/ARCompanion/internal/logger"
	"github.com/trop3n/ARCompanion/internal/metrics"
	"github.com/trop3n/ARCompanion/internal/platform"
	"github.com/trop3n/ARCompanion/internal/ratelimit"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Open the persistent cache; it lives for the whole process
	store, err := cache.Open(cfg.CacheDBPath)
	if err != nil {
		logger.Fatalf("Failed to open cache store: %v", err)
	}

	// Initialize services
	companionMetrics := metrics.New()
	fetchService := fetch.NewService(cfg, logger, store, companionMetrics)
	rateLimiter := ratelimit.NewLimiter(cfg, logger)

	// Initialize HTTP handlers
	handlers := api.NewHandlers(api.HandlerConfig{
		Logger:       logger,
		FetchService: fetchService,
		Store:        store,
		Metrics:      companionMetrics,
		RateLimiter:  rateLimiter,
	})

	// Setup Gin router
	router := handlers.SetupRoutes()

	// Setup HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting companion data service on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Create a shutdown context that works across platforms
	shutdownCtx, stop := platform.NewShutdownContext(context.Background())
	defer stop()
	<-shutdownCtx.Done()

	logger.Info("Shutting down server...")

	// Stop rate limiter cleanup
	rateLimiter.Stop()

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := store.Close(); err != nil {
		logger.Errorf("Failed to close cache store: %v", err)
	}

	logger.Info("Server exited")
}
