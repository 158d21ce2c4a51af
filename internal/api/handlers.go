package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trop3n/ARCompanion/internal/cache"
	"github.com/trop3n/ARCompanion/internal/fetch"
	"github.com/trop3n/ARCompanion/internal/logger"
	"github.com/trop3n/ARCompanion/internal/metrics"
	"github.com/trop3n/ARCompanion/internal/middleware"
	"github.com/trop3n/ARCompanion/internal/models"
	"github.com/trop3n/ARCompanion/internal/ratelimit"
	"github.com/trop3n/ARCompanion/internal/schedule"
)

// HandlerConfig wires the collaborators the HTTP surface needs.
type HandlerConfig struct {
	Logger       *logger.Logger
	FetchService *fetch.Service
	Store        cache.Store
	Metrics      *metrics.Metrics
	RateLimiter  *ratelimit.Limiter
}

// Handlers contains all HTTP handlers
type Handlers struct {
	logger       *logger.Logger
	fetchService *fetch.Service
	store        cache.Store
	metrics      *metrics.Metrics
	rateLimiter  *ratelimit.Limiter
	startTime    time.Time
}

// NewHandlers creates a new handlers instance
func NewHandlers(cfg HandlerConfig) *Handlers {
	return &Handlers{
		logger:       cfg.Logger,
		fetchService: cfg.FetchService,
		store:        cfg.Store,
		metrics:      cfg.Metrics,
		rateLimiter:  cfg.RateLimiter,
		startTime:    time.Now(),
	}
}

// SetupRoutes configures all the routes using Gin
func (handlers *Handlers) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.RequestLogger(handlers.logger))
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())

	if handlers.rateLimiter != nil {
		router.Use(handlers.rateLimiter.Middleware())
	}

	router.GET("/health", handlers.HealthCheck)
	if handlers.metrics != nil {
		router.GET("/metrics", gin.WrapH(handlers.metrics.Handler()))
	}

	apiV1 := router.Group("/api/v1")
	{
		// Resource routes, one per remote data category
		apiV1.GET("/items", handlers.resourceHandler("items"))
		apiV1.GET("/events", handlers.resourceHandler("events"))
		apiV1.GET("/quests", handlers.resourceHandler("quests"))
		apiV1.GET("/workbench", handlers.resourceHandler("workbench"))
		apiV1.GET("/hideout", handlers.resourceHandler("hideout"))
		apiV1.GET("/expedition", handlers.resourceHandler("expedition"))

		apiV1.GET("/events/timers", handlers.GetEventTimers)

		apiV1.GET("/settings", handlers.GetSettings)
		apiV1.PUT("/settings", handlers.SetSettings)

		apiV1.DELETE("/cache", handlers.ClearCache)
	}

	return router
}

// HealthCheck handles health check requests
func (handlers *Handlers) HealthCheck(context *gin.Context) {
	context.JSON(http.StatusOK, models.HealthCheck{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Uptime:    time.Since(handlers.startTime).String(),
	})
}

// resourceHandler serves one resource category. A fetch failure is a 502 for
// this resource only; the rest of the API keeps working.
func (handlers *Handlers) resourceHandler(key string) gin.HandlerFunc {
	return func(context *gin.Context) {
		data, fetchError := handlers.fetchService.GetResource(context.Request.Context(), key)
		if fetchError != nil {
			handlers.logger.Errorf("Failed to fetch %s: %v", key, fetchError)
			handlers.writeErrorResponse(context, http.StatusBadGateway, "failed to fetch "+key, fetchError.Error())
			return
		}
		context.Data(http.StatusOK, "application/json; charset=utf-8", data)
	}
}

// EventTimersResponse is the computed timer state for one instant.
type EventTimersResponse struct {
	CurrentTime    time.Time               `json:"currentTime"`
	ActiveEvents   []models.ProcessedEvent `json:"activeEvents"`
	UpcomingEvents []models.ProcessedEvent `json:"upcomingEvents"`
	Events         []models.ProcessedEvent `json:"events"`
}

// GetEventTimers computes event-timer state from the cached events schedule,
// falling back to the fixed rotation when no usable schedule is available.
// The UI polls this every second; the computation is pure and cheap.
func (handlers *Handlers) GetEventTimers(context *gin.Context) {
	var rawEvents []models.RawEvent

	data, fetchError := handlers.fetchService.GetResource(context.Request.Context(), "events")
	if fetchError != nil {
		handlers.logger.Warnf("Events unavailable, using default rotation: %v", fetchError)
	} else if err := decodeRawEvents(data, &rawEvents); err != nil {
		handlers.logger.Warnf("Unrecognized events payload, using default rotation: %v", err)
	}

	eventSchedule := schedule.FromAPIEvents(rawEvents)

	count, _ := strconv.Atoi(context.DefaultQuery("count", "0"))
	now := time.Now()

	context.JSON(http.StatusOK, EventTimersResponse{
		CurrentTime:    now,
		ActiveEvents:   schedule.ActiveEvents(now, eventSchedule),
		UpcomingEvents: schedule.UpcomingEvents(now, eventSchedule, count),
		Events:         schedule.Compute(now, eventSchedule),
	})
}

// GetSettings returns saved settings or defaults.
func (handlers *Handlers) GetSettings(context *gin.Context) {
	settings, err := handlers.store.GetSettings()
	if err != nil {
		handlers.logger.Errorf("Failed to read settings: %v", err)
		handlers.writeErrorResponse(context, http.StatusInternalServerError, "failed to read settings", err.Error())
		return
	}
	context.JSON(http.StatusOK, settings)
}

// SetSettings persists the posted settings blob and echoes it back.
func (handlers *Handlers) SetSettings(context *gin.Context) {
	var settings models.Settings
	if err := context.ShouldBindJSON(&settings); err != nil {
		handlers.writeErrorResponse(context, http.StatusBadRequest, "invalid settings payload", err.Error())
		return
	}
	if err := handlers.store.SetSettings(settings); err != nil {
		handlers.logger.Errorf("Failed to save settings: %v", err)
		handlers.writeErrorResponse(context, http.StatusInternalServerError, "failed to save settings", err.Error())
		return
	}
	context.JSON(http.StatusOK, settings)
}

// ClearCache wipes the persistent store.
func (handlers *Handlers) ClearCache(context *gin.Context) {
	if err := handlers.fetchService.ClearCache(); err != nil {
		handlers.logger.Errorf("Failed to clear cache: %v", err)
		handlers.writeErrorResponse(context, http.StatusInternalServerError, "failed to clear cache", err.Error())
		return
	}
	context.JSON(http.StatusOK, gin.H{"cleared": true})
}

// writeErrorResponse writes a standard error response
func (handlers *Handlers) writeErrorResponse(context *gin.Context, statusCode int, errorMessage, details string) {
	context.JSON(statusCode, models.ErrorResponse{
		Error:   errorMessage,
		Message: details,
		Code:    statusCode,
	})
}
