package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"assetpulse/app/handler"
	"assetpulse/app/middleware"
	"assetpulse/pkg/config"
)

// Router Router
type Router struct {
	telemetryHandler *handler.TelemetryHandler
	streamHandler    *handler.StreamHandler
	healthHandler    *handler.HealthHandler
	rateLimitConfig  *config.RateLimitConfig
}

// NewRouter creates a new Router
func NewRouter(telemetryHandler *handler.TelemetryHandler, streamHandler *handler.StreamHandler, healthHandler *handler.HealthHandler, rateLimitConfig *config.RateLimitConfig) *Router {
	return &Router{
		telemetryHandler: telemetryHandler,
		streamHandler:    streamHandler,
		healthHandler:    healthHandler,
		rateLimitConfig:  rateLimitConfig,
	}
}

// Setup sets up routes
func (r *Router) Setup(engine *gin.Engine) {
	engine.Use(middleware.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger())

	// V1 API - scanner agents and dashboards
	v1 := engine.Group("/v1")
	{
		v1.POST("/telemetry", middleware.RateLimit(r.rateLimitConfig), r.telemetryHandler.Submit)
		v1.GET("/telemetry/:mac_address", r.telemetryHandler.Get)
		v1.GET("/telemetry/:mac_address/trends", r.telemetryHandler.Trends)
		v1.GET("/health-summary", r.telemetryHandler.Summary)

		// Live health update stream
		if r.streamHandler != nil {
			v1.GET("/stream", r.streamHandler.Connect)
		}
	}

	// Prometheus metrics
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	engine.GET("/health", r.healthHandler.Check)
}
