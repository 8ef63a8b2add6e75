package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger checks a backing store's liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service liveness and backing-store status
type HealthHandler struct {
	mysql Pinger
	redis Pinger
}

// NewHealthHandler creates health handler. Either pinger may be nil.
func NewHealthHandler(mysqlPinger, redisPinger Pinger) *HealthHandler {
	return &HealthHandler{mysql: mysqlPinger, redis: redisPinger}
}

// Check reports overall service health
// GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	components := gin.H{}

	if h.mysql != nil {
		if err := h.mysql.Ping(ctx); err != nil {
			components["mysql"] = "unavailable"
			status = http.StatusServiceUnavailable
		} else {
			components["mysql"] = "ok"
		}
	}
	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			components["redis"] = "unavailable"
			status = http.StatusServiceUnavailable
		} else {
			components["redis"] = "ok"
		}
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}

	c.JSON(status, gin.H{
		"status":     overall,
		"components": components,
		"timestamp":  time.Now(),
	})
}
