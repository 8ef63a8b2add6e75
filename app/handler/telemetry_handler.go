package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"assetpulse/internal/model"
	"assetpulse/internal/service"
	"assetpulse/pkg/logger"
)

// TelemetryHandler handles telemetry ingest and read operations
type TelemetryHandler struct {
	ingestService    *service.IngestService
	telemetryService *service.TelemetryService
}

// NewTelemetryHandler creates telemetry handler
func NewTelemetryHandler(ingestService *service.IngestService, telemetryService *service.TelemetryService) *TelemetryHandler {
	return &TelemetryHandler{
		ingestService:    ingestService,
		telemetryService: telemetryService,
	}
}

// Submit ingests one telemetry sample
// @Summary Submit telemetry
// @Description Ingest a telemetry sample from a scanner agent
// @Tags telemetry
// @Accept json
// @Produce json
// @Param request body model.IngestRequest true "Telemetry sample"
// @Success 200 {object} model.IngestResult
// @Router /v1/telemetry [post]
func (h *TelemetryHandler) Submit(c *gin.Context) {
	var req model.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	result, err := h.ingestService.Ingest(c.Request.Context(), &req)
	if err != nil {
		if service.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.ErrorCtx(c.Request.Context(), "ingest failed for %s: %v", req.MACAddress, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process telemetry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"health_score":  result.HealthScore,
		"health_status": result.HealthStatus,
		"alerts":        result.AlertsCount,
		"anomalies":     result.AnomalyCount,
	})
}

// Get returns the telemetry record for one asset
// @Summary Get asset telemetry
// @Description Get the full telemetry record for an asset by MAC address
// @Tags telemetry
// @Produce json
// @Param mac_address path string true "Asset MAC address"
// @Param page query int false "Historical page, newest first"
// @Param limit query int false "Historical page size"
// @Success 200 {object} model.AssetTelemetryRecord
// @Router /v1/telemetry/{mac_address} [get]
func (h *TelemetryHandler) Get(c *gin.Context) {
	macAddress := c.Param("mac_address")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	record, err := h.telemetryService.Get(c.Request.Context(), macAddress, page, limit)
	if err != nil {
		if errors.Is(err, service.ErrAssetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "telemetry data not found for this asset"})
			return
		}
		logger.ErrorCtx(c.Request.Context(), "failed to get telemetry for %s: %v", macAddress, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve telemetry"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// Trends returns resource averages over a trailing window
// @Summary Get asset health trends
// @Description Average resource usage over the last N hours
// @Tags telemetry
// @Produce json
// @Param mac_address path string true "Asset MAC address"
// @Param hours query int false "Window size in hours, default 24"
// @Success 200 {object} model.HealthTrends
// @Router /v1/telemetry/{mac_address}/trends [get]
func (h *TelemetryHandler) Trends(c *gin.Context) {
	macAddress := c.Param("mac_address")
	hours, _ := strconv.Atoi(c.DefaultQuery("hours", "24"))

	trends, err := h.telemetryService.Trends(c.Request.Context(), macAddress, hours)
	if err != nil {
		if errors.Is(err, service.ErrAssetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "telemetry data not found for this asset"})
			return
		}
		logger.ErrorCtx(c.Request.Context(), "failed to compute trends for %s: %v", macAddress, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute trends"})
		return
	}

	if trends == nil {
		c.JSON(http.StatusOK, gin.H{
			"mac_address": macAddress,
			"trends":      nil,
			"message":     "insufficient data for trend analysis",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"mac_address": macAddress,
		"trends":      trends,
	})
}

// Summary returns the fleet-wide health distribution
// @Summary Get fleet health summary
// @Description Asset counts and average scores grouped by health status
// @Tags telemetry
// @Produce json
// @Success 200 {object} model.HealthSummary
// @Router /v1/health-summary [get]
func (h *TelemetryHandler) Summary(c *gin.Context) {
	summary, err := h.telemetryService.Summary(c.Request.Context())
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to build health summary: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build health summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
