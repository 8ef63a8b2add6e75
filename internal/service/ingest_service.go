package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"assetpulse/internal/analyzer"
	"assetpulse/internal/model"
	"assetpulse/pkg/logger"
	"assetpulse/pkg/metrics"
	"assetpulse/pkg/store/mysql"
)

const (
	maxHistoricalSamples = 100 // FIFO cap on the per-asset historical window
	maxRetainedAlerts    = 10  // prior alerts kept when new ones are prepended
)

// TelemetryStore is the persistence surface the ingest pipeline needs.
type TelemetryStore interface {
	GetByMAC(ctx context.Context, macAddress string) (*mysql.TelemetryRecord, error)
	Upsert(ctx context.Context, record *mysql.TelemetryRecord) error
}

// AnalysisCache caches hot analysis results. Implemented by the Redis cache.
type AnalysisCache interface {
	SaveAnalysis(ctx context.Context, macAddress string, analysis *model.HealthAnalysis) error
}

// Broadcaster pushes live updates to stream subscribers.
type Broadcaster interface {
	BroadcastHealthUpdate(update *model.HealthUpdate)
	BroadcastAlert(macAddress string, alert model.Alert)
}

// AlertNotifier forwards critical alerts to an external channel.
type AlertNotifier interface {
	NotifyCriticalAlert(ctx context.Context, macAddress string, alert model.Alert, healthScore int) error
}

// IngestService runs the telemetry ingest pipeline: validate, rotate the
// historical window, analyze, derive alerts, persist and publish.
type IngestService struct {
	store    TelemetryStore
	cache    AnalysisCache
	analyzer *analyzer.Analyzer
	hub      Broadcaster
	notifier AlertNotifier

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewIngestService creates the ingest service. cache, hub and notifier may be nil.
func NewIngestService(store TelemetryStore, cache AnalysisCache, healthAnalyzer *analyzer.Analyzer, hub Broadcaster, notifier AlertNotifier) *IngestService {
	return &IngestService{
		store:    store,
		cache:    cache,
		analyzer: healthAnalyzer,
		hub:      hub,
		notifier: notifier,
		locks:    make(map[string]*sync.Mutex),
	}
}

// assetLock returns the per-asset mutex, creating it on first use. Ingest
// cycles for the same MAC run serially so the read-modify-write over the
// historical window never loses samples.
func (s *IngestService) assetLock(macAddress string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[macAddress]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[macAddress] = lock
	}
	return lock
}

// Ingest processes one telemetry submission
func (s *IngestService) Ingest(ctx context.Context, req *model.IngestRequest) (*model.IngestResult, error) {
	if err := validate(req); err != nil {
		metrics.TelemetryRejectedTotal.WithLabelValues("validation").Inc()
		return nil, err
	}

	lock := s.assetLock(req.MACAddress)
	lock.Lock()
	defer lock.Unlock()

	now := time.Now()
	sample := model.TelemetrySample{
		Timestamp:      now,
		CPUPercent:     *req.CPUPercent,
		RAMPercent:     *req.RAMPercent,
		StoragePercent: *req.StoragePercent,
		Temperature:    req.Temperature,
		NetworkIO:      req.NetworkIO,
		DiskIO:         req.DiskIO,
	}

	existing, err := s.store.GetByMAC(ctx, req.MACAddress)
	if err != nil {
		logger.ErrorCtx(ctx, "failed to load telemetry record for %s: %v", req.MACAddress, err)
		return nil, fmt.Errorf("failed to process telemetry: %w", err)
	}

	record := mysql.ToTelemetryDomain(existing)
	if record == nil {
		record = &model.AssetTelemetryRecord{
			MACAddress: req.MACAddress,
			CreatedAt:  now,
		}
	}

	// Rotate the previous current sample into the historical window
	if record.Current != nil {
		record.Historical = append(record.Historical, *record.Current)
		if len(record.Historical) > maxHistoricalSamples {
			record.Historical = record.Historical[len(record.Historical)-maxHistoricalSamples:]
		}
	}
	record.Current = &sample

	analysisStart := time.Now()
	analysis := s.analyzer.Analyze(ctx, req.MACAddress, sample, record.Historical)
	metrics.AnalysisDuration.Observe(time.Since(analysisStart).Seconds())
	record.HealthAnalysis = &analysis

	newAlerts := deriveAlerts(sample, now)
	if len(record.Alerts) > maxRetainedAlerts {
		record.Alerts = record.Alerts[:maxRetainedAlerts]
	}
	record.Alerts = append(newAlerts, record.Alerts...)
	record.LastUpdated = now
	record.UpdatedAt = now

	if err := s.store.Upsert(ctx, mysql.FromTelemetryDomain(record)); err != nil {
		logger.ErrorCtx(ctx, "failed to persist telemetry for %s: %v", req.MACAddress, err)
		return nil, fmt.Errorf("failed to process telemetry: %w", err)
	}

	metrics.TelemetryIngestedTotal.Inc()
	metrics.HealthScoreGauge.WithLabelValues(req.MACAddress).Set(float64(analysis.OverallHealthScore))
	for _, anomaly := range analysis.AnomaliesDetected {
		metrics.RecordAnomaly(string(anomaly.Type), string(anomaly.Severity))
	}
	for _, alert := range newAlerts {
		metrics.RecordAlert(string(alert.Type), string(alert.Severity))
	}

	if s.cache != nil {
		if err := s.cache.SaveAnalysis(ctx, req.MACAddress, &analysis); err != nil {
			logger.WarnCtx(ctx, "failed to cache analysis for %s: %v", req.MACAddress, err)
		}
	}

	if s.hub != nil {
		s.hub.BroadcastHealthUpdate(&model.HealthUpdate{
			MACAddress:   req.MACAddress,
			HealthScore:  analysis.OverallHealthScore,
			HealthStatus: analysis.HealthStatus,
			Anomalies:    len(analysis.AnomaliesDetected),
			Alerts:       len(newAlerts),
			Timestamp:    now,
		})
		for _, alert := range newAlerts {
			s.hub.BroadcastAlert(req.MACAddress, alert)
		}
	}

	if s.notifier != nil {
		for _, alert := range newAlerts {
			if alert.Severity != model.AlertSeverityCritical {
				continue
			}
			if err := s.notifier.NotifyCriticalAlert(ctx, req.MACAddress, alert, analysis.OverallHealthScore); err != nil {
				logger.WarnCtx(ctx, "failed to notify critical alert for %s: %v", req.MACAddress, err)
			}
		}
	}

	return &model.IngestResult{
		HealthScore:  analysis.OverallHealthScore,
		HealthStatus: analysis.HealthStatus,
		AlertsCount:  len(newAlerts),
		AnomalyCount: len(analysis.AnomaliesDetected),
	}, nil
}

// validate checks the required ingest fields, naming every missing or
// out-of-range one. Percent fields must be within [0, 100], temperature
// within [0, 150] when supplied.
func validate(req *model.IngestRequest) error {
	var missing, outOfRange []string
	if req.MACAddress == "" {
		missing = append(missing, "mac_address")
	}
	if req.CPUPercent == nil {
		missing = append(missing, "cpu_percent")
	} else if *req.CPUPercent < 0 || *req.CPUPercent > 100 {
		outOfRange = append(outOfRange, "cpu_percent must be between 0 and 100")
	}
	if req.RAMPercent == nil {
		missing = append(missing, "ram_percent")
	} else if *req.RAMPercent < 0 || *req.RAMPercent > 100 {
		outOfRange = append(outOfRange, "ram_percent must be between 0 and 100")
	}
	if req.StoragePercent == nil {
		missing = append(missing, "storage_percent")
	} else if *req.StoragePercent < 0 || *req.StoragePercent > 100 {
		outOfRange = append(outOfRange, "storage_percent must be between 0 and 100")
	}
	if req.Temperature != nil && (*req.Temperature < 0 || *req.Temperature > 150) {
		outOfRange = append(outOfRange, "temperature must be between 0 and 150")
	}
	if len(missing) > 0 || len(outOfRange) > 0 {
		return &ValidationError{Missing: missing, OutOfRange: outOfRange}
	}
	return nil
}

// deriveAlerts applies the ingest alert thresholds to a sample. Alerting is
// independent of anomaly detection.
func deriveAlerts(sample model.TelemetrySample, now time.Time) []model.Alert {
	var alerts []model.Alert

	if sample.StoragePercent > 90 {
		severity := model.AlertSeverityWarning
		message := fmt.Sprintf("Storage usage high: %.1f%%", sample.StoragePercent)
		if sample.StoragePercent > 95 {
			severity = model.AlertSeverityCritical
			message = fmt.Sprintf("Storage usage critical: %.1f%%", sample.StoragePercent)
		}
		alerts = append(alerts, model.Alert{
			ID:        uuid.New().String(),
			Type:      model.AlertStorageWarning,
			Severity:  severity,
			Message:   message,
			Timestamp: now,
		})
	}

	if sample.CPUPercent > 90 {
		alerts = append(alerts, model.Alert{
			ID:        uuid.New().String(),
			Type:      model.AlertCPUOverload,
			Severity:  model.AlertSeverityWarning,
			Message:   fmt.Sprintf("CPU overload: %.1f%%", sample.CPUPercent),
			Timestamp: now,
		})
	}

	return alerts
}
