package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"assetpulse/internal/model"
	"assetpulse/pkg/logger"
	"assetpulse/pkg/store/mysql"
)

const (
	defaultTrendHours  = 24
	minTrendDataPoints = 2
)

// TelemetryReader is the persistence surface the read APIs need.
type TelemetryReader interface {
	GetByMAC(ctx context.Context, macAddress string) (*mysql.TelemetryRecord, error)
	ListStatusAggregates(ctx context.Context) ([]*mysql.StatusAggregate, error)
	Count(ctx context.Context) (int64, error)
}

// SummaryCache caches the fleet summary snapshot. Implemented by the Redis cache.
type SummaryCache interface {
	GetSummary(ctx context.Context) (*model.HealthSummary, error)
	SaveSummary(ctx context.Context, summary *model.HealthSummary) error
}

// TelemetryService serves the per-asset and fleet-wide read APIs.
type TelemetryService struct {
	store TelemetryReader
	cache SummaryCache
}

// NewTelemetryService creates the telemetry read service. cache may be nil.
func NewTelemetryService(store TelemetryReader, cache SummaryCache) *TelemetryService {
	return &TelemetryService{store: store, cache: cache}
}

// Get returns the full telemetry record for an asset. When page and limit are
// positive the historical window is paginated, newest samples on page 1.
func (s *TelemetryService) Get(ctx context.Context, macAddress string, page, limit int) (*model.AssetTelemetryRecord, error) {
	record, err := s.store.GetByMAC(ctx, macAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to load telemetry record: %w", err)
	}
	if record == nil {
		return nil, ErrAssetNotFound
	}

	out := mysql.ToTelemetryDomain(record)
	if page > 0 && limit > 0 {
		out.Historical = paginateNewestFirst(out.Historical, page, limit)
	}
	return out, nil
}

// paginateNewestFirst slices the oldest-first historical window so that page 1
// holds the newest samples, preserving oldest-first order within a page.
func paginateNewestFirst(samples []model.TelemetrySample, page, limit int) []model.TelemetrySample {
	end := len(samples) - (page-1)*limit
	if end <= 0 {
		return []model.TelemetrySample{}
	}
	start := end - limit
	if start < 0 {
		start = 0
	}
	return samples[start:end]
}

// Trends computes resource averages over the trailing window. Returns nil when
// fewer than two samples fall inside the window.
func (s *TelemetryService) Trends(ctx context.Context, macAddress string, hours int) (*model.HealthTrends, error) {
	if hours <= 0 {
		hours = defaultTrendHours
	}

	record, err := s.store.GetByMAC(ctx, macAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to load telemetry record: %w", err)
	}
	if record == nil {
		return nil, ErrAssetNotFound
	}

	asset := mysql.ToTelemetryDomain(record)
	cutoff := time.Now().Add(-time.Duration(hours) * time.Hour)

	samples := make([]model.TelemetrySample, 0, len(asset.Historical)+1)
	for _, sample := range asset.Historical {
		if sample.Timestamp.After(cutoff) {
			samples = append(samples, sample)
		}
	}
	if asset.Current != nil && asset.Current.Timestamp.After(cutoff) {
		samples = append(samples, *asset.Current)
	}

	if len(samples) < minTrendDataPoints {
		return nil, nil
	}

	var sumCPU, sumRAM, sumStorage float64
	for _, sample := range samples {
		sumCPU += sample.CPUPercent
		sumRAM += sample.RAMPercent
		sumStorage += sample.StoragePercent
	}
	n := float64(len(samples))

	return &model.HealthTrends{
		AvgCPUPercent:     round1(sumCPU / n),
		AvgRAMPercent:     round1(sumRAM / n),
		AvgStoragePercent: round1(sumStorage / n),
		DataPoints:        len(samples),
		TimeRangeHours:    hours,
	}, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Summary returns the fleet-wide health distribution. A short-lived cached
// snapshot is served when present.
func (s *TelemetryService) Summary(ctx context.Context) (*model.HealthSummary, error) {
	if s.cache != nil {
		cached, err := s.cache.GetSummary(ctx)
		if err != nil {
			logger.WarnCtx(ctx, "failed to read cached summary: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	aggregates, err := s.store.ListStatusAggregates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate fleet health: %w", err)
	}
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count assets: %w", err)
	}

	summary := &model.HealthSummary{
		Timestamp:    time.Now(),
		TotalAssets:  int(total),
		StatusCounts: make(map[model.HealthStatus]model.StatusBucket),
	}
	for _, agg := range aggregates {
		status := model.HealthStatus(agg.HealthStatus)
		summary.StatusCounts[status] = model.StatusBucket{
			Count:    agg.Count,
			AvgScore: round1(agg.AvgScore),
		}
		if status == model.HealthStatusCritical {
			summary.CriticalCount = agg.Count
		}
	}

	if s.cache != nil {
		if err := s.cache.SaveSummary(ctx, summary); err != nil {
			logger.WarnCtx(ctx, "failed to cache summary: %v", err)
		}
	}

	return summary, nil
}
