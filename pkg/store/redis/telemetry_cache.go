package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"assetpulse/internal/model"

	"github.com/go-redis/redis/v8"
)

const (
	analysisKeyPrefix = "telemetry:analysis:" // Latest health analysis per asset
	assetSetKey       = "telemetry:assets"    // Known asset MAC set
	summaryKey        = "telemetry:summary"   // Fleet health summary snapshot
	analysisTTL       = 10 * time.Minute      // Analysis cache TTL
	summaryTTL        = 30 * time.Second      // Summary snapshot TTL
)

// TelemetryCache manages hot telemetry data in Redis (ephemeral data with TTL)
type TelemetryCache struct {
	redis *redis.Client
}

// NewTelemetryCache creates telemetry cache
func NewTelemetryCache(redisClient *RedisClient) *TelemetryCache {
	return &TelemetryCache{
		redis: redisClient.GetClient(),
	}
}

// SaveAnalysis caches the latest health analysis for an asset
func (c *TelemetryCache) SaveAnalysis(ctx context.Context, macAddress string, analysis *model.HealthAnalysis) error {
	key := analysisKeyPrefix + macAddress
	data, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	pipe := c.redis.Pipeline()
	pipe.Set(ctx, key, data, analysisTTL)
	pipe.SAdd(ctx, assetSetKey, macAddress)
	pipe.Expire(ctx, assetSetKey, analysisTTL*2)

	// Summary snapshot is stale once any asset changes
	pipe.Del(ctx, summaryKey)

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to cache analysis: %w", err)
	}

	return nil
}

// GetAnalysis retrieves a cached health analysis. Returns nil on cache miss.
func (c *TelemetryCache) GetAnalysis(ctx context.Context, macAddress string) (*model.HealthAnalysis, error) {
	key := analysisKeyPrefix + macAddress
	data, err := c.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	var analysis model.HealthAnalysis
	if err := json.Unmarshal([]byte(data), &analysis); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}

	return &analysis, nil
}

// SaveSummary caches the fleet health summary snapshot
func (c *TelemetryCache) SaveSummary(ctx context.Context, summary *model.HealthSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	if err := c.redis.Set(ctx, summaryKey, data, summaryTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache summary: %w", err)
	}

	return nil
}

// GetSummary retrieves the cached fleet summary. Returns nil on cache miss.
func (c *TelemetryCache) GetSummary(ctx context.Context) (*model.HealthSummary, error) {
	data, err := c.redis.Get(ctx, summaryKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}

	var summary model.HealthSummary
	if err := json.Unmarshal([]byte(data), &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
	}

	return &summary, nil
}

// DeleteAsset drops the cached analysis for an asset
func (c *TelemetryCache) DeleteAsset(ctx context.Context, macAddress string) error {
	pipe := c.redis.Pipeline()
	pipe.Del(ctx, analysisKeyPrefix+macAddress)
	pipe.SRem(ctx, assetSetKey, macAddress)
	pipe.Del(ctx, summaryKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete cached asset: %w", err)
	}

	return nil
}

// GetCachedAssetCount retrieves the number of assets with cached analyses
func (c *TelemetryCache) GetCachedAssetCount(ctx context.Context) (int, error) {
	count, err := c.redis.SCard(ctx, assetSetKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get cached asset count: %w", err)
	}
	return int(count), nil
}
