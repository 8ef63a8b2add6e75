package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetpulse/internal/model"
)

func intPtr(v int) *int { return &v }

func TestRecommendations_NominalFallback(t *testing.T) {
	recs := Recommendations(model.TelemetrySample{CPUPercent: 20, RAMPercent: 20, StoragePercent: 20}, nil, model.PredictionSet{})
	assert.Equal(t, []string{"System is operating within normal parameters"}, recs)
}

func TestRecommendations_CPULoad(t *testing.T) {
	recs := Recommendations(model.TelemetrySample{CPUPercent: 85}, nil, model.PredictionSet{})
	assert.Contains(t, recs, "Consider closing unnecessary applications to reduce CPU load")
}

func TestRecommendations_StorageForecastWithConfidence(t *testing.T) {
	preds := model.PredictionSet{
		StorageFullInDays: intPtr(12),
		StorageConfidence: floatPtr(0.85),
	}
	recs := Recommendations(model.TelemetrySample{}, nil, preds)
	assert.Contains(t, recs, "Storage is predicted to fill in 12 days (confidence 85%)")
}

func TestRecommendations_StorageForecastWithoutConfidence(t *testing.T) {
	preds := model.PredictionSet{StorageFullInDays: intPtr(12)}
	recs := Recommendations(model.TelemetrySample{}, nil, preds)
	assert.Contains(t, recs, "Storage is predicted to fill in 12 days")
}

func TestRecommendations_DistantForecastIgnored(t *testing.T) {
	preds := model.PredictionSet{StorageFullInDays: intPtr(45)}
	recs := Recommendations(model.TelemetrySample{}, nil, preds)
	assert.Equal(t, []string{"System is operating within normal parameters"}, recs)
}

func TestRecommendations_AnomalyHints(t *testing.T) {
	anomalies := []model.Anomaly{
		{Type: model.AnomalyCPUSpike, Severity: model.AnomalySeverityHigh},
		{Type: model.AnomalyStorageFull, Severity: model.AnomalySeverityCritical},
	}
	recs := Recommendations(model.TelemetrySample{}, anomalies, model.PredictionSet{})
	assert.Contains(t, recs, "Investigate processes causing sustained CPU spikes")
	assert.Contains(t, recs, "Free disk space immediately to avoid write failures")
}

func TestRecommendations_DeduplicatedFirstOccurrence(t *testing.T) {
	// storage_full anomaly twice must yield its hint once
	anomalies := []model.Anomaly{
		{Type: model.AnomalyStorageFull},
		{Type: model.AnomalyStorageFull},
	}
	recs := Recommendations(model.TelemetrySample{StoragePercent: 92, CPUPercent: 85}, anomalies, model.PredictionSet{})

	require.NotEmpty(t, recs)
	seen := make(map[string]int)
	for _, rec := range recs {
		seen[rec]++
	}
	for rec, count := range seen {
		assert.Equal(t, 1, count, "duplicate recommendation: %s", rec)
	}
	// Rule order preserved: CPU rule precedes storage rule
	assert.Equal(t, "Consider closing unnecessary applications to reduce CPU load", recs[0])
	assert.Equal(t, "Clean up disk space or expand storage capacity", recs[1])
}

func TestRecommendations_PredictionRules(t *testing.T) {
	preds := model.PredictionSet{
		MemoryLeakProbability: floatPtr(0.7),
		CPUBaselineShift:      floatPtr(12),
		MemoryPressureRisk:    floatPtr(0.8),
	}
	recs := Recommendations(model.TelemetrySample{}, nil, preds)
	assert.Contains(t, recs, "High memory-leak probability, schedule a service restart")
	assert.Contains(t, recs, "CPU baseline has shifted upward, review recently installed workloads")
	assert.Contains(t, recs, "Memory pressure is high, consider adding RAM or reducing workload")
}
