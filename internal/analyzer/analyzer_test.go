package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetpulse/internal/model"
)

func floatPtr(v float64) *float64 { return &v }

func TestHealthScore_Nominal(t *testing.T) {
	s := model.TelemetrySample{CPUPercent: 20, RAMPercent: 30, StoragePercent: 40}
	assert.Equal(t, 100, HealthScore(s))
}

func TestHealthScore_PenaltyTiers(t *testing.T) {
	testCases := []struct {
		name     string
		sample   model.TelemetrySample
		expected int
	}{
		{"cpu high tier", model.TelemetrySample{CPUPercent: 95}, 75},
		{"cpu mid tier", model.TelemetrySample{CPUPercent: 85}, 85},
		{"cpu low tier", model.TelemetrySample{CPUPercent: 75}, 92},
		{"cpu at boundary 70 no penalty", model.TelemetrySample{CPUPercent: 70}, 100},
		{"cpu at boundary 90 mid tier", model.TelemetrySample{CPUPercent: 90}, 85},
		{"ram high tier", model.TelemetrySample{RAMPercent: 96}, 75},
		{"ram mid tier", model.TelemetrySample{RAMPercent: 90}, 85},
		{"ram low tier", model.TelemetrySample{RAMPercent: 80}, 92},
		{"storage high tier", model.TelemetrySample{StoragePercent: 96}, 80},
		{"storage mid tier", model.TelemetrySample{StoragePercent: 92}, 88},
		{"storage low tier", model.TelemetrySample{StoragePercent: 88}, 94},
		{"temperature high tier", model.TelemetrySample{Temperature: floatPtr(86)}, 85},
		{"temperature mid tier", model.TelemetrySample{Temperature: floatPtr(80)}, 92},
		{"temperature low tier", model.TelemetrySample{Temperature: floatPtr(66)}, 97},
		{"no temperature sensor no penalty", model.TelemetrySample{}, 100},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, HealthScore(tc.sample))
		})
	}
}

func TestHealthScore_PenaltiesAreAdditive(t *testing.T) {
	s := model.TelemetrySample{CPUPercent: 96, RAMPercent: 96, StoragePercent: 96}
	// 100 - 25 - 25 - 20
	assert.Equal(t, 30, HealthScore(s))

	hot := s
	hot.Temperature = floatPtr(95)
	assert.Equal(t, 15, HealthScore(hot))
}

func TestHealthScore_ClampedToZero(t *testing.T) {
	// Maximum total penalty is 85, so add nothing more than the floor check
	s := model.TelemetrySample{CPUPercent: 99, RAMPercent: 99, StoragePercent: 99, Temperature: floatPtr(99)}
	score := HealthScore(s)
	assert.GreaterOrEqual(t, score, 0)
	assert.Equal(t, 15, score)
}

func TestStatusForScore_Bands(t *testing.T) {
	testCases := []struct {
		score    int
		expected model.HealthStatus
	}{
		{100, model.HealthStatusExcellent},
		{90, model.HealthStatusExcellent},
		{89, model.HealthStatusGood},
		{75, model.HealthStatusGood},
		{74, model.HealthStatusWarning},
		{50, model.HealthStatusWarning},
		{49, model.HealthStatusCritical},
		{0, model.HealthStatusCritical},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, StatusForScore(tc.score), "score %d", tc.score)
	}
}

func TestDetectAnomalies_None(t *testing.T) {
	s := model.TelemetrySample{CPUPercent: 50, RAMPercent: 50, StoragePercent: 50}
	assert.Empty(t, DetectAnomalies(s))
}

func TestDetectAnomalies_CPUSpike(t *testing.T) {
	anomalies := DetectAnomalies(model.TelemetrySample{CPUPercent: 96})
	require.Len(t, anomalies, 1)
	assert.Equal(t, model.AnomalyCPUSpike, anomalies[0].Type)
	assert.Equal(t, model.AnomalySeverityHigh, anomalies[0].Severity)
	assert.Equal(t, 0.9, anomalies[0].Confidence)
}

func TestDetectAnomalies_StorageSeverityEscalates(t *testing.T) {
	high := DetectAnomalies(model.TelemetrySample{StoragePercent: 92})
	require.Len(t, high, 1)
	assert.Equal(t, model.AnomalyStorageFull, high[0].Type)
	assert.Equal(t, model.AnomalySeverityHigh, high[0].Severity)

	critical := DetectAnomalies(model.TelemetrySample{StoragePercent: 97})
	require.Len(t, critical, 1)
	assert.Equal(t, model.AnomalySeverityCritical, critical[0].Severity)
	assert.Equal(t, 0.95, critical[0].Confidence)
}

func TestDetectAnomalies_TemperatureSeverityEscalates(t *testing.T) {
	medium := DetectAnomalies(model.TelemetrySample{Temperature: floatPtr(85)})
	require.Len(t, medium, 1)
	assert.Equal(t, model.AnomalyTemperatureHigh, medium[0].Type)
	assert.Equal(t, model.AnomalySeverityMedium, medium[0].Severity)

	critical := DetectAnomalies(model.TelemetrySample{Temperature: floatPtr(91)})
	require.Len(t, critical, 1)
	assert.Equal(t, model.AnomalySeverityCritical, critical[0].Severity)
}

func TestDetectAnomalies_EmissionOrder(t *testing.T) {
	s := model.TelemetrySample{CPUPercent: 97, StoragePercent: 93, Temperature: floatPtr(84)}
	anomalies := DetectAnomalies(s)
	require.Len(t, anomalies, 3)
	assert.Equal(t, model.AnomalyCPUSpike, anomalies[0].Type)
	assert.Equal(t, model.AnomalyStorageFull, anomalies[1].Type)
	assert.Equal(t, model.AnomalyTemperatureHigh, anomalies[2].Type)
}

type stubProvider struct {
	preds model.PredictionSet
	err   error
	calls int
}

func (p *stubProvider) Predict(_ context.Context, _ string, _ model.TelemetrySample, _ []model.TelemetrySample) (model.PredictionSet, error) {
	p.calls++
	return p.preds, p.err
}

func TestAnalyze_UsesProviderPredictions(t *testing.T) {
	days := 12
	provider := &stubProvider{preds: model.PredictionSet{StorageFullInDays: &days}}
	a := New(provider)

	analysis := a.Analyze(context.Background(), "AA:BB:CC:DD:EE:FF", model.TelemetrySample{CPUPercent: 10, RAMPercent: 10, StoragePercent: 10}, nil)

	assert.Equal(t, 1, provider.calls)
	require.NotNil(t, analysis.Predictions.StorageFullInDays)
	assert.Equal(t, 12, *analysis.Predictions.StorageFullInDays)
	assert.Equal(t, 100, analysis.OverallHealthScore)
	assert.Equal(t, model.HealthStatusExcellent, analysis.HealthStatus)
}

func TestAnalyze_FallsBackOnProviderError(t *testing.T) {
	provider := &stubProvider{err: errors.New("connection refused")}
	a := New(provider)

	analysis := a.Analyze(context.Background(), "AA:BB:CC:DD:EE:FF", model.TelemetrySample{CPUPercent: 50, RAMPercent: 85, StoragePercent: 50}, nil)

	// Local estimator output, not a failure
	require.NotNil(t, analysis.Predictions.MemoryPressureRisk)
	assert.InDelta(t, 0.5, *analysis.Predictions.MemoryPressureRisk, 1e-9)
	require.NotNil(t, analysis.Predictions.PerformanceDegradationRisk)
}

func TestAnalyze_NilProviderUsesEstimator(t *testing.T) {
	a := New(nil)

	analysis := a.Analyze(context.Background(), "AA:BB:CC:DD:EE:FF", model.TelemetrySample{CPUPercent: 10, RAMPercent: 10, StoragePercent: 10}, nil)

	require.NotNil(t, analysis.Predictions.PerformanceDegradationRisk)
	assert.Equal(t, []string{"System is operating within normal parameters"}, analysis.Recommendations)
}

func TestAnalyze_Deterministic(t *testing.T) {
	a := New(nil)
	s := model.TelemetrySample{CPUPercent: 85, RAMPercent: 90, StoragePercent: 92, Temperature: floatPtr(78)}

	first := a.Analyze(context.Background(), "AA:BB:CC:DD:EE:FF", s, nil)
	second := a.Analyze(context.Background(), "AA:BB:CC:DD:EE:FF", s, nil)

	assert.Equal(t, first.OverallHealthScore, second.OverallHealthScore)
	assert.Equal(t, first.HealthStatus, second.HealthStatus)
	assert.Equal(t, first.AnomaliesDetected, second.AnomaliesDetected)
	assert.Equal(t, first.Recommendations, second.Recommendations)
}
