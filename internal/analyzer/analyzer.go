// Package analyzer implements the telemetry health-analysis core: health
// scoring, status classification, anomaly detection, predictive estimates and
// recommendation generation. Analysis is a pure function of the current
// sample and the historical window; the only external dependency is the
// optional prediction provider.
package analyzer

import (
	"context"
	"fmt"
	"math"
	"time"

	"assetpulse/internal/model"
	"assetpulse/pkg/logger"
	"assetpulse/pkg/metrics"
)

// PredictionProvider produces predictive estimates for an asset. The external
// ML service implements this; a nil provider means local estimation only.
type PredictionProvider interface {
	Predict(ctx context.Context, macAddress string, current model.TelemetrySample, historical []model.TelemetrySample) (model.PredictionSet, error)
}

// Analyzer computes health analyses. It is stateless and safe for concurrent
// use.
type Analyzer struct {
	predictions PredictionProvider
}

// New creates an Analyzer. provider may be nil to disable the external
// prediction path.
func New(provider PredictionProvider) *Analyzer {
	return &Analyzer{predictions: provider}
}

// Analyze runs one full analysis pass over the current sample and the
// historical window. It never fails: prediction-service errors degrade to the
// local estimator.
func (a *Analyzer) Analyze(ctx context.Context, macAddress string, current model.TelemetrySample, historical []model.TelemetrySample) model.HealthAnalysis {
	score := HealthScore(current)
	anomalies := DetectAnomalies(current)
	predictions := a.predict(ctx, macAddress, current, historical)

	return model.HealthAnalysis{
		Timestamp:          time.Now(),
		OverallHealthScore: score,
		HealthStatus:       StatusForScore(score),
		AnomaliesDetected:  anomalies,
		Predictions:        predictions,
		Recommendations:    Recommendations(current, anomalies, predictions),
	}
}

func (a *Analyzer) predict(ctx context.Context, macAddress string, current model.TelemetrySample, historical []model.TelemetrySample) model.PredictionSet {
	if a.predictions != nil {
		preds, err := a.predictions.Predict(ctx, macAddress, current, historical)
		if err == nil {
			return preds
		}
		metrics.PredictionFallbackTotal.Inc()
		logger.WarnCtx(ctx, "prediction service unavailable for %s, using local estimator: %v", macAddress, err)
	}
	return Estimate(current, historical)
}

// HealthScore computes the composite health score for one sample. Penalties
// per metric are additive; the result is clamped to [0,100].
func HealthScore(s model.TelemetrySample) int {
	penalty := 0.0

	switch {
	case s.CPUPercent > 90:
		penalty += 25
	case s.CPUPercent > 80:
		penalty += 15
	case s.CPUPercent > 70:
		penalty += 8
	}

	switch {
	case s.RAMPercent > 95:
		penalty += 25
	case s.RAMPercent > 85:
		penalty += 15
	case s.RAMPercent > 75:
		penalty += 8
	}

	switch {
	case s.StoragePercent > 95:
		penalty += 20
	case s.StoragePercent > 90:
		penalty += 12
	case s.StoragePercent > 85:
		penalty += 6
	}

	if s.Temperature != nil {
		switch {
		case *s.Temperature > 85:
			penalty += 15
		case *s.Temperature > 75:
			penalty += 8
		case *s.Temperature > 65:
			penalty += 3
		}
	}

	score := int(math.Round(100 - penalty))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// StatusForScore maps a health score to its status band. Bands are inclusive
// on the lower bound.
func StatusForScore(score int) model.HealthStatus {
	switch {
	case score >= 90:
		return model.HealthStatusExcellent
	case score >= 75:
		return model.HealthStatusGood
	case score >= 50:
		return model.HealthStatusWarning
	default:
		return model.HealthStatusCritical
	}
}

// DetectAnomalies runs the per-sample anomaly checks against the current
// sample. Checks are independent; emission order is CPU, storage,
// temperature.
func DetectAnomalies(s model.TelemetrySample) []model.Anomaly {
	var anomalies []model.Anomaly

	if s.CPUPercent > 95 {
		anomalies = append(anomalies, model.Anomaly{
			Type:        model.AnomalyCPUSpike,
			Severity:    model.AnomalySeverityHigh,
			Description: fmt.Sprintf("CPU usage at %.1f%%", s.CPUPercent),
			Confidence:  0.9,
		})
	}

	if s.StoragePercent > 90 {
		severity := model.AnomalySeverityHigh
		if s.StoragePercent > 95 {
			severity = model.AnomalySeverityCritical
		}
		anomalies = append(anomalies, model.Anomaly{
			Type:        model.AnomalyStorageFull,
			Severity:    severity,
			Description: fmt.Sprintf("Storage usage at %.1f%%", s.StoragePercent),
			Confidence:  0.95,
		})
	}

	if s.Temperature != nil && *s.Temperature > 80 {
		severity := model.AnomalySeverityMedium
		if *s.Temperature > 90 {
			severity = model.AnomalySeverityCritical
		}
		anomalies = append(anomalies, model.Anomaly{
			Type:        model.AnomalyTemperatureHigh,
			Severity:    severity,
			Description: fmt.Sprintf("Temperature at %.1f°C", *s.Temperature),
			Confidence:  0.8,
		})
	}

	return anomalies
}
