package analyzer

import (
	"math"

	"assetpulse/internal/model"
)

// minHistoryForForecast is the minimum historical depth for trend forecasts.
const minHistoryForForecast = 5

// storageSlopeWindow limits the storage regression to the most recent
// readings.
const storageSlopeWindow = 7

// Estimate is the local fallback estimator used when the prediction service
// is unavailable. It is best-effort and never fails; the returned set may be
// empty or sparse.
func Estimate(current model.TelemetrySample, historical []model.TelemetrySample) model.PredictionSet {
	var preds model.PredictionSet

	if len(historical) >= minHistoryForForecast {
		values := make([]float64, 0, storageSlopeWindow)
		start := len(historical) - storageSlopeWindow
		if start < 0 {
			start = 0
		}
		for _, s := range historical[start:] {
			values = append(values, s.StoragePercent)
		}

		slope := linearSlope(values)
		if slope > 0.1 {
			days := int(math.Round((100 - current.StoragePercent) / slope))
			if days < 0 {
				days = 0
			}
			preds.StorageFullInDays = &days
		}
	}

	if current.RAMPercent > 70 {
		risk := math.Min(1, (current.RAMPercent-70)/30)
		preds.MemoryPressureRisk = &risk
	}

	perfScore := 100 - (0.4*current.CPUPercent + 0.4*current.RAMPercent + 0.2*current.StoragePercent)
	perfRisk := math.Max(0, (70-perfScore)/70)
	preds.PerformanceDegradationRisk = &perfRisk

	return preds
}

// linearSlope returns the least-squares slope of values against their index.
func linearSlope(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}
