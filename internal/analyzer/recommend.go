package analyzer

import (
	"fmt"

	"assetpulse/internal/model"
)

// nominalMessage is emitted when no recommendation rule fires.
const nominalMessage = "System is operating within normal parameters"

// anomalyHints maps each anomaly type to its remediation hint.
var anomalyHints = map[model.AnomalyType]string{
	model.AnomalyCPUSpike:        "Investigate processes causing sustained CPU spikes",
	model.AnomalyMemoryLeak:      "Restart services suspected of leaking memory",
	model.AnomalyStorageFull:     "Free disk space immediately to avoid write failures",
	model.AnomalyTemperatureHigh: "Inspect cooling fans and airflow around the device",
	model.AnomalyUnusualActivity: "Review recent configuration or workload changes",
}

// Recommendations evaluates the rule list against the current sample, the
// detected anomalies and the available predictions. Rules are independent;
// rules referencing prediction fields the local estimator does not populate
// are skipped when those fields are absent. The result is deduplicated with
// first-occurrence order preserved.
func Recommendations(current model.TelemetrySample, anomalies []model.Anomaly, preds model.PredictionSet) []string {
	var recs []string

	if current.CPUPercent > 80 {
		recs = append(recs, "Consider closing unnecessary applications to reduce CPU load")
	}

	if current.StoragePercent > 90 {
		recs = append(recs, "Clean up disk space or expand storage capacity")
	}

	if preds.StorageFullInDays != nil && *preds.StorageFullInDays < 30 {
		msg := fmt.Sprintf("Storage is predicted to fill in %d days", *preds.StorageFullInDays)
		if preds.StorageConfidence != nil {
			msg = fmt.Sprintf("%s (confidence %.0f%%)", msg, *preds.StorageConfidence*100)
		}
		recs = append(recs, msg)
	}

	if current.Temperature != nil && *current.Temperature > 75 {
		recs = append(recs, "Check system cooling, temperature is elevated")
	}

	if preds.MemoryLeakProbability != nil && *preds.MemoryLeakProbability > 0.6 {
		recs = append(recs, "High memory-leak probability, schedule a service restart")
	}

	if preds.CPUBaselineShift != nil && *preds.CPUBaselineShift > 10 {
		recs = append(recs, "CPU baseline has shifted upward, review recently installed workloads")
	}

	if preds.MemoryPressureRisk != nil && *preds.MemoryPressureRisk > 0.7 {
		recs = append(recs, "Memory pressure is high, consider adding RAM or reducing workload")
	}

	for _, anomaly := range anomalies {
		if hint, ok := anomalyHints[anomaly.Type]; ok {
			recs = append(recs, hint)
		}
	}

	if len(recs) == 0 {
		return []string{nominalMessage}
	}

	return dedupe(recs)
}

// dedupe removes duplicates keeping the first occurrence of each entry.
func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
