package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TelemetryIngestedTotal counts accepted telemetry submissions
	TelemetryIngestedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assetpulse_telemetry_ingested_total",
			Help: "Total number of telemetry submissions accepted",
		},
	)

	// TelemetryRejectedTotal counts rejected telemetry submissions
	TelemetryRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assetpulse_telemetry_rejected_total",
			Help: "Total number of telemetry submissions rejected",
		},
		[]string{"reason"},
	)

	// AnomaliesDetectedTotal counts detected anomalies by type
	AnomaliesDetectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assetpulse_anomalies_detected_total",
			Help: "Total number of anomalies detected",
		},
		[]string{"type", "severity"},
	)

	// AlertsRaisedTotal counts raised alerts by type
	AlertsRaisedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assetpulse_alerts_raised_total",
			Help: "Total number of alerts raised",
		},
		[]string{"type", "severity"},
	)

	// AnalysisDuration measures health analysis latency
	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assetpulse_analysis_duration_seconds",
			Help:    "Health analysis computation latency in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	// PredictionFallbackTotal counts local estimator fallbacks
	PredictionFallbackTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assetpulse_prediction_fallback_total",
			Help: "Total number of prediction service failures handled by the local estimator",
		},
	)

	// HealthScoreGauge tracks the latest health score per asset
	HealthScoreGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "assetpulse_health_score",
			Help: "Latest health score per asset",
		},
		[]string{"mac_address"},
	)

	// HistoricalPrunedTotal counts samples removed by the retention job
	HistoricalPrunedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assetpulse_historical_pruned_total",
			Help: "Total number of historical samples removed by retention pruning",
		},
	)

	// StreamClientsGauge tracks connected websocket clients
	StreamClientsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "assetpulse_stream_clients",
			Help: "Number of connected websocket stream clients",
		},
	)
)

// RecordAnomaly increments the anomaly counter for a type and severity
func RecordAnomaly(anomalyType, severity string) {
	AnomaliesDetectedTotal.WithLabelValues(anomalyType, severity).Inc()
}

// RecordAlert increments the alert counter for a type and severity
func RecordAlert(alertType, severity string) {
	AlertsRaisedTotal.WithLabelValues(alertType, severity).Inc()
}
