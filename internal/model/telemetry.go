package model

import "time"

// HealthStatus classifies an asset's overall health.
type HealthStatus string

const (
	HealthStatusExcellent HealthStatus = "excellent"
	HealthStatusGood      HealthStatus = "good"
	HealthStatusWarning   HealthStatus = "warning"
	HealthStatusCritical  HealthStatus = "critical"
)

// AnomalyType identifies the kind of anomaly detected in a sample.
type AnomalyType string

const (
	AnomalyCPUSpike        AnomalyType = "cpu_spike"
	AnomalyMemoryLeak      AnomalyType = "memory_leak"
	AnomalyStorageFull     AnomalyType = "storage_full"
	AnomalyTemperatureHigh AnomalyType = "temperature_high"
	AnomalyUnusualActivity AnomalyType = "unusual_activity"
)

// AnomalySeverity grades how serious an anomaly is.
type AnomalySeverity string

const (
	AnomalySeverityLow      AnomalySeverity = "low"
	AnomalySeverityMedium   AnomalySeverity = "medium"
	AnomalySeverityHigh     AnomalySeverity = "high"
	AnomalySeverityCritical AnomalySeverity = "critical"
)

// AlertType identifies the kind of operational alert raised during ingest.
type AlertType string

const (
	AlertStorageWarning   AlertType = "storage_warning"
	AlertCPUOverload      AlertType = "cpu_overload"
	AlertMemoryPressure   AlertType = "memory_pressure"
	AlertTemperatureAlert AlertType = "temperature_alert"
	AlertAnomalyDetected  AlertType = "anomaly_detected"
)

// AlertSeverity grades an alert for operational dashboards.
type AlertSeverity string

const (
	AlertSeverityInfo     AlertSeverity = "info"
	AlertSeverityWarning  AlertSeverity = "warning"
	AlertSeverityCritical AlertSeverity = "critical"
)

// IOCounters holds cumulative byte counters reported by the scanner agent.
// Not consumed by analysis, but part of the sample shape.
type IOCounters struct {
	BytesSent int64 `json:"bytes_sent,omitempty"`
	BytesRecv int64 `json:"bytes_recv,omitempty"`
}

// DiskIOCounters holds cumulative disk byte counters.
type DiskIOCounters struct {
	ReadBytes  int64 `json:"read_bytes,omitempty"`
	WriteBytes int64 `json:"write_bytes,omitempty"`
}

// TelemetrySample is one point-in-time resource measurement for an asset.
// Percent fields are always present and in [0,100]; Temperature is nil when
// the asset has no sensor.
type TelemetrySample struct {
	Timestamp      time.Time       `json:"timestamp"`
	CPUPercent     float64         `json:"cpu_percent"`
	RAMPercent     float64         `json:"ram_percent"`
	StoragePercent float64         `json:"storage_percent"`
	Temperature    *float64        `json:"temperature,omitempty"`
	NetworkIO      *IOCounters     `json:"network_io,omitempty"`
	DiskIO         *DiskIOCounters `json:"disk_io,omitempty"`
}

// Anomaly is a diagnostic finding over the current sample.
type Anomaly struct {
	Type        AnomalyType     `json:"type"`
	Severity    AnomalySeverity `json:"severity"`
	Description string          `json:"description"`
	Confidence  float64         `json:"confidence"`
}

// Alert is an operational notification derived from ingest thresholds.
// Acknowledged is mutated only by an external administrative action.
type Alert struct {
	ID           string        `json:"id"`
	Type         AlertType     `json:"type"`
	Severity     AlertSeverity `json:"severity"`
	Message      string        `json:"message"`
	Timestamp    time.Time     `json:"timestamp"`
	Acknowledged bool          `json:"acknowledged"`
}

// ResourceExhaustion is the prediction service's exhaustion timeline.
type ResourceExhaustion struct {
	CPUCriticalHours    *float64 `json:"cpu_critical_hours,omitempty"`
	MemoryCriticalHours *float64 `json:"memory_critical_hours,omitempty"`
	StorageCriticalDays *float64 `json:"storage_critical_days,omitempty"`
}

// PredictionSet holds predictive estimates for an asset. Every field is
// optional: the external prediction service populates what its analyses
// support, and the local fallback estimator fills in only the basic three
// (storage days, memory pressure, performance degradation).
type PredictionSet struct {
	StorageFullInDays         *int     `json:"storage_full_in_days,omitempty"`
	StorageConfidence         *float64 `json:"storage_confidence,omitempty"`
	StorageGrowthAcceleration *float64 `json:"storage_growth_acceleration,omitempty"`
	StorageVolatility         *float64 `json:"storage_volatility,omitempty"`

	MemoryLeakProbability *float64 `json:"memory_leak_probability,omitempty"`
	MemoryPressureRisk    *float64 `json:"memory_pressure_risk,omitempty"`
	MemoryPressureInHours *float64 `json:"memory_pressure_in_hours,omitempty"`
	MemoryVolatility      *float64 `json:"memory_volatility,omitempty"`

	CPUSpikeProbability *float64 `json:"cpu_spike_probability,omitempty"`
	CPUBaselineShift    *float64 `json:"cpu_baseline_shift,omitempty"`

	HealthTrend7Days      *float64 `json:"health_trend_7_days,omitempty"`
	HealthTrend30Days     *float64 `json:"health_trend_30_days,omitempty"`
	CriticalThresholdDays *float64 `json:"critical_threshold_days,omitempty"`

	AnomalyScore       *float64 `json:"anomaly_score,omitempty"`
	IsAnomaly          *bool    `json:"is_anomaly,omitempty"`
	RecentAnomalyCount *int     `json:"recent_anomaly_count,omitempty"`

	PerformanceDegradationRisk *float64 `json:"performance_degradation_risk,omitempty"`
	PerformanceTrend           *float64 `json:"performance_trend,omitempty"`

	ResourceExhaustion *ResourceExhaustion `json:"resource_exhaustion_timeline,omitempty"`
}

// IsEmpty reports whether no prediction field is populated.
func (p *PredictionSet) IsEmpty() bool {
	if p == nil {
		return true
	}
	return *p == PredictionSet{}
}

// HealthAnalysis is the result of one analysis pass over an asset.
type HealthAnalysis struct {
	Timestamp          time.Time     `json:"timestamp"`
	OverallHealthScore int           `json:"overall_health_score"`
	HealthStatus       HealthStatus  `json:"health_status"`
	AnomaliesDetected  []Anomaly     `json:"anomalies_detected"`
	Predictions        PredictionSet `json:"predictions"`
	Recommendations    []string      `json:"recommendations"`
}

// AssetTelemetryRecord is the per-asset aggregate, keyed by MAC address.
type AssetTelemetryRecord struct {
	MACAddress     string            `json:"mac_address"`
	Current        *TelemetrySample  `json:"current_data"`
	Historical     []TelemetrySample `json:"historical_data"` // oldest first
	HealthAnalysis *HealthAnalysis   `json:"health_analysis,omitempty"`
	Alerts         []Alert           `json:"alerts"` // newest first
	LastUpdated    time.Time         `json:"last_updated"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// HealthTrends summarizes resource averages over a recent time window.
type HealthTrends struct {
	AvgCPUPercent     float64 `json:"avg_cpu_percent"`
	AvgRAMPercent     float64 `json:"avg_ram_percent"`
	AvgStoragePercent float64 `json:"avg_storage_percent"`
	DataPoints        int     `json:"data_points"`
	TimeRangeHours    int     `json:"time_range_hours"`
}

// IngestRequest is the scanner agent's telemetry payload. Pointer fields
// distinguish absent from zero so validation can name missing fields.
type IngestRequest struct {
	MACAddress     string          `json:"mac_address"`
	CPUPercent     *float64        `json:"cpu_percent"`
	RAMPercent     *float64        `json:"ram_percent"`
	StoragePercent *float64        `json:"storage_percent"`
	Temperature    *float64        `json:"temperature,omitempty"`
	NetworkIO      *IOCounters     `json:"network_io,omitempty"`
	DiskIO         *DiskIOCounters `json:"disk_io,omitempty"`
}

// IngestResult is the ingest cycle summary returned to the scanner agent.
type IngestResult struct {
	HealthScore  int          `json:"health_score"`
	HealthStatus HealthStatus `json:"health_status"`
	AlertsCount  int          `json:"alerts"`    // alerts newly generated this cycle
	AnomalyCount int          `json:"anomalies"` // anomalies detected this cycle
}

// StatusBucket is one health-status slice of the fleet summary.
type StatusBucket struct {
	Count    int     `json:"count"`
	AvgScore float64 `json:"avg_score"`
}

// HealthSummary is the fleet-wide health distribution.
type HealthSummary struct {
	Timestamp     time.Time                     `json:"timestamp"`
	TotalAssets   int                           `json:"total_assets"`
	CriticalCount int                           `json:"critical_count"`
	StatusCounts  map[HealthStatus]StatusBucket `json:"status_counts"`
}

// HealthUpdate is the websocket broadcast payload emitted per ingest.
type HealthUpdate struct {
	MACAddress   string       `json:"mac_address"`
	HealthScore  int          `json:"health_score"`
	HealthStatus HealthStatus `json:"health_status"`
	Anomalies    int          `json:"anomalies"`
	Alerts       int          `json:"alerts"`
	Timestamp    time.Time    `json:"timestamp"`
}
