package model

import "time"

// TelemetryRecord MySQL model for telemetry_records table. Health status and
// score are denormalized into indexed columns so the fleet summary is a plain
// GROUP BY instead of a JSON scan.
type TelemetryRecord struct {
	ID             int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	MACAddress     string              `gorm:"column:mac_address;type:varchar(64);not null;uniqueIndex:idx_mac_unique" json:"mac_address"`
	HealthStatus   string              `gorm:"column:health_status;type:varchar(16);not null;default:'';index:idx_health_status" json:"health_status"`
	HealthScore    int                 `gorm:"column:health_score;type:int;not null;default:0" json:"health_score"`
	CurrentData    *JSONSample         `gorm:"column:current_data;type:json" json:"current_data"`
	HistoricalData JSONSampleList      `gorm:"column:historical_data;type:json" json:"historical_data"`
	HealthAnalysis *JSONHealthAnalysis `gorm:"column:health_analysis;type:json" json:"health_analysis"`
	Alerts         JSONAlertList       `gorm:"column:alerts;type:json" json:"alerts"`
	LastUpdated    time.Time           `gorm:"column:last_updated;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3);index:idx_last_updated" json:"last_updated"`
	CreatedAt      time.Time           `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"created_at"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"updated_at"`
}

// TableName specifies the table name for TelemetryRecord
func (TelemetryRecord) TableName() string {
	return "telemetry_records"
}

// StatusAggregate is one row of the fleet health distribution query.
type StatusAggregate struct {
	HealthStatus string  `gorm:"column:health_status" json:"health_status"`
	Count        int     `gorm:"column:count" json:"count"`
	AvgScore     float64 `gorm:"column:avg_score" json:"avg_score"`
}
