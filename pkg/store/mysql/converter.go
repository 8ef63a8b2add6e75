package mysql

import (
	domain "assetpulse/internal/model"
)

// ToTelemetryDomain converts a MySQL TelemetryRecord to the domain model
func ToTelemetryDomain(record *TelemetryRecord) *domain.AssetTelemetryRecord {
	if record == nil {
		return nil
	}

	out := &domain.AssetTelemetryRecord{
		MACAddress:  record.MACAddress,
		Historical:  []domain.TelemetrySample(record.HistoricalData),
		Alerts:      []domain.Alert(record.Alerts),
		LastUpdated: record.LastUpdated,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
	if record.CurrentData != nil {
		current := domain.TelemetrySample(*record.CurrentData)
		out.Current = &current
	}
	if record.HealthAnalysis != nil {
		analysis := domain.HealthAnalysis(*record.HealthAnalysis)
		out.HealthAnalysis = &analysis
	}
	return out
}

// FromTelemetryDomain converts a domain record to the MySQL model
func FromTelemetryDomain(record *domain.AssetTelemetryRecord) *TelemetryRecord {
	if record == nil {
		return nil
	}

	out := &TelemetryRecord{
		MACAddress:     record.MACAddress,
		HistoricalData: JSONSampleList(record.Historical),
		Alerts:         JSONAlertList(record.Alerts),
		LastUpdated:    record.LastUpdated,
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
	}
	if record.Current != nil {
		current := JSONSample(*record.Current)
		out.CurrentData = &current
	}
	if record.HealthAnalysis != nil {
		analysis := JSONHealthAnalysis(*record.HealthAnalysis)
		out.HealthAnalysis = &analysis
		out.HealthStatus = string(record.HealthAnalysis.HealthStatus)
		out.HealthScore = record.HealthAnalysis.OverallHealthScore
	}
	return out
}
