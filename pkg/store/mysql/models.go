package mysql

import "assetpulse/pkg/store/mysql/model"

// Re-export types from model package
type (
	TelemetryRecord = model.TelemetryRecord
	StatusAggregate = model.StatusAggregate

	JSONSample         = model.JSONSample
	JSONSampleList     = model.JSONSampleList
	JSONHealthAnalysis = model.JSONHealthAnalysis
	JSONAlertList      = model.JSONAlertList
)
