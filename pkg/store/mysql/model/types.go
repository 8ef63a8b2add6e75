package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	domain "assetpulse/internal/model"
)

// JSONSample stores a single telemetry sample in a JSON column.
type JSONSample domain.TelemetrySample

// Scan implements sql.Scanner interface
func (j *JSONSample) Scan(value interface{}) error {
	if value == nil {
		*j = JSONSample{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to unmarshal JSONSample value: %v", value)
	}
	return json.Unmarshal(bytes, j)
}

// Value implements driver.Valuer interface
func (j JSONSample) Value() (driver.Value, error) {
	return json.Marshal(j)
}

// JSONSampleList stores the historical sample window in a JSON column.
type JSONSampleList []domain.TelemetrySample

// Scan implements sql.Scanner interface
func (j *JSONSampleList) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to unmarshal JSONSampleList value: %v", value)
	}
	result := make([]domain.TelemetrySample, 0)
	err := json.Unmarshal(bytes, &result)
	*j = JSONSampleList(result)
	return err
}

// Value implements driver.Valuer interface
func (j JSONSampleList) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// JSONHealthAnalysis stores a health analysis in a JSON column.
type JSONHealthAnalysis domain.HealthAnalysis

// Scan implements sql.Scanner interface
func (j *JSONHealthAnalysis) Scan(value interface{}) error {
	if value == nil {
		*j = JSONHealthAnalysis{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to unmarshal JSONHealthAnalysis value: %v", value)
	}
	return json.Unmarshal(bytes, j)
}

// Value implements driver.Valuer interface
func (j JSONHealthAnalysis) Value() (driver.Value, error) {
	return json.Marshal(j)
}

// JSONAlertList stores the alert window in a JSON column.
type JSONAlertList []domain.Alert

// Scan implements sql.Scanner interface
func (j *JSONAlertList) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to unmarshal JSONAlertList value: %v", value)
	}
	result := make([]domain.Alert, 0)
	err := json.Unmarshal(bytes, &result)
	*j = JSONAlertList(result)
	return err
}

// Value implements driver.Valuer interface
func (j JSONAlertList) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}
