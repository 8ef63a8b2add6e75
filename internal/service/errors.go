package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAssetNotFound is returned when no telemetry exists for a MAC address.
var ErrAssetNotFound = errors.New("telemetry data not found for this asset")

// ValidationError reports ingest fields that were missing or carried a
// value outside the allowed range.
type ValidationError struct {
	Missing    []string
	OutOfRange []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.OutOfRange) > 0 {
		parts = append(parts, fmt.Sprintf("out-of-range fields: %s", strings.Join(e.OutOfRange, ", ")))
	}
	return strings.Join(parts, "; ")
}

// IsValidationError reports whether err is an ingest validation failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
