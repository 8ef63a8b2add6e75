// Package config provides property-based tests for configuration fallback
// behavior. These tests verify universal properties that should hold across
// all valid inputs.
package config

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestProperty_InvalidValuesFallBackToDefaults tests that non-positive
// configuration values fall back to defaults, keeping the service operational
// regardless of what the config file contains.
func TestProperty_InvalidValuesFallBackToDefaults(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("non-positive prediction timeout falls back to default", prop.ForAll(
		func(timeout int) bool {
			cfg := &Config{}
			cfg.Prediction.Timeout = timeout
			applyDefaults(cfg)
			return cfg.Prediction.Timeout == 5
		},
		gen.IntRange(-1000, 0),
	))

	properties.Property("non-positive retention days fall back to default", prop.ForAll(
		func(days int) bool {
			cfg := &Config{}
			cfg.Retention.HistoricalDays = days
			applyDefaults(cfg)
			return cfg.Retention.HistoricalDays == 30
		},
		gen.IntRange(-1000, 0),
	))

	properties.Property("valid values are preserved", prop.ForAll(
		func(port int) bool {
			cfg := &Config{}
			cfg.Server.Port = port
			applyDefaults(cfg)
			return cfg.Server.Port == port
		},
		gen.IntRange(1, 65535),
	))

	properties.TestingRun(t)
}
