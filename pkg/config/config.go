package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var GlobalConfig *Config

// Config global configuration
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	MySQL        MySQLConfig        `yaml:"mysql"`
	Redis        RedisConfig        `yaml:"redis"`
	Logger       LoggerConfig       `yaml:"logger"`
	Prediction   PredictionConfig   `yaml:"prediction"`
	Retention    RetentionConfig    `yaml:"retention"`
	RateLimit    RateLimitConfig    `yaml:"rate_limit"`
	Notification NotificationConfig `yaml:"notification"`
}

// ServerConfig server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release
}

// MySQLConfig MySQL configuration
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// RedisConfig Redis configuration
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// LoggerConfig logger configuration
type LoggerConfig struct {
	Level  string           `yaml:"level"`  // debug, info, warn, error
	Output string           `yaml:"output"` // console, file, both
	File   LoggerFileConfig `yaml:"file"`
}

// LoggerFileConfig logger file configuration
type LoggerFileConfig struct {
	Path string `yaml:"path"`
}

// PredictionConfig external prediction service configuration
type PredictionConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"` // request timeout (seconds)
}

// RetentionConfig telemetry retention configuration
type RetentionConfig struct {
	HistoricalDays int `yaml:"historical_days"` // time-based prune cutoff (days)
	PruneInterval  int `yaml:"prune_interval"`  // prune job interval (minutes)
}

// RateLimitConfig ingest rate limit configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled"`
	Rate    float64 `yaml:"rate"`  // requests per second
	Burst   int     `yaml:"burst"` // burst size
}

// NotificationConfig alert notification configuration
type NotificationConfig struct {
	FeishuWebhookURL string `yaml:"feishu_webhook_url"`
}

// Init initializes configuration
func Init() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}

	applyDefaults(&cfg)

	GlobalConfig = &cfg
	return nil
}

// applyDefaults fills invalid or missing values with safe defaults.
func applyDefaults(cfg *Config) {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Prediction.Timeout <= 0 {
		cfg.Prediction.Timeout = 5
	}
	if cfg.Retention.HistoricalDays <= 0 {
		cfg.Retention.HistoricalDays = 30
	}
	if cfg.Retention.PruneInterval <= 0 {
		cfg.Retention.PruneInterval = 60
	}
	if cfg.RateLimit.Rate <= 0 {
		cfg.RateLimit.Rate = 200
	}
	if cfg.RateLimit.Burst <= 0 {
		cfg.RateLimit.Burst = 1000
	}
}

// PredictionTimeout returns the prediction request timeout as a duration.
func (c *Config) PredictionTimeout() time.Duration {
	return time.Duration(c.Prediction.Timeout) * time.Second
}
