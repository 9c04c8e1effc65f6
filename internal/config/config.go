package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// Source dataset: an HDX subnational rainfall CSV.
	DataPath string `envconfig:"DATA_PATH" default:"data/rainfall.csv"`

	// Feature pipeline tunables. The defaults are the pipeline's contract
	// constants; override only for experiments.
	RollingWindow int     `envconfig:"ROLLING_WINDOW" default:"14"`
	ZThreshold    float64 `envconfig:"Z_THRESHOLD" default:"3"`
	RecentCount   int     `envconfig:"RECENT_COUNT" default:"120"`

	// Kafka risk alerting (feature-flagged).
	AlertsEnabled bool     `envconfig:"ALERTS_ENABLED" default:"false"`
	KafkaBrokers  []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	AlertTopic    string   `envconfig:"ALERT_TOPIC" default:"rainfall-risk-alerts"`
}

// Load reads configuration from environment variables, applying defaults
// where unset, and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if cfg.DataPath == "" {
		return nil, errors.New("DATA_PATH is required")
	}
	if cfg.RollingWindow < 2 {
		return nil, fmt.Errorf("ROLLING_WINDOW must be at least 2, got %d", cfg.RollingWindow)
	}
	if cfg.ZThreshold <= 0 {
		return nil, fmt.Errorf("Z_THRESHOLD must be positive, got %g", cfg.ZThreshold)
	}
	if cfg.RecentCount < 1 {
		return nil, fmt.Errorf("RECENT_COUNT must be at least 1, got %d", cfg.RecentCount)
	}
	if cfg.AlertsEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("ALERTS_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.AlertTopic == "" {
			return nil, errors.New("ALERTS_ENABLED is true but ALERT_TOPIC is empty")
		}
	}

	return &cfg, nil
}
