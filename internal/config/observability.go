package config

import (
	"fmt"
	"log/slog"
)

// ObservabilityConfig holds observability configuration.
type ObservabilityConfig struct {
	OTelEnabled bool   `env:"CADENCE_OTEL_ENABLED" default:"false"`
	ServiceName string `env:"OTEL_SERVICE_NAME"`
	LogLevel    string `env:"CADENCE_LOG_LEVEL" default:"info"`
}

// Validate validates the observability configuration.
func (c *ObservabilityConfig) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel (debug, info, warn, error, optionally with an offset such as "info+2").
func (c *ObservabilityConfig) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("CADENCE_LOG_LEVEL: %w", err)
	}
	return level, nil
}
