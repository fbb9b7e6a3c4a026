package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/rezkam/cadence/internal/env"
)

var (
	// ErrInvalidPageSize is returned when page size settings contradict each other.
	ErrInvalidPageSize = errors.New("CADENCE_DEFAULT_PAGE_SIZE must be between 1 and CADENCE_MAX_PAGE_SIZE")
	// ErrInvalidShutdownTimeout is returned for a non-positive shutdown timeout.
	ErrInvalidShutdownTimeout = errors.New("CADENCE_SHUTDOWN_TIMEOUT must be positive")
)

// ServerConfig holds all configuration for the server binary.
type ServerConfig struct {
	Database        DatabaseConfig
	HTTP            HTTPConfig
	Todo            TodoConfig
	Observability   ObservabilityConfig
	ShutdownTimeout time.Duration `env:"CADENCE_SHUTDOWN_TIMEOUT" default:"10s"`
}

// Validate checks settings that span more than one field.
func (c *ServerConfig) Validate() error {
	if c.ShutdownTimeout <= 0 {
		return ErrInvalidShutdownTimeout
	}
	return nil
}

// HTTPConfig holds HTTP server configuration.
// Zero durations and sizes fall back to the server defaults.
type HTTPConfig struct {
	Host              string        `env:"CADENCE_HTTP_HOST"`
	Port              string        `env:"CADENCE_HTTP_PORT" default:"8081"`
	ReadTimeout       time.Duration `env:"CADENCE_HTTP_READ_TIMEOUT"`
	WriteTimeout      time.Duration `env:"CADENCE_HTTP_WRITE_TIMEOUT"`
	IdleTimeout       time.Duration `env:"CADENCE_HTTP_IDLE_TIMEOUT"`
	ReadHeaderTimeout time.Duration `env:"CADENCE_HTTP_READ_HEADER_TIMEOUT"`
	MaxHeaderBytes    int           `env:"CADENCE_HTTP_MAX_HEADER_BYTES"`
	MaxBodyBytes      int64         `env:"CADENCE_HTTP_MAX_BODY_BYTES"`

	// AllowedOrigins lists browser origins allowed by CORS, comma separated.
	AllowedOrigins []string `env:"CADENCE_HTTP_ALLOWED_ORIGINS"`
}

// TodoConfig holds todo service configuration.
type TodoConfig struct {
	DefaultPageSize       int `env:"CADENCE_DEFAULT_PAGE_SIZE" default:"50"`
	MaxPageSize           int `env:"CADENCE_MAX_PAGE_SIZE" default:"200"`
	MaxPreviewOccurrences int `env:"CADENCE_MAX_PREVIEW_OCCURRENCES" default:"50"`
}

// Validate validates the todo configuration.
func (c *TodoConfig) Validate() error {
	if c.DefaultPageSize < 1 || c.DefaultPageSize > c.MaxPageSize {
		return ErrInvalidPageSize
	}
	return nil
}

// LoadServerConfig loads and validates server configuration from environment.
func LoadServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	return cfg, nil
}
