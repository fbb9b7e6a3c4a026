package main

import (
	"net/url"

	"github.com/rezkam/cadence/internal/application/todo"
	"github.com/rezkam/cadence/internal/config"
	httpServer "github.com/rezkam/cadence/internal/infrastructure/http"
	"github.com/rezkam/cadence/internal/infrastructure/observability"
	"github.com/rezkam/cadence/internal/infrastructure/persistence/sqlstore"
)

func storeConfig(cfg config.DatabaseConfig) (sqlstore.DBConfig, error) {
	dialect, err := sqlstore.ParseDialect(cfg.Driver)
	if err != nil {
		return sqlstore.DBConfig{}, err
	}
	return sqlstore.DBConfig{
		Dialect:         dialect,
		DSN:             cfg.DSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
		BusyTimeout:     cfg.BusyTimeout,
	}, nil
}

func todoConfig(cfg config.TodoConfig) todo.Config {
	return todo.Config{
		DefaultPageSize:       cfg.DefaultPageSize,
		MaxPageSize:           cfg.MaxPageSize,
		MaxPreviewOccurrences: cfg.MaxPreviewOccurrences,
	}
}

func serverConfig(cfg config.HTTPConfig) httpServer.ServerConfig {
	return httpServer.ServerConfig{
		Host:              cfg.Host,
		Port:              cfg.Port,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
		MaxBodyBytes:      cfg.MaxBodyBytes,
		AllowedOrigins:    cfg.AllowedOrigins,
	}
}

func observabilityConfig(cfg config.ObservabilityConfig) (observability.Config, error) {
	level, err := cfg.Level()
	if err != nil {
		return observability.Config{}, err
	}
	return observability.Config{
		Enabled:     cfg.OTelEnabled,
		ServiceName: cfg.ServiceName,
		LogLevel:    level,
	}, nil
}

// maskDSN hides the password of URL-style DSNs for logging. SQLite paths
// carry no credentials and pass through.
func maskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "[REDACTED]"
	}
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), "xxxxxx")
		}
	}
	return u.String()
}
