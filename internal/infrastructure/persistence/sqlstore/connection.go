package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var embedMigrations embed.FS

// DBConfig holds database connection configuration.
type DBConfig struct {
	Dialect         Dialect       // sqlite (default) or postgres
	DSN             string        // File path or file: URI for SQLite, connection string for PostgreSQL
	MaxOpenConns    int           // PostgreSQL only (default: 25); SQLite always uses one connection
	MaxIdleConns    int           // PostgreSQL only (default: 5)
	ConnMaxLifetime time.Duration // Connection max lifetime (default: 5min)
	ConnMaxIdleTime time.Duration // Connection max idle time (default: 1min)
	BusyTimeout     time.Duration // SQLite lock wait (default: 5s)
}

// Open connects to the configured database, applies pending migrations
// and returns a ready store.
func Open(ctx context.Context, cfg DBConfig) (*Store, error) {
	if cfg.Dialect == "" {
		cfg.Dialect = SQLite
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN is required")
	}

	dsn := cfg.DSN
	if cfg.Dialect == SQLite {
		dsn = sqliteDSN(dsn, cfg.BusyTimeout)
	}

	db, err := sql.Open(cfg.Dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	configurePool(db, cfg)

	if err := db.PingContext(ctx); err != nil {
		closeDB(ctx, db)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(ctx, db, cfg.Dialect); err != nil {
		closeDB(ctx, db)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.InfoContext(ctx, "database ready", slog.String("dialect", string(cfg.Dialect)))
	return NewStore(db, cfg.Dialect), nil
}

func configurePool(db *sql.DB, cfg DBConfig) {
	connMaxLifetime := cfg.ConnMaxLifetime
	if connMaxLifetime <= 0 {
		connMaxLifetime = 5 * time.Minute
	}
	connMaxIdleTime := cfg.ConnMaxIdleTime
	if connMaxIdleTime <= 0 {
		connMaxIdleTime = 1 * time.Minute
	}

	if cfg.Dialect == SQLite {
		// SQLite serialises writers; one connection also keeps :memory: databases alive.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
		return
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 25
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 5
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(connMaxLifetime)
	db.SetConnMaxIdleTime(connMaxIdleTime)
}

// sqliteDSN enables foreign keys and a busy timeout on every connection
// unless the DSN already sets pragmas.
func sqliteDSN(dsn string, busyTimeout time.Duration) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	if busyTimeout <= 0 {
		busyTimeout = 5 * time.Second
	}

	if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
		dsn = "file:" + dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)",
		dsn, sep, busyTimeout.Milliseconds())
}

// runMigrations applies the embedded migrations of the dialect with goose.
func runMigrations(ctx context.Context, db *sql.DB, dialect Dialect) error {
	fsys, err := fs.Sub(embedMigrations, dialect.migrationsDir())
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	provider, err := goose.NewProvider(dialect.gooseDialect(), db, fsys)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	for _, r := range results {
		slog.InfoContext(ctx, "applied migration",
			slog.String("source", r.Source.Path),
			slog.Duration("duration", r.Duration))
	}

	return nil
}

func closeDB(ctx context.Context, db *sql.DB) {
	if err := db.Close(); err != nil {
		slog.ErrorContext(ctx, "failed to close database", "error", err)
	}
}
