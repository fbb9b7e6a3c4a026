package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rezkam/cadence/internal/application/todo"
	"github.com/rezkam/cadence/internal/config"
	httpServer "github.com/rezkam/cadence/internal/infrastructure/http"
	"github.com/rezkam/cadence/internal/infrastructure/http/handler"
	"github.com/rezkam/cadence/internal/infrastructure/observability"
	"github.com/rezkam/cadence/internal/infrastructure/persistence/sqlstore"
)

func main() {
	if err := run(); err != nil {
		// slog may not be initialized when config loading fails.
		fmt.Fprintf(os.Stderr, "failed to run: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return err
	}

	// Root context for normal operation; cancelled on SIGINT/SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	obsCfg, err := observabilityConfig(cfg.Observability)
	if err != nil {
		return err
	}
	telemetry, err := observability.Setup(ctx, obsCfg, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to init observability: %w", err)
	}

	dbCfg, err := storeConfig(cfg.Database)
	if err != nil {
		_ = telemetry.Shutdown(context.Background())
		return err
	}
	store, err := sqlstore.Open(ctx, dbCfg)
	if err != nil {
		_ = telemetry.Shutdown(context.Background())
		return fmt.Errorf("failed to open store: %w", err)
	}
	slog.InfoContext(ctx, "storage initialized", "driver", dbCfg.Dialect, "dsn", maskDSN(cfg.Database.DSN))

	svc := todo.NewService(store, todoConfig(cfg.Todo))

	api, err := handler.NewOpenAPIRouter(svc)
	if err != nil {
		_ = store.Close()
		_ = telemetry.Shutdown(context.Background())
		return fmt.Errorf("failed to build API router: %w", err)
	}

	server := httpServer.NewAPIServer(api, serverConfig(cfg.HTTP))

	errResult := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errResult <- fmt.Errorf("failed to serve HTTP: %w", err)
		}
	}()

	slog.InfoContext(ctx, "cadence started", "addr", server.Addr())

	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case runErr = <-errResult:
	}

	shutdownCtx, cancelShutdown := newShutdownContext(cfg.ShutdownTimeout)
	defer cancelShutdown()
	newCleanup(shutdownCtx, server, store, telemetry)()

	return runErr
}

// newShutdownContext creates a fresh context for shutdown work. The root
// context is already cancelled at this point.
func newShutdownContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}
