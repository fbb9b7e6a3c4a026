package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

type shutdowner interface {
	Shutdown(context.Context) error
}

// newCleanup builds the shutdown hook: stop accepting requests and drain the
// server, then close the store, then flush telemetry so the shutdown logs and
// spans above are exported.
func newCleanup(ctx context.Context, server shutdowner, store io.Closer, telemetry shutdowner) func() {
	return func() {
		if server != nil {
			if err := server.Shutdown(ctx); err != nil {
				slog.ErrorContext(ctx, "failed to shut down HTTP server", "error", err)
			}
		}

		if store != nil {
			if err := store.Close(); err != nil {
				slog.ErrorContext(ctx, "failed to close store", "error", err)
			}
		}

		if telemetry != nil {
			if err := telemetry.Shutdown(ctx); err != nil {
				// The default logger may export through the provider that just failed.
				fmt.Fprintf(os.Stderr, "failed to shut down telemetry: %v\n", err)
			}
		}
	}
}
