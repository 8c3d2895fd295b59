package main

import (
	"context"
	"io"
	"log/slog"
)

// shutdowner abstracts the authenticator so tests can verify cleanup order
// without real infrastructure.
type shutdowner interface {
	Shutdown(context.Context) error
}

// newCleanup builds the shutdown hook: drain authenticator updates, close the
// report store if it holds a client, then close the database store.
// Nil dependencies are skipped.
func newCleanup(ctx context.Context, authenticator shutdowner, reports io.Closer, store io.Closer) func() {
	return func() {
		if authenticator != nil {
			if err := authenticator.Shutdown(ctx); err != nil {
				slog.Error("failed to shut down authenticator", slog.String("error", err.Error()))
			}
		}

		if reports != nil {
			if err := reports.Close(); err != nil {
				slog.Error("failed to close report store", slog.String("error", err.Error()))
			}
		}

		if store != nil {
			if err := store.Close(); err != nil {
				slog.Error("failed to close store", slog.String("error", err.Error()))
			}
		}
	}
}
