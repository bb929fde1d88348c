// Package app wires the log store, its backend, and the observability
// endpoints into a runnable node process.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/concordfed/logdb/internal/logstore"
)

// Logger is the logging interface required by App.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// App runs the log store's background loops and diagnostic servers. All
// dependencies are injected; App does not open database connections.
type App struct {
	config Config
	logger Logger
	store  *logstore.Store
}

// New validates dependencies and constructs a runnable application.
func New(cfg Config, logger Logger, store *logstore.Store) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		return nil, fmt.Errorf("app: nil logger")
	}
	if store == nil {
		return nil, fmt.Errorf("app: nil store")
	}
	return &App{
		config: cfg,
		logger: logger,
		store:  store,
	}, nil
}

// Run starts the purge loop and diagnostic servers and blocks until shutdown
// or a fatal error.
func (a *App) Run(ctx context.Context) error {
	shutdownTracing, err := a.initTracing(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			a.logger.Warn("tracing shutdown failed", "error", err)
		}
	}()

	metricsSrv, metricsLis, err := a.metricsServer()
	if err != nil {
		return err
	}
	pprofSrv, pprofLis, err := a.pprofServer()
	if err != nil {
		return err
	}

	lastIndex, lastTerm := a.store.GetLastRecordIndex()
	a.logger.Info(
		"node started",
		"node_id", a.config.NodeID,
		"solo", a.config.Solo,
		"last_index", lastIndex,
		"last_term", lastTerm,
		"log_retention", a.config.LogRetention,
	)

	errCh := make(chan error, 3)

	go func() {
		if err := a.store.RunPurgeLoop(ctx, a.config.PurgeInterval); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("purge loop: %w", err)
		}
	}()
	if metricsSrv != nil {
		go func() {
			if err := metricsSrv.Serve(metricsLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics serve: %w", err)
			}
		}()
	}
	if pprofSrv != nil {
		go func() {
			if err := pprofSrv.Serve(pprofLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("pprof serve: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		shutdownHTTPServer(metricsSrv, a.logger, "metrics server")
		shutdownHTTPServer(pprofSrv, a.logger, "pprof server")
		return nil
	case err := <-errCh:
		shutdownHTTPServer(metricsSrv, a.logger, "metrics server")
		shutdownHTTPServer(pprofSrv, a.logger, "pprof server")
		return err
	}
}
