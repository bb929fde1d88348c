// Package main implements the node process that runs the persistent log
// store of the configuration database. The consensus module and the
// federated replicator are external collaborators wired in by the embedding
// deployment; this process runs the store solo by default.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"

	apppkg "github.com/concordfed/logdb/internal/app"
	"github.com/concordfed/logdb/internal/logstore"
	"github.com/concordfed/logdb/internal/logstore/sqlbackend"
	obsmetrics "github.com/concordfed/logdb/internal/observability/metrics"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "logdbnode: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := apppkg.LoadConfigFromEnv()
	if err != nil {
		return err
	}

	slog.SetDefault(newLogger(cfg.LogLevel))
	logger := slog.Default()

	var backend logstore.Backend
	switch cfg.Backend {
	case apppkg.BackendTypeMySQL:
		backend, err = sqlbackend.New(cfg.MySQL)
		if err != nil {
			return err
		}
	case apppkg.BackendTypeMemory:
		backend = logstore.NewMemoryBackend()
	default:
		return fmt.Errorf("unsupported backend type %q", cfg.Backend)
	}

	storeMetrics, err := obsmetrics.NewPrometheus(prometheus.DefaultRegisterer, cfg.NodeID)
	if err != nil {
		_ = backend.Close()
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := logstore.Open(
		ctx,
		cfg.LogStore(),
		backend,
		nil, // consensus joins via the embedding deployment
		logger,
		otel.Tracer("logdb/logstore"),
		storeMetrics,
	)
	if err != nil {
		_ = backend.Close()
		return err
	}
	defer func() { _ = store.Close() }()

	app, err := apppkg.New(cfg, logger, store)
	if err != nil {
		return err
	}

	return app.Run(ctx)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
