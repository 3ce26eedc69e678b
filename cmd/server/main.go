package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/playperu/bakken/internal/archive"
	"github.com/playperu/bakken/internal/config"
	"github.com/playperu/bakken/internal/database"
	"github.com/playperu/bakken/internal/handler/health"
	"github.com/playperu/bakken/internal/migrations"
	"github.com/playperu/bakken/internal/server"
	"github.com/playperu/bakken/internal/tournament"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	// --- Tournament ---
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	store := archive.NewStore(db, logger)
	broker := server.NewBroker()
	svc := tournament.Open(ctx, store, logger,
		tournament.WithMetrics(tournament.NewMetrics(reg)),
		tournament.WithPublisher(broker),
	)

	if cfg.RosterFile != "" {
		seedRoster(ctx, logger, store, svc, cfg.RosterFile)
	}

	var pinHash []byte
	if cfg.OperatorPINHash != "" {
		pinHash = []byte(cfg.OperatorPINHash)
		logger.Info("operator pin enabled")
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Tournament:  svc,
		Broker:      broker,
		Operator:    server.NewOperatorAuth(pinHash),
		Metrics:     reg,
		ReportTitle: cfg.ReportTitle,
		SPADir:      cfg.SPADir,
		Checks: map[string]health.Checker{
			"sqlite": database.Checker{DB: db},
			"schema": health.CheckFunc(func(context.Context) error { return migrations.Check(db) }),
		},
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

// seedRoster imports the roster file when the current year has none yet.
// Problems are logged; the ledger then keeps its existing or default teams.
func seedRoster(ctx context.Context, logger *slog.Logger, store *archive.Store, svc *tournament.Service, path string) {
	year := svc.Status().Year
	if _, err := store.Roster(ctx, year); !errors.Is(err, archive.ErrNotFound) {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("reading roster file", "path", path, "error", err)
		return
	}
	teams, change, err := svc.ImportRoster(ctx, data)
	if err != nil {
		logger.Warn("importing roster file", "path", path, "error", err)
		return
	}
	logger.Info("roster seeded", "path", path, "year", year, "teams", len(teams), "saved", change.Saved())
}
