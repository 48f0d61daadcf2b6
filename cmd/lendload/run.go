package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/circulib/lending-go/ledger"
	"github.com/circulib/lending-go/ledger/memoryengine"
	"github.com/circulib/lending-go/ledger/postgresengine"
	"github.com/circulib/lending-go/shared/shell/config"
)

func newRunCommand(rootOpts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a load scenario against the lending ledger",
		Long: `Run a load scenario against the lending ledger.

The scenario file seeds the catalog, then the generator issues weighted
borrow/return/query commands at the configured rate until the scenario
duration elapses or the process is interrupted.

Example:
  lendload run ./scenarios/smoke.yaml
  lendload run --engine postgres ./scenarios/soak.yaml --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd.Context(), rootOpts, args[0])
		},
	}

	return cmd
}

func runScenario(ctx context.Context, opts *rootOptions, scenarioPath string) error {
	logger := setupLogger(opts.Verbose)

	scenario, loadErr := LoadScenario(scenarioPath)
	if loadErr != nil {
		return loadErr
	}

	duration, durationErr := scenario.RunDuration()
	if durationErr != nil {
		return durationErr
	}

	store, cleanup, storeErr := setupStore(ctx, opts, logger)
	if storeErr != nil {
		return storeErr
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig, ok := <-sigChan
		if ok {
			logger.Info("received signal, shutting down", "signal", sig.String())
			cancel()
		}
	}()
	defer signal.Stop(sigChan)

	generator := NewLoadGenerator(store, scenario, logger)

	if seedErr := generator.Seed(ctx); seedErr != nil {
		return fmt.Errorf("seeding catalog: %w", seedErr)
	}

	logger.Info("load generation started",
		"engine", opts.Engine,
		"rate", scenario.Rate,
		"borrowers", scenario.Borrowers,
		"seed_books", len(scenario.SeedBooks),
		"duration", duration.String(),
	)

	generator.Run(ctx)
	generator.LogStats(logger)

	return nil
}

func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// setupStore builds the ledger store for the selected engine and returns it
// with a cleanup func for the underlying connections.
func setupStore(ctx context.Context, opts *rootOptions, logger *slog.Logger) (ledger.Store, func(), error) {
	if opts.Engine == engineMemory {
		store, err := memoryengine.NewStore()
		if err != nil {
			return nil, nil, fmt.Errorf("creating memory ledger: %w", err)
		}

		return store, func() {}, nil
	}

	pgxPool, poolErr := pgxpool.NewWithConfig(ctx, config.PostgresPGXPoolConfig())
	if poolErr != nil {
		return nil, nil, fmt.Errorf("creating pgx pool: %w", poolErr)
	}

	if pingErr := pgxPool.Ping(ctx); pingErr != nil {
		pgxPool.Close()
		return nil, nil, fmt.Errorf("pinging database: %w", pingErr)
	}

	storeOptions := []postgresengine.Option{}
	if opts.Verbose {
		storeOptions = append(storeOptions, postgresengine.WithLogger(logger))
	}

	store, storeErr := postgresengine.NewStoreFromPGXPool(pgxPool, storeOptions...)
	if storeErr != nil {
		pgxPool.Close()
		return nil, nil, fmt.Errorf("creating postgres ledger: %w", storeErr)
	}

	return store, pgxPool.Close, nil
}
