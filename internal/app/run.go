package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"price-elasticity/internal/pipeline"
	"price-elasticity/internal/report"
	"price-elasticity/internal/storage"
)

// Run executes the full analysis pipeline once: load, clean, estimate,
// optimize, persist when a database is configured, and print the result
// tables.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	if opts.Workers > 0 {
		a.Config.Estimator.Workers = opts.Workers
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		a.Logger.Warn().Msg("database.dsn not configured; persistence disabled")
	}
	if closeStore != nil {
		defer closeStore()
	}

	var resultStore storage.ResultStore
	var optimizationStore storage.OptimizationStore
	if store != nil {
		resultStore = store
		optimizationStore = store
	}

	source := a.newSource(opts.DataPath)
	p := pipeline.New(a.Config, source, resultStore, optimizationStore, a.Logger)

	outcome, err := p.Run(ctx)
	if errors.Is(err, pipeline.ErrRunInProgress) {
		a.Logger.Warn().Msg("skipping run; another invocation holds the lock")
		return err
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Run %s: %d rows in, %d kept (%d non-positive, %d outliers)\n\n",
		outcome.RunAt.Format("2006-01-02 15:04:05"),
		outcome.CleanStats.Input,
		outcome.CleanStats.Kept,
		outcome.CleanStats.NonPositive,
		outcome.CleanStats.Outliers,
	)

	report.WriteResultsTable(os.Stdout, outcome.Results)
	if len(outcome.Optimizations) > 0 {
		fmt.Fprintln(os.Stdout)
		report.WriteOptimizationsTable(os.Stdout, outcome.Optimizations)
	}

	return nil
}
