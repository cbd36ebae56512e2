package app

import (
	"context"
	"os"

	"price-elasticity/internal/dataset"
	"price-elasticity/internal/elasticity"
	"price-elasticity/internal/report"
)

// Estimate loads and cleans the dataset, fits every partition, and prints
// the result table. Optionally writes the table as CSV.
func (a *App) Estimate(ctx context.Context, opts EstimateOptions) error {
	source := a.newSource(opts.DataPath)

	obs, err := source.Load(ctx)
	if err != nil {
		return err
	}

	cleaned, stats := dataset.Clean(obs, dataset.CleanConfig{OutlierStdDevs: a.Config.Data.OutlierStdDevs})
	a.Logger.Info().
		Int("input", stats.Input).
		Int("kept", stats.Kept).
		Int("non_positive", stats.NonPositive).
		Int("outliers", stats.Outliers).
		Msg("dataset cleaned")

	results, err := elasticity.EstimateGroups(ctx, cleaned, elasticity.EstimatorConfig{
		MinSamples:      a.Config.Estimator.MinSamples,
		ConfidenceLevel: a.Config.Estimator.ConfidenceLevel,
	}, a.Config.ResolveWorkers(opts.Workers))
	if err != nil {
		return err
	}

	report.WriteResultsTable(os.Stdout, results)

	if opts.CSVPath != "" {
		if err := report.WriteResultsCSV(opts.CSVPath, results); err != nil {
			return err
		}
		a.Logger.Info().Str("path", opts.CSVPath).Msg("results written")
	}

	return nil
}
