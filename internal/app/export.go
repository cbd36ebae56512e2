package app

import (
	"context"
	"errors"
	"fmt"

	"price-elasticity/internal/elasticity"
	"price-elasticity/internal/report"
	"price-elasticity/internal/storage"
)

// Export writes the latest run's results and recommendations as CSV and/or
// renders a revenue curve PNG for one group.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.OptimizationsCSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv, --optimizations-csv, or --png must be provided")
	}

	maxRows := a.Config.Export.MaxRows
	if opts.MaxRows > 0 {
		maxRows = opts.MaxRows
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot export")
	}
	if closeStore != nil {
		defer closeStore()
	}

	records, err := store.ListLatestRunResults(ctx, maxRows)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		a.Logger.Info().Msg("no results found to export")
		return nil
	}

	results := make([]elasticity.Result, 0, len(records))
	for _, r := range records {
		results = append(results, recordToResult(r))
	}

	if opts.CSVPath != "" {
		if err := report.WriteResultsCSV(opts.CSVPath, results); err != nil {
			return err
		}
		a.Logger.Info().Str("path", opts.CSVPath).Int("rows", len(results)).Msg("results exported")
	}

	if opts.OptimizationsCSVPath != "" {
		if err := a.exportOptimizations(ctx, store, opts.OptimizationsCSVPath, maxRows); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := a.exportCurve(opts, results); err != nil {
			return err
		}
	}

	return nil
}

func (a *App) exportCurve(opts ExportOptions, results []elasticity.Result) error {
	group := opts.Group
	if group == "" {
		group = elasticity.OverallGroup
	}

	var target *elasticity.Result
	for i := range results {
		if results[i].Group == group {
			target = &results[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("group %q not found in latest run", group)
	}
	if target.Status != elasticity.StatusOK {
		return fmt.Errorf("group %q has status %s; no curve to render", group, target.Status)
	}

	baseline := elasticity.Baseline{Price: target.MeanPrice, Quantity: target.MeanQuantity}
	floor, ceiling := a.Config.Optimizer.Range(baseline.Price)
	bounds := elasticity.PriceRange{Floor: floor, Ceiling: ceiling, Step: a.Config.Optimizer.GridStep}

	opt, err := elasticity.Optimize(baseline, target.Coefficient, bounds)
	if err != nil {
		return fmt.Errorf("optimize group %q: %w", group, err)
	}
	opt.Group = group

	curve := elasticity.CurveFromBaseline(baseline, target.Coefficient)
	if err := report.WriteRevenueCurvePNG(opts.PNGPath, group, curve, opt, bounds); err != nil {
		return err
	}

	a.Logger.Info().Str("path", opts.PNGPath).Str("group", group).Msg("revenue curve exported")
	return nil
}

func (a *App) exportOptimizations(ctx context.Context, store *storage.Store, path string, maxRows int) error {
	records, err := store.ListLatestRunOptimizations(ctx, maxRows)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		a.Logger.Info().Msg("no recommendations found to export")
		return nil
	}

	opts := make([]elasticity.Optimization, 0, len(records))
	for _, r := range records {
		opts = append(opts, recordToOptimization(r))
	}

	if err := report.WriteOptimizationsCSV(path, opts); err != nil {
		return err
	}
	a.Logger.Info().Str("path", path).Int("rows", len(opts)).Msg("recommendations exported")
	return nil
}

func recordToResult(r storage.ElasticityRecord) elasticity.Result {
	return elasticity.Result{
		Group:        r.GroupKey,
		Status:       r.Status,
		Coefficient:  r.Coefficient,
		StdErr:       r.StdErr,
		RSquared:     r.RSquared,
		ConfidenceLo: r.ConfidenceLo,
		ConfidenceHi: r.ConfidenceHi,
		SampleSize:   r.SampleSize,
		Excluded:     r.Excluded,
		MeanPrice:    r.MeanPrice.InexactFloat64(),
		MeanQuantity: r.MeanQuantity.InexactFloat64(),
	}
}

func recordToOptimization(r storage.OptimizationRecord) elasticity.Optimization {
	return elasticity.Optimization{
		Group:             r.GroupKey,
		Status:            r.Status,
		Elasticity:        r.Elasticity,
		OptimalPrice:      r.OptimalPrice.InexactFloat64(),
		ProjectedQuantity: r.ProjectedQuantity.InexactFloat64(),
		ProjectedRevenue:  r.ProjectedRevenue.InexactFloat64(),
		BaselinePrice:     r.BaselinePrice.InexactFloat64(),
		BaselineRevenue:   r.BaselineRevenue.InexactFloat64(),
		RevenueChangePct:  r.RevenueChangePct.InexactFloat64(),
	}
}
