package app

import (
	"context"
	"fmt"
	"math"
	"os"

	"price-elasticity/internal/elasticity"
	"price-elasticity/internal/report"
)

// Optimize computes the revenue-maximizing price for an explicit baseline
// and elasticity, cross-checking the closed form against the grid search.
func (a *App) Optimize(ctx context.Context, opts OptimizeOptions) error {
	baseline := elasticity.Baseline{Price: opts.Price, Quantity: opts.Quantity}

	floor, ceiling := a.Config.Optimizer.Range(opts.Price)
	if opts.Floor > 0 {
		floor = opts.Floor
	}
	if opts.Ceiling > 0 {
		ceiling = opts.Ceiling
	}
	step := a.Config.Optimizer.GridStep
	if opts.GridStep > 0 {
		step = opts.GridStep
	}
	bounds := elasticity.PriceRange{Floor: floor, Ceiling: ceiling, Step: step}

	closed, err := elasticity.Optimize(baseline, opts.Elasticity, bounds)
	if err != nil {
		return err
	}
	grid, err := elasticity.GridSearch(baseline, opts.Elasticity, bounds)
	if err != nil {
		return err
	}

	diffPct := math.Abs(closed.OptimalPrice-grid.OptimalPrice) / grid.OptimalPrice * 100
	if diffPct > a.Config.Optimizer.TolerancePct {
		a.Logger.Warn().
			Float64("closed_form", closed.OptimalPrice).
			Float64("grid", grid.OptimalPrice).
			Float64("diff_pct", diffPct).
			Msg("closed form and grid search disagree beyond tolerance")
	}

	closed.Group = "closed-form"
	grid.Group = "grid-search"
	report.WriteOptimizationsTable(os.Stdout, []elasticity.Optimization{closed, grid})

	if closed.Status == elasticity.StatusNoInteriorOptimum {
		fmt.Fprintln(os.Stdout, "\nnote: demand is inelastic under the model; revenue shown at the price ceiling, no interior optimum exists")
	}

	return nil
}
