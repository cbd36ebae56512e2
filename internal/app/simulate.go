package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"price-elasticity/internal/elasticity"
)

// Simulate projects a percentage price change with the linear approximation
// and prints it next to the exact power-law projection so the divergence is
// visible.
func (a *App) Simulate(ctx context.Context, opts SimulateOptions) error {
	// The library accepts a zero-quantity baseline, but the comparison
	// below divides by it to express the exact quantity change in percent.
	if opts.Quantity <= 0 {
		return fmt.Errorf("baseline quantity must be positive, got %v", opts.Quantity)
	}

	baseline := elasticity.Baseline{Price: opts.Price, Quantity: opts.Quantity}

	sim, err := elasticity.Simulate(baseline, opts.Elasticity, opts.PriceChangePct)
	if err != nil {
		return err
	}

	curve := elasticity.CurveFromBaseline(baseline, opts.Elasticity)
	exactQuantity := curve.QuantityAt(sim.ProjectedPrice)
	exactRevenue := curve.RevenueAt(sim.ProjectedPrice)

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "\tLinear approximation\tPower-law curve")
	fmt.Fprintf(writer, "Price\t%s\t%s\n", money(sim.ProjectedPrice), money(sim.ProjectedPrice))
	fmt.Fprintf(writer, "Quantity\t%s\t%s\n", money(sim.ProjectedQuantity), money(exactQuantity))
	fmt.Fprintf(writer, "Revenue\t%s\t%s\n", money(sim.ProjectedRevenue), money(exactRevenue))
	fmt.Fprintf(writer, "Quantity Δ%%\t%s\t%s\n",
		money(sim.QuantityChangePct),
		money((exactQuantity/opts.Quantity-1)*100),
	)
	writer.Flush()

	fmt.Fprintln(os.Stdout, "\nnote: the linear approximation is local; the two projections diverge as the price change grows")
	return nil
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
