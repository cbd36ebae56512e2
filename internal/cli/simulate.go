package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"price-elasticity/internal/app"
)

var (
	simulateElasticity float64
	simulatePrice      float64
	simulateQuantity   float64
	simulateChangePct  float64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Project the demand effect of a percentage price change",
	RunE: func(cmd *cobra.Command, args []string) error {
		if simulatePrice <= 0 || simulateQuantity <= 0 {
			return errors.New("--price and --quantity must be greater than 0")
		}
		if simulateChangePct == 0 {
			return errors.New("--change must be provided and non-zero")
		}

		opts := app.SimulateOptions{
			Elasticity:     simulateElasticity,
			Price:          simulatePrice,
			Quantity:       simulateQuantity,
			PriceChangePct: simulateChangePct,
		}
		return getApp().Simulate(cmd.Context(), opts)
	},
}

func init() {
	simulateCmd.Flags().Float64Var(&simulateElasticity, "elasticity", 0, "Estimated elasticity coefficient")
	simulateCmd.Flags().Float64Var(&simulatePrice, "price", 0, "Current price")
	simulateCmd.Flags().Float64Var(&simulateQuantity, "quantity", 0, "Current quantity sold")
	simulateCmd.Flags().Float64Var(&simulateChangePct, "change", 0, "Price change in percent, e.g. -10 for a 10% cut")
}
