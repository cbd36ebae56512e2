package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"price-elasticity/internal/app"
)

var (
	optimizeElasticity float64
	optimizePrice      float64
	optimizeQuantity   float64
	optimizeFloor      float64
	optimizeCeiling    float64
	optimizeStep       float64
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Recommend a revenue-maximizing price for a baseline",
	RunE: func(cmd *cobra.Command, args []string) error {
		if optimizePrice <= 0 || optimizeQuantity <= 0 {
			return errors.New("--price and --quantity must be greater than 0")
		}
		if optimizeElasticity == 0 {
			return errors.New("--elasticity must be provided and non-zero")
		}

		opts := app.OptimizeOptions{
			Elasticity: optimizeElasticity,
			Price:      optimizePrice,
			Quantity:   optimizeQuantity,
			Floor:      optimizeFloor,
			Ceiling:    optimizeCeiling,
			GridStep:   optimizeStep,
		}
		return getApp().Optimize(cmd.Context(), opts)
	},
}

func init() {
	optimizeCmd.Flags().Float64Var(&optimizeElasticity, "elasticity", 0, "Estimated elasticity coefficient")
	optimizeCmd.Flags().Float64Var(&optimizePrice, "price", 0, "Current price")
	optimizeCmd.Flags().Float64Var(&optimizeQuantity, "quantity", 0, "Current quantity sold")
	optimizeCmd.Flags().Float64Var(&optimizeFloor, "floor", 0, "Price floor (defaults to config multiplier)")
	optimizeCmd.Flags().Float64Var(&optimizeCeiling, "ceiling", 0, "Price ceiling (defaults to config multiplier)")
	optimizeCmd.Flags().Float64Var(&optimizeStep, "step", 0, "Grid step for the numeric cross-check (defaults to config)")
}
