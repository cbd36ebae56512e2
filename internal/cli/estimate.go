package cli

import (
	"github.com/spf13/cobra"

	"price-elasticity/internal/app"
)

var (
	estimateDataPath string
	estimateWorkers  int
	estimateCSVPath  string
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate elasticity per group without optimizing",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.EstimateOptions{
			DataPath: estimateDataPath,
			Workers:  estimateWorkers,
			CSVPath:  estimateCSVPath,
		}
		return getApp().Estimate(cmd.Context(), opts)
	},
}

func init() {
	estimateCmd.Flags().StringVar(&estimateDataPath, "data", "", "Dataset path (defaults to config)")
	estimateCmd.Flags().IntVar(&estimateWorkers, "workers", 0, "Concurrent partition workers (defaults to config)")
	estimateCmd.Flags().StringVar(&estimateCSVPath, "csv", "", "Also write the result table to this CSV path")
}
