package cli

import (
	"github.com/spf13/cobra"

	"price-elasticity/internal/app"
)

var (
	runDataPath string
	runWorkers  int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full analysis pipeline once",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.RunOptions{
			DataPath: runDataPath,
			Workers:  runWorkers,
		}
		return getApp().Run(cmd.Context(), opts)
	},
}

func init() {
	runCmd.Flags().StringVar(&runDataPath, "data", "", "Dataset path (defaults to config)")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "Concurrent partition workers (defaults to config)")
}
