package cli

import (
	"github.com/spf13/cobra"

	"price-elasticity/internal/app"
)

var (
	exportCSVPath    string
	exportOptCSVPath string
	exportPNGPath    string
	exportGroup      string
	exportMaxRows    int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the latest run as CSV and/or a revenue-curve PNG",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.ExportOptions{
			CSVPath:              exportCSVPath,
			OptimizationsCSVPath: exportOptCSVPath,
			PNGPath:              exportPNGPath,
			Group:                exportGroup,
			MaxRows:              exportMaxRows,
		}
		return getApp().Export(cmd.Context(), opts)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write CSV data")
	exportCmd.Flags().StringVar(&exportOptCSVPath, "optimizations-csv", "", "Path to write the latest run's recommendations as CSV")
	exportCmd.Flags().StringVar(&exportPNGPath, "png", "", "Path to write the revenue-curve PNG")
	exportCmd.Flags().StringVar(&exportGroup, "group", "", "Group to chart (defaults to overall)")
	exportCmd.Flags().IntVar(&exportMaxRows, "max-rows", 0, "Maximum rows to export (defaults to config)")
}
