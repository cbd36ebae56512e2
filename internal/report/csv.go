package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"price-elasticity/internal/elasticity"
)

// WriteResultsCSV writes estimator results to a CSV file, creating parent
// directories as needed.
func WriteResultsCSV(path string, results []elasticity.Result) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"group", "status", "coefficient", "std_err", "r_squared", "confidence_lo", "confidence_hi", "sample_size", "excluded", "mean_price", "mean_quantity"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range results {
		record := []string{
			r.Group,
			r.Status,
			formatCSVFloat(r.Coefficient, r.Status == elasticity.StatusOK),
			formatCSVFloat(r.StdErr, r.Status == elasticity.StatusOK),
			formatCSVFloat(r.RSquared, r.Status == elasticity.StatusOK),
			formatCSVFloat(r.ConfidenceLo, r.Status == elasticity.StatusOK),
			formatCSVFloat(r.ConfidenceHi, r.Status == elasticity.StatusOK),
			strconv.Itoa(r.SampleSize),
			strconv.Itoa(r.Excluded),
			formatCSVFloat(r.MeanPrice, r.Status == elasticity.StatusOK),
			formatCSVFloat(r.MeanQuantity, r.Status == elasticity.StatusOK),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

// WriteOptimizationsCSV writes pricing recommendations to a CSV file.
func WriteOptimizationsCSV(path string, opts []elasticity.Optimization) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"group", "status", "elasticity", "optimal_price", "projected_quantity", "projected_revenue", "baseline_price", "baseline_revenue", "revenue_change_pct"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, o := range opts {
		usable := o.Status != elasticity.StatusAnomalous
		record := []string{
			o.Group,
			o.Status,
			strconv.FormatFloat(o.Elasticity, 'f', -1, 64),
			formatCSVFloat(o.OptimalPrice, usable),
			formatCSVFloat(o.ProjectedQuantity, usable),
			formatCSVFloat(o.ProjectedRevenue, usable),
			strconv.FormatFloat(o.BaselinePrice, 'f', -1, 64),
			strconv.FormatFloat(o.BaselineRevenue, 'f', -1, 64),
			formatCSVFloat(o.RevenueChangePct, usable),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

// formatCSVFloat leaves the field empty when the row's status says the value
// was never computed, so a blank cannot be mistaken for zero.
func formatCSVFloat(v float64, usable bool) string {
	if !usable {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
