// Package report renders estimation and recommendation results as terminal
// tables, CSV files, and PNG charts.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"price-elasticity/internal/elasticity"
	"price-elasticity/internal/storage"
)

// WriteResultsTable prints estimator results as an aligned table.
func WriteResultsTable(w io.Writer, results []elasticity.Result) {
	writer := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Group\tStatus\tElasticity\tStdErr\tR²\t95% CI\tN\tExcluded")

	for _, r := range results {
		if r.Status != elasticity.StatusOK {
			fmt.Fprintf(writer, "%s\t%s\t-\t-\t-\t-\t%d\t%d\n", r.Group, r.Status, r.SampleSize, r.Excluded)
			continue
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t[%s, %s]\t%d\t%d\n",
			r.Group,
			r.Status,
			formatFloat(r.Coefficient, 4),
			formatFloat(r.StdErr, 4),
			formatFloat(r.RSquared, 3),
			formatFloat(r.ConfidenceLo, 4),
			formatFloat(r.ConfidenceHi, 4),
			r.SampleSize,
			r.Excluded,
		)
	}

	writer.Flush()
}

// WriteOptimizationsTable prints pricing recommendations as an aligned table.
func WriteOptimizationsTable(w io.Writer, opts []elasticity.Optimization) {
	writer := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Group\tStatus\tElasticity\tOptimal Price\tProjected Revenue\tBaseline Revenue\tRevenue Δ%")

	for _, o := range opts {
		if o.Status == elasticity.StatusAnomalous {
			fmt.Fprintf(writer, "%s\t%s\t%s\t-\t-\t%s\t-\n",
				o.Group, o.Status, formatFloat(o.Elasticity, 4), formatFloat(o.BaselineRevenue, 2))
			continue
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			o.Group,
			o.Status,
			formatFloat(o.Elasticity, 4),
			formatFloat(o.OptimalPrice, 2),
			formatFloat(o.ProjectedRevenue, 2),
			formatFloat(o.BaselineRevenue, 2),
			formatFloat(o.RevenueChangePct, 2),
		)
	}

	writer.Flush()
}

// WriteRecordsTable prints persisted result rows, newest run first.
func WriteRecordsTable(w io.Writer, records []storage.ElasticityRecord) {
	writer := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Run (UTC)\tGroup\tStatus\tElasticity\tR²\tN\tMean Price")

	for _, r := range records {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			r.RunAt.UTC().Format(time.RFC3339),
			sanitizeInline(r.GroupKey),
			r.Status,
			formatFloat(r.Coefficient, 4),
			formatFloat(r.RSquared, 3),
			r.SampleSize,
			r.MeanPrice.StringFixed(2),
		)
	}

	writer.Flush()
}

func formatFloat(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

func sanitizeInline(v string) string {
	cleaned := strings.ReplaceAll(v, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")
	return cleaned
}
