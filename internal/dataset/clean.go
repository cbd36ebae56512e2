package dataset

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"price-elasticity/internal/elasticity"
)

// CleanConfig tunes the cleaning pass.
type CleanConfig struct {
	// OutlierStdDevs trims rows whose price or quantity falls beyond this
	// many standard deviations from the mean. Zero disables the trim.
	OutlierStdDevs float64
}

// CleanStats reports what the cleaning pass removed.
type CleanStats struct {
	Input       int
	Kept        int
	NonPositive int
	Outliers    int
}

// Clean drops rows with non-positive prices or negative quantities, trims
// extreme outliers, and sorts the remainder by date. The input slice is not
// modified.
func Clean(obs []elasticity.Observation, cfg CleanConfig) ([]elasticity.Observation, CleanStats) {
	stats := CleanStats{Input: len(obs)}

	kept := make([]elasticity.Observation, 0, len(obs))
	for _, o := range obs {
		if o.Price <= 0 || o.Quantity < 0 {
			stats.NonPositive++
			continue
		}
		kept = append(kept, o)
	}

	if cfg.OutlierStdDevs > 0 && len(kept) > 1 {
		kept, stats.Outliers = trimOutliers(kept, cfg.OutlierStdDevs)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Date.Before(kept[j].Date)
	})

	stats.Kept = len(kept)
	return kept, stats
}

func trimOutliers(obs []elasticity.Observation, sigmas float64) ([]elasticity.Observation, int) {
	prices := make([]float64, len(obs))
	quantities := make([]float64, len(obs))
	for i, o := range obs {
		prices[i] = o.Price
		quantities[i] = o.Quantity
	}

	priceMean, priceStd := stat.MeanStdDev(prices, nil)
	qtyMean, qtyStd := stat.MeanStdDev(quantities, nil)

	within := func(v, mean, std float64) bool {
		if std == 0 {
			return true
		}
		return v >= mean-sigmas*std && v <= mean+sigmas*std
	}

	kept := obs[:0]
	trimmed := 0
	for _, o := range obs {
		if within(o.Price, priceMean, priceStd) && within(o.Quantity, qtyMean, qtyStd) {
			kept = append(kept, o)
			continue
		}
		trimmed++
	}
	return kept, trimmed
}
