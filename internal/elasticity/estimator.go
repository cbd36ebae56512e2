package elasticity

import (
	"context"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// EstimatorConfig tunes partition fitting.
type EstimatorConfig struct {
	// MinSamples is the minimum number of usable rows a partition needs
	// before a fit is attempted.
	MinSamples int
	// ConfidenceLevel sets the coefficient confidence interval, e.g. 0.95.
	ConfidenceLevel float64
}

const (
	defaultMinSamples      = 10
	defaultConfidenceLevel = 0.95
)

func (c EstimatorConfig) withDefaults() EstimatorConfig {
	if c.MinSamples <= 0 {
		c.MinSamples = defaultMinSamples
	}
	if c.ConfidenceLevel <= 0 || c.ConfidenceLevel >= 1 {
		c.ConfidenceLevel = defaultConfidenceLevel
	}
	return c
}

// Estimate fits log(quantity) = a + b*log(price) over a single partition and
// returns b as the elasticity coefficient. Rows with non-positive price or
// quantity are excluded and counted. The group label defaults to
// OverallGroup when no observation carries one.
func Estimate(obs []Observation, cfg EstimatorConfig) Result {
	group := OverallGroup
	for _, o := range obs {
		if o.Group != "" {
			group = o.Group
			break
		}
	}
	return estimatePartition(group, obs, cfg.withDefaults())
}

// EstimateGroups partitions observations by group key and fits each
// partition independently. Partitions are processed concurrently by up to
// workers goroutines; results are merged sorted by group key. A partition
// failure is reported through its row status and never aborts the others.
func EstimateGroups(ctx context.Context, obs []Observation, cfg EstimatorConfig, workers int) ([]Result, error) {
	cfg = cfg.withDefaults()

	partitions := make(map[string][]Observation)
	for _, o := range obs {
		key := o.Group
		if key == "" {
			key = OverallGroup
		}
		partitions[key] = append(partitions[key], o)
	}

	keys := make([]string, 0, len(partitions))
	for key := range partitions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	if workers <= 0 {
		workers = 1
	}

	results := make([]Result, len(keys))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, key := range keys {
		i, key := i, key
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		g.Go(func() error {
			results[i] = estimatePartition(key, partitions[key], cfg)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func estimatePartition(group string, obs []Observation, cfg EstimatorConfig) Result {
	logPrice := make([]float64, 0, len(obs))
	logQty := make([]float64, 0, len(obs))
	var sumPrice, sumQty float64

	for _, o := range obs {
		if o.Price <= 0 || o.Quantity <= 0 {
			continue
		}
		logPrice = append(logPrice, math.Log(o.Price))
		logQty = append(logQty, math.Log(o.Quantity))
		sumPrice += o.Price
		sumQty += o.Quantity
	}

	n := len(logPrice)
	result := Result{
		Group:      group,
		SampleSize: n,
		Excluded:   len(obs) - n,
	}

	if n < cfg.MinSamples {
		result.Status = StatusInsufficientData
		return result
	}

	// Zero variance in log-price makes the slope undefined.
	if stat.Variance(logPrice, nil) == 0 {
		result.Status = StatusDegenerateInput
		return result
	}

	alpha, beta := stat.LinearRegression(logPrice, logQty, nil, false)

	meanX := stat.Mean(logPrice, nil)
	meanY := stat.Mean(logQty, nil)
	var sse, sst, sxx float64
	for i := range logPrice {
		residual := logQty[i] - (alpha + beta*logPrice[i])
		sse += residual * residual
		dy := logQty[i] - meanY
		sst += dy * dy
		dx := logPrice[i] - meanX
		sxx += dx * dx
	}

	rsq := 1.0
	if sst > 0 {
		rsq = 1 - sse/sst
	}

	var stderr float64
	if n > 2 {
		stderr = math.Sqrt(sse / float64(n-2) / sxx)
	}

	lo, hi := beta, beta
	if stderr > 0 {
		t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
		crit := t.Quantile(0.5 + cfg.ConfidenceLevel/2)
		lo = beta - crit*stderr
		hi = beta + crit*stderr
	}

	result.Status = StatusOK
	result.Coefficient = beta
	result.StdErr = stderr
	result.RSquared = rsq
	result.ConfidenceLo = lo
	result.ConfidenceHi = hi
	result.MeanPrice = sumPrice / float64(n)
	result.MeanQuantity = sumQty / float64(n)
	return result
}
