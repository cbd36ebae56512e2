package elasticity

import (
	"context"
	"math"
	"math/rand"
	"testing"
)

func syntheticObservations(group string, scale, elasticity float64, prices []float64) []Observation {
	obs := make([]Observation, 0, len(prices))
	for _, p := range prices {
		obs = append(obs, Observation{
			Group:    group,
			Price:    p,
			Quantity: scale * math.Pow(p, elasticity),
		})
	}
	return obs
}

func priceLadder(n int) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = 1 + 0.5*float64(i)
	}
	return prices
}

func TestEstimateRecoversSyntheticElasticity(t *testing.T) {
	obs := syntheticObservations("", 5, -1.8, priceLadder(30))

	result := Estimate(obs, EstimatorConfig{})
	if result.Status != StatusOK {
		t.Fatalf("expected ok status, got %q", result.Status)
	}
	if math.Abs(result.Coefficient+1.8) > 1e-9 {
		t.Fatalf("expected coefficient -1.8, got %v", result.Coefficient)
	}
	if math.Abs(result.RSquared-1) > 1e-9 {
		t.Fatalf("expected R^2 of 1 on noiseless data, got %v", result.RSquared)
	}
	if result.Group != OverallGroup {
		t.Fatalf("expected group %q, got %q", OverallGroup, result.Group)
	}
	if result.SampleSize != 30 || result.Excluded != 0 {
		t.Fatalf("unexpected sample accounting: n=%d excluded=%d", result.SampleSize, result.Excluded)
	}
}

func TestEstimateScaleInvariance(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	obs := make([]Observation, 0, 40)
	for i := 0; i < 40; i++ {
		price := 2 + rng.Float64()*18
		noise := math.Exp(rng.NormFloat64() * 0.1)
		obs = append(obs, Observation{Price: price, Quantity: 120 * math.Pow(price, -1.4) * noise})
	}

	base := Estimate(obs, EstimatorConfig{})
	if base.Status != StatusOK {
		t.Fatalf("expected ok status, got %q", base.Status)
	}

	const factor = 3.7
	scaled := make([]Observation, len(obs))
	for i, o := range obs {
		scaled[i] = Observation{Price: o.Price * factor, Quantity: o.Quantity * factor}
	}

	rescaled := Estimate(scaled, EstimatorConfig{})
	if math.Abs(rescaled.Coefficient-base.Coefficient) > 1e-9 {
		t.Fatalf("coefficient changed under uniform scaling: %v vs %v", base.Coefficient, rescaled.Coefficient)
	}
}

func TestEstimateInsufficientData(t *testing.T) {
	obs := syntheticObservations("snacks", 10, -2, []float64{1, 2, 3})

	result := Estimate(obs, EstimatorConfig{MinSamples: 10})
	if result.Status != StatusInsufficientData {
		t.Fatalf("expected insufficient_data, got %q", result.Status)
	}
	if result.SampleSize != 3 {
		t.Fatalf("expected sample size 3, got %d", result.SampleSize)
	}
	if result.Coefficient != 0 {
		t.Fatalf("failed partition must not report a coefficient, got %v", result.Coefficient)
	}
}

func TestEstimateDegenerateInput(t *testing.T) {
	obs := make([]Observation, 0, 12)
	for i := 0; i < 12; i++ {
		obs = append(obs, Observation{Price: 4.99, Quantity: float64(50 + i)})
	}

	result := Estimate(obs, EstimatorConfig{})
	if result.Status != StatusDegenerateInput {
		t.Fatalf("expected degenerate_input for constant prices, got %q", result.Status)
	}
}

func TestEstimateExcludesNonPositiveRows(t *testing.T) {
	obs := syntheticObservations("", 8, -1.2, priceLadder(15))
	obs = append(obs,
		Observation{Price: 0, Quantity: 10},
		Observation{Price: -3, Quantity: 10},
		Observation{Price: 5, Quantity: 0},
	)

	result := Estimate(obs, EstimatorConfig{})
	if result.Status != StatusOK {
		t.Fatalf("expected ok status, got %q", result.Status)
	}
	if result.Excluded != 3 {
		t.Fatalf("expected 3 excluded rows, got %d", result.Excluded)
	}
	if result.SampleSize != 15 {
		t.Fatalf("expected 15 usable rows, got %d", result.SampleSize)
	}
}

func TestEstimateConfidenceIntervalBracketsCoefficient(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	obs := make([]Observation, 0, 60)
	for i := 0; i < 60; i++ {
		price := 1 + rng.Float64()*9
		noise := math.Exp(rng.NormFloat64() * 0.05)
		obs = append(obs, Observation{Price: price, Quantity: 200 * math.Pow(price, -2.1) * noise})
	}

	result := Estimate(obs, EstimatorConfig{ConfidenceLevel: 0.95})
	if result.Status != StatusOK {
		t.Fatalf("expected ok status, got %q", result.Status)
	}
	if result.StdErr <= 0 {
		t.Fatalf("expected positive standard error on noisy data, got %v", result.StdErr)
	}
	if result.ConfidenceLo >= result.Coefficient || result.ConfidenceHi <= result.Coefficient {
		t.Fatalf("interval [%v, %v] does not bracket %v", result.ConfidenceLo, result.ConfidenceHi, result.Coefficient)
	}
}

func TestEstimateGroupsIsolatesPartitionFailures(t *testing.T) {
	obs := syntheticObservations("cereal", 40, -1.5, priceLadder(20))
	for i := 0; i < 12; i++ {
		obs = append(obs, Observation{Group: "soda", Price: 2.50, Quantity: float64(30 + i)})
	}
	obs = append(obs, syntheticObservations("water", 15, -0.8, []float64{1, 1.5})...)

	results, err := EstimateGroups(context.Background(), obs, EstimatorConfig{}, 4)
	if err != nil {
		t.Fatalf("EstimateGroups: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 partitions, got %d", len(results))
	}

	byGroup := make(map[string]Result, len(results))
	for _, r := range results {
		byGroup[r.Group] = r
	}

	if got := byGroup["cereal"].Status; got != StatusOK {
		t.Fatalf("cereal partition status = %q", got)
	}
	if got := byGroup["soda"].Status; got != StatusDegenerateInput {
		t.Fatalf("soda partition status = %q, want degenerate_input", got)
	}
	if got := byGroup["water"].Status; got != StatusInsufficientData {
		t.Fatalf("water partition status = %q, want insufficient_data", got)
	}

	// Merged output is ordered by group key.
	if results[0].Group != "cereal" || results[1].Group != "soda" || results[2].Group != "water" {
		t.Fatalf("results not sorted by group: %v, %v, %v", results[0].Group, results[1].Group, results[2].Group)
	}
}

func TestEstimateGroupsOverallFallback(t *testing.T) {
	obs := syntheticObservations("", 12, -1.1, priceLadder(12))

	results, err := EstimateGroups(context.Background(), obs, EstimatorConfig{}, 1)
	if err != nil {
		t.Fatalf("EstimateGroups: %v", err)
	}
	if len(results) != 1 || results[0].Group != OverallGroup {
		t.Fatalf("expected a single %q partition, got %+v", OverallGroup, results)
	}
}
