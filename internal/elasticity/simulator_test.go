package elasticity

import (
	"math"
	"testing"
)

func TestSimulateLinearApproximation(t *testing.T) {
	baseline := Baseline{Price: 10, Quantity: 100}

	sim, err := Simulate(baseline, -2, 5)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if sim.QuantityChangePct != -10 {
		t.Fatalf("expected -10%% quantity change, got %v", sim.QuantityChangePct)
	}
	if math.Abs(sim.ProjectedQuantity-90) > 1e-9 {
		t.Fatalf("expected projected quantity 90, got %v", sim.ProjectedQuantity)
	}
	if math.Abs(sim.ProjectedRevenue-10.5*90) > 1e-9 {
		t.Fatalf("expected revenue 945, got %v", sim.ProjectedRevenue)
	}
}

func TestSimulateConvergesWithCurveForSmallChanges(t *testing.T) {
	baseline := Baseline{Price: 10, Quantity: 100}
	curve := CurveFromBaseline(baseline, -2)

	sim, err := Simulate(baseline, -2, 1)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	exact := curve.QuantityAt(baseline.Price * 1.01)
	diff := math.Abs(sim.ProjectedQuantity-exact) / exact
	if diff > 0.01 {
		t.Fatalf("linear and power-law projections differ by %.3f%% at a 1%% change", diff*100)
	}
}

func TestSimulateDivergenceGrowsWithPriceChange(t *testing.T) {
	baseline := Baseline{Price: 10, Quantity: 100}
	curve := CurveFromBaseline(baseline, -2)

	prev := -1.0
	for _, changePct := range []float64{1, 5, 10, 25, 50} {
		sim, err := Simulate(baseline, -2, changePct)
		if err != nil {
			t.Fatalf("Simulate(%v%%): %v", changePct, err)
		}

		exact := curve.QuantityAt(baseline.Price * (1 + changePct/100))
		diff := math.Abs(sim.ProjectedQuantity-exact) / exact
		if diff <= prev {
			t.Fatalf("divergence did not grow at %v%%: %v vs previous %v", changePct, diff, prev)
		}
		prev = diff
	}
}

func TestSimulateClampsQuantityAtZero(t *testing.T) {
	sim, err := Simulate(Baseline{Price: 10, Quantity: 100}, -3, 50)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if sim.ProjectedQuantity != 0 {
		t.Fatalf("expected quantity clamped at zero, got %v", sim.ProjectedQuantity)
	}
	if sim.ProjectedRevenue != 0 {
		t.Fatalf("expected zero revenue, got %v", sim.ProjectedRevenue)
	}
}

func TestSimulateRejectsInvalidInput(t *testing.T) {
	if _, err := Simulate(Baseline{Price: 0, Quantity: 10}, -1, 5); err == nil {
		t.Fatal("zero baseline price should fail")
	}
	if _, err := Simulate(Baseline{Price: 10, Quantity: 10}, -1, -100); err == nil {
		t.Fatal("a -100% price change should fail")
	}
}
