package elasticity

import (
	"errors"
	"fmt"
	"math"
)

// ErrAnomalousElasticity marks a positive coefficient reaching the
// optimizer. Upward-sloping modeled demand cannot be optimized and the input
// is refused rather than producing a silently wrong price.
var ErrAnomalousElasticity = errors.New("elasticity coefficient is positive; input untrustworthy")

// Curve is the constant-elasticity demand model quantity = Scale *
// price^Elasticity.
type Curve struct {
	Scale      float64
	Elasticity float64
}

// CurveFromBaseline solves the curve scale so it passes through the baseline
// point.
func CurveFromBaseline(b Baseline, elasticity float64) Curve {
	return Curve{
		Scale:      b.Quantity / math.Pow(b.Price, elasticity),
		Elasticity: elasticity,
	}
}

// QuantityAt evaluates the demand curve at a price.
func (c Curve) QuantityAt(price float64) float64 {
	return c.Scale * math.Pow(price, c.Elasticity)
}

// RevenueAt evaluates price times modeled quantity at a price.
func (c Curve) RevenueAt(price float64) float64 {
	return price * c.QuantityAt(price)
}

// Optimize recommends the revenue-maximizing price for a baseline under the
// constant-elasticity demand model, bounded by the caller's price range.
//
// Under the model, revenue Scale*price^(1+elasticity) is monotonic in price:
// strictly decreasing for elasticity < -1, so the optimum on the range is
// the floor; non-decreasing for -1 <= elasticity <= 0, so no finite interior
// optimum exists and the ceiling is reported with
// StatusNoInteriorOptimum. Unitary elasticity (revenue constant in price) is
// grouped on the no-interior-optimum side. Positive elasticity is refused
// with ErrAnomalousElasticity.
func Optimize(b Baseline, elasticity float64, bounds PriceRange) (Optimization, error) {
	if err := validateOptimizeInput(b, bounds, false); err != nil {
		return Optimization{}, err
	}
	if elasticity > 0 {
		return Optimization{}, ErrAnomalousElasticity
	}

	status := StatusOK
	price := bounds.Floor
	if elasticity >= -1 {
		status = StatusNoInteriorOptimum
		price = bounds.Ceiling
	}

	return buildOptimization(b, elasticity, price, status), nil
}

// GridSearch numerically scans the caller's price range for the
// revenue-maximizing price under the same demand model as Optimize. It is
// the declared fallback and agrees with the closed form wherever the closed
// form applies.
func GridSearch(b Baseline, elasticity float64, bounds PriceRange) (Optimization, error) {
	if err := validateOptimizeInput(b, bounds, true); err != nil {
		return Optimization{}, err
	}
	if elasticity > 0 {
		return Optimization{}, ErrAnomalousElasticity
	}

	curve := CurveFromBaseline(b, elasticity)
	best := bounds.Floor
	bestRevenue := curve.RevenueAt(bounds.Floor)
	for price := bounds.Floor + bounds.Step; price <= bounds.Ceiling; price += bounds.Step {
		if revenue := curve.RevenueAt(price); revenue > bestRevenue {
			best = price
			bestRevenue = revenue
		}
	}

	status := StatusOK
	if elasticity >= -1 {
		status = StatusNoInteriorOptimum
	}

	return buildOptimization(b, elasticity, best, status), nil
}

func buildOptimization(b Baseline, elasticity, price float64, status string) Optimization {
	curve := CurveFromBaseline(b, elasticity)
	quantity := curve.QuantityAt(price)
	revenue := price * quantity
	baselineRevenue := b.Revenue()

	changePct := 0.0
	if baselineRevenue > 0 {
		changePct = (revenue/baselineRevenue - 1) * 100
	}

	return Optimization{
		Status:            status,
		Elasticity:        elasticity,
		OptimalPrice:      price,
		ProjectedQuantity: quantity,
		ProjectedRevenue:  revenue,
		BaselinePrice:     b.Price,
		BaselineQuantity:  b.Quantity,
		BaselineRevenue:   baselineRevenue,
		RevenueChangePct:  changePct,
	}
}

func validateOptimizeInput(b Baseline, bounds PriceRange, needStep bool) error {
	if b.Price <= 0 {
		return fmt.Errorf("baseline price must be positive, got %v", b.Price)
	}
	if b.Quantity < 0 {
		return fmt.Errorf("baseline quantity cannot be negative, got %v", b.Quantity)
	}
	if bounds.Floor <= 0 {
		return fmt.Errorf("price floor must be positive, got %v", bounds.Floor)
	}
	if bounds.Ceiling <= bounds.Floor {
		return fmt.Errorf("price ceiling %v must exceed floor %v", bounds.Ceiling, bounds.Floor)
	}
	if needStep && bounds.Step <= 0 {
		return fmt.Errorf("grid step must be positive, got %v", bounds.Step)
	}
	return nil
}
