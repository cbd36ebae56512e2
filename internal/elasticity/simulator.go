package elasticity

import "fmt"

// Simulate projects the effect of a percentage price change on quantity and
// revenue using the linear elasticity approximation: the quantity change in
// percent is elasticity times the price change in percent.
//
// This is a local approximation valid for small price changes. It is not the
// power-law Curve used by the optimizer, and the two diverge as the price
// change grows; use CurveFromBaseline when the exact model projection is
// needed.
func Simulate(b Baseline, elasticity, priceChangePct float64) (Simulation, error) {
	if b.Price <= 0 {
		return Simulation{}, fmt.Errorf("baseline price must be positive, got %v", b.Price)
	}
	if b.Quantity < 0 {
		return Simulation{}, fmt.Errorf("baseline quantity cannot be negative, got %v", b.Quantity)
	}
	if priceChangePct <= -100 {
		return Simulation{}, fmt.Errorf("price change of %v%% implies a non-positive price", priceChangePct)
	}

	quantityChangePct := elasticity * priceChangePct
	price := b.Price * (1 + priceChangePct/100)
	quantity := b.Quantity * (1 + quantityChangePct/100)
	if quantity < 0 {
		// The linear approximation can overshoot below zero for large
		// drops; demand cannot go negative.
		quantity = 0
	}

	revenue := price * quantity
	baselineRevenue := b.Revenue()

	changePct := 0.0
	if baselineRevenue > 0 {
		changePct = (revenue/baselineRevenue - 1) * 100
	}

	return Simulation{
		PriceChangePct:    priceChangePct,
		QuantityChangePct: quantityChangePct,
		ProjectedPrice:    price,
		ProjectedQuantity: quantity,
		ProjectedRevenue:  revenue,
		BaselineRevenue:   baselineRevenue,
		RevenueChangePct:  changePct,
	}, nil
}
