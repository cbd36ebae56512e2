// Package dataset loads and cleans retail sales observations before
// estimation.
package dataset

import (
	"context"

	"price-elasticity/internal/elasticity"
)

// Columns maps configured column names onto observation fields. Price and
// Quantity are required; Group and Date are optional.
type Columns struct {
	Price    string
	Quantity string
	Group    string
	Date     string
}

// Source supplies the observations a run operates on.
type Source interface {
	Load(ctx context.Context) ([]elasticity.Observation, error)
}
