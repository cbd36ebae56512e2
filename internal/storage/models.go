package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

// ElasticityRecord is one persisted estimator row, keyed by run timestamp
// and group.
type ElasticityRecord struct {
	RunAt        time.Time
	GroupKey     string
	Status       string
	Coefficient  float64
	StdErr       float64
	RSquared     float64
	ConfidenceLo float64
	ConfidenceHi float64
	SampleSize   int
	Excluded     int
	MeanPrice    decimal.Decimal
	MeanQuantity decimal.Decimal
	CreatedAt    time.Time
}

// OptimizationRecord is one persisted pricing recommendation derived from an
// ElasticityRecord.
type OptimizationRecord struct {
	RunAt             time.Time
	GroupKey          string
	Status            string
	Elasticity        float64
	OptimalPrice      decimal.Decimal
	ProjectedQuantity decimal.Decimal
	ProjectedRevenue  decimal.Decimal
	BaselinePrice     decimal.Decimal
	BaselineRevenue   decimal.Decimal
	RevenueChangePct  decimal.Decimal
	CreatedAt         time.Time
}
