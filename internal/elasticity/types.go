// Package elasticity implements log-log price elasticity estimation,
// constant-elasticity revenue optimization, and demand simulation over
// in-memory sales observations.
package elasticity

import "time"

// OverallGroup names the single partition used when observations carry no
// group key.
const OverallGroup = "overall"

// Partition statuses carried on result rows. A row is only trustworthy when
// its status is StatusOK; callers must not read a failed partition's
// coefficient as zero.
const (
	StatusOK                = "ok"
	StatusInsufficientData  = "insufficient_data"
	StatusDegenerateInput   = "degenerate_input"
	StatusNoInteriorOptimum = "no_interior_optimum"
	StatusAnomalous         = "anomalous_elasticity"
)

// Observation is a single price/quantity reading. Group and Date are
// optional; rows with non-positive price or quantity are excluded from fits
// and counted per partition.
type Observation struct {
	Group    string
	Price    float64
	Quantity float64
	Date     time.Time
}

// Result holds the estimated elasticity for one partition. When Status is
// not StatusOK the numeric fields other than SampleSize and Excluded are
// zero and carry no meaning.
type Result struct {
	Group        string
	Status       string
	Coefficient  float64
	StdErr       float64
	RSquared     float64
	ConfidenceLo float64
	ConfidenceHi float64
	SampleSize   int
	Excluded     int
	MeanPrice    float64
	MeanQuantity float64
}

// Baseline is the current price/quantity point a recommendation is computed
// against.
type Baseline struct {
	Price    float64
	Quantity float64
}

// Revenue returns price times quantity at the baseline.
func (b Baseline) Revenue() float64 {
	return b.Price * b.Quantity
}

// PriceRange bounds the optimizer's search. Floor and Ceiling are absolute
// prices; Step is the grid resolution for the numeric fallback.
type PriceRange struct {
	Floor   float64
	Ceiling float64
	Step    float64
}

// Optimization is a revenue recommendation derived from a Baseline and an
// elasticity coefficient. Status is StatusOK when a model optimum exists
// inside the caller's range and StatusNoInteriorOptimum when the bounded
// ceiling was reported instead.
type Optimization struct {
	Group             string
	Status            string
	Elasticity        float64
	OptimalPrice      float64
	ProjectedQuantity float64
	ProjectedRevenue  float64
	BaselinePrice     float64
	BaselineQuantity  float64
	BaselineRevenue   float64
	RevenueChangePct  float64
}

// Simulation projects the effect of a percentage price change using the
// linear elasticity approximation.
type Simulation struct {
	PriceChangePct    float64
	QuantityChangePct float64
	ProjectedPrice    float64
	ProjectedQuantity float64
	ProjectedRevenue  float64
	BaselineRevenue   float64
	RevenueChangePct  float64
}
