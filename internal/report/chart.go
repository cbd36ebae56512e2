package report

import (
	"fmt"
	"os"

	chart "github.com/wcharczuk/go-chart/v2"

	"price-elasticity/internal/elasticity"
)

const revenueCurvePoints = 200

// WriteRevenueCurvePNG renders modeled revenue across a price range for one
// group, marking the baseline and recommended prices.
func WriteRevenueCurvePNG(path string, group string, curve elasticity.Curve, opt elasticity.Optimization, bounds elasticity.PriceRange) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	step := (bounds.Ceiling - bounds.Floor) / float64(revenueCurvePoints-1)
	prices := make([]float64, 0, revenueCurvePoints)
	revenues := make([]float64, 0, revenueCurvePoints)
	for i := 0; i < revenueCurvePoints; i++ {
		price := bounds.Floor + step*float64(i)
		prices = append(prices, price)
		revenues = append(revenues, curve.RevenueAt(price))
	}

	moneyFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.2f")
	}
	graph := chart.Chart{
		Title:  fmt.Sprintf("Modeled revenue vs price (%s)", group),
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			Name:           "Price",
			ValueFormatter: moneyFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Revenue",
			ValueFormatter: moneyFormatter,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Revenue",
				XValues: prices,
				YValues: revenues,
			},
			chart.AnnotationSeries{
				Annotations: []chart.Value2{
					{
						XValue: opt.BaselinePrice,
						YValue: curve.RevenueAt(opt.BaselinePrice),
						Label:  "baseline",
					},
					{
						XValue: opt.OptimalPrice,
						YValue: opt.ProjectedRevenue,
						Label:  "recommended",
					},
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}
