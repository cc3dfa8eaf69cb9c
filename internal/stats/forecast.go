package stats

import (
	"gonum.org/v1/gonum/mat"

	"github.com/acervera/expenditure-control/internal/invoice"
)

const (
	// forecastHorizon is how many future months are projected.
	forecastHorizon = 6

	// minHistoryMonths is the fewest monthly buckets a fit needs.
	minHistoryMonths = 3
)

// ForecastPoint is one projected future month.
type ForecastPoint struct {
	Month Month
	Value float64
}

// Forecast fits a degree-2 polynomial over the monthly spend series and
// extrapolates six months past the last historical bucket. ok is false when
// fewer than three monthly buckets exist. Projected values are not clamped;
// a declining fit may go negative.
func Forecast(items []invoice.ItemRecord) ([]ForecastPoint, bool) {
	monthly := monthlySpending(items)
	if len(monthly) < minHistoryMonths {
		return nil, false
	}

	// Least squares over the [1, x, x²] basis, x being the zero-based
	// sequential index of each observed month.
	n := len(monthly)
	a := mat.NewDense(n, 3, nil)
	y := mat.NewVecDense(n, nil)
	for i, bucket := range monthly {
		x := float64(i)
		a.Set(i, 0, 1)
		a.Set(i, 1, x)
		a.Set(i, 2, x*x)
		value, _ := bucket.Value.Float64()
		y.SetVec(i, value)
	}

	var qr mat.QR
	qr.Factorize(a)
	var coef mat.VecDense
	if err := qr.SolveVecTo(&coef, false, y); err != nil {
		return nil, false
	}

	points := make([]ForecastPoint, 0, forecastHorizon)
	month := monthly[n-1].Month
	for k := 0; k < forecastHorizon; k++ {
		x := float64(n + k)
		month = month.Next()
		points = append(points, ForecastPoint{
			Month: month,
			Value: coef.AtVec(0) + coef.AtVec(1)*x + coef.AtVec(2)*x*x,
		})
	}
	return points, true
}
