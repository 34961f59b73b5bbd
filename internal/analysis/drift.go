package analysis

import (
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/gyroint/internal/dynamo"
)

// Drift fits values = a + slope*times by least squares.
func Drift(times, values []float64) (float64, error) {
	n := min(len(times), len(values))
	if n < 2 {
		return 0, dynamo.ErrEmptySeries
	}
	if !dynamo.Series(values[:n]).IsValid() {
		return 0, dynamo.ErrNonFinite
	}
	if stat.Variance(times[:n], nil) == 0 {
		return 0, dynamo.ErrEmptySeries
	}

	_, slope := stat.LinearRegression(times[:n], values[:n], nil, false)
	return slope, nil
}
