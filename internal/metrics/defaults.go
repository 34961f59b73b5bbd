package metrics

import "github.com/san-kum/gyroint/internal/dynamo"

// Defaults is the metric set attached to every CLI run.
func Defaults(timeStep, threshold float64) []dynamo.Metric {
	return []dynamo.Metric{
		NewPeak(),
		NewMean(),
		NewNonFinite(),
		NewBounded(threshold),
		NewResidual(timeStep),
	}
}
