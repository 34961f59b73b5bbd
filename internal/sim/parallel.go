package sim

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/gyroint/internal/dynamo"
	"github.com/san-kum/gyroint/internal/signals"
)

type Axis struct {
	Name   string
	Source signals.Stream
}

// Ensemble runs several axes side by side. Every axis gets its own stepper
// and metrics from the factories, so nothing is shared between goroutines.
type Ensemble struct {
	newStepper func() Stepper
	newMetrics func() []dynamo.Metric
}

func NewEnsemble(newStepper func() Stepper, newMetrics func() []dynamo.Metric) *Ensemble {
	return &Ensemble{newStepper: newStepper, newMetrics: newMetrics}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config, axes []Axis) ([]*Result, error) {
	results := make([]*Result, len(axes))
	errs := make([]error, len(axes))

	dynamo.ParallelFor(len(axes), 1, func(start, end int) {
		for idx := start; idx < end; idx++ {
			s := New(e.newStepper(), axes[idx].Source)
			s.SetLogger(logrus.WithField("axis", axes[idx].Name))
			if e.newMetrics != nil {
				for _, m := range e.newMetrics() {
					s.AddMetric(m)
				}
			}
			results[idx], errs[idx] = s.Run(ctx, cfg)
		}
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
