package metrics

import "math"

// Residual tracks the largest gap between the integrator output and a
// Kahan-compensated running sum of timeStep*sample, lagged one tick the same
// way the output is. It measures accumulated rounding, not model error.
type Residual struct {
	name     string
	timeStep float64
	sum      float64
	comp     float64
	maxErr   float64
}

func NewResidual(timeStep float64) *Residual {
	return &Residual{
		name:     "residual",
		timeStep: timeStep,
	}
}

func (r *Residual) Name() string { return r.name }

func (r *Residual) Observe(tick int, sample, output float64) {
	if diff := math.Abs(output - r.sum); !math.IsNaN(diff) {
		r.maxErr = math.Max(r.maxErr, diff)
	}

	y := r.timeStep*sample - r.comp
	t := r.sum + y
	r.comp = (t - r.sum) - y
	r.sum = t
}

func (r *Residual) Value() float64 { return r.maxErr }

func (r *Residual) Reset() {
	r.sum = 0
	r.comp = 0
	r.maxErr = 0
}
