package dynamo

import "math"

// MaxTicks bounds a single run. Every tick is recorded, so a run this long
// already holds a few gigabytes of series.
const MaxTicks = 100_000_000

// Series holds one scalar per tick.
type Series []float64

func (s Series) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// FirstInvalid returns the index of the first NaN or Inf entry, or -1.
func (s Series) FirstInvalid() int {
	for i, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return i
		}
	}
	return -1
}

type Metric interface {
	Name() string
	Observe(tick int, sample, output float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(tick int, sample, output float64)
}
