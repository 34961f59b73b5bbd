// Package signals generates per-tick input samples for the integrator, the
// way an upstream gyro driver would deliver them.
package signals

import (
	"math"
	"math/rand"
)

// Stream yields one sample per call. Streams are stateful and must not be
// shared between runs.
type Stream func() float64

func Constant(c float64) Stream {
	return func() float64 {
		return c
	}
}

// Impulse yields amp once, then zero forever.
func Impulse(amp float64) Stream {
	dropped := false
	return func() float64 {
		if dropped {
			return 0
		}
		dropped = true
		return amp
	}
}

// Step yields zero before tick at, then amp.
func Step(amp float64, at int) Stream {
	var tick int
	return func() float64 {
		v := 0.0
		if tick >= at {
			v = amp
		}
		tick++
		return v
	}
}

func Sine(amp, phase float64, period int) Stream {
	var tick int
	return func() float64 {
		p := float64(tick)/float64(period)*2*math.Pi + phase
		tick++
		if tick == period {
			tick = 0
		}
		return math.Sin(p) * amp
	}
}

// Ramp climbs linearly to height over length ticks and holds there.
func Ramp(height float64, length int) Stream {
	var tick int
	return func() float64 {
		h := height * float64(tick) / float64(length)
		if tick < length {
			tick++
		}
		return h
	}
}

// Noise yields uniform samples in [-amp, amp).
func Noise(amp float64, rng *rand.Rand) Stream {
	return func() float64 {
		return ((rng.Float64() - 0.5) * 2) * amp
	}
}

// Sequence replays values and then yields zero.
func Sequence(values []float64) Stream {
	var next int
	return func() float64 {
		if next >= len(values) {
			return 0
		}
		v := values[next]
		next++
		return v
	}
}

// NaNAt replaces the sample on tick at with NaN.
func (f Stream) NaNAt(at int) Stream {
	var tick int
	return func() float64 {
		v := f()
		if tick == at {
			v = math.NaN()
		}
		tick++
		return v
	}
}

func (f Stream) Delay(ticks int) Stream {
	buf := make([]float64, 0, ticks)
	next := 0
	return func() float64 {
		old := f()
		if len(buf) < cap(buf) {
			buf = append(buf, old)
			return 0
		}
		if len(buf) == 0 {
			return old
		}
		res := buf[next]
		buf[next] = old
		next++
		if next == len(buf) {
			next = 0
		}
		return res
	}
}

func (f Stream) Scale(amt float64) Stream {
	return func() float64 {
		return f() * amt
	}
}

func (f Stream) Offset(amt float64) Stream {
	return func() float64 {
		return f() + amt
	}
}

func (f Stream) Mix(fs ...Stream) Stream {
	return func() float64 {
		sum := f()
		for _, s := range fs {
			sum += s()
		}
		return sum
	}
}

func (f Stream) Limit(min, max float64) Stream {
	return func() float64 {
		v := f()
		if v < min {
			return min
		}
		if v > max {
			return max
		}
		return v
	}
}

// Take draws n samples.
func (f Stream) Take(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = f()
	}
	return out
}
