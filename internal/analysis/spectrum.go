package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/gyroint/internal/dynamo"
)

type Bin struct {
	Freq  float64
	Power float64
}

// Spectrum returns the one-sided power spectrum of samples taken every dt
// seconds, Hann-windowed. Bin k sits at k/(n*dt) Hz.
func Spectrum(samples []float64, dt float64) ([]Bin, error) {
	n := len(samples)
	if n == 0 {
		return nil, dynamo.ErrEmptySeries
	}
	if i := dynamo.Series(samples).FirstInvalid(); i >= 0 {
		return nil, &dynamo.TickError{Tick: i, Time: float64(i) * dt, Wrapped: dynamo.ErrNonFinite}
	}

	windowed := make([]float64, n)
	for i, v := range samples {
		w := 1.0
		if n > 1 {
			w = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		}
		windowed[i] = v * w
	}

	spectrum := fft.FFTReal(windowed)

	bins := make([]Bin, n/2+1)
	for k := range bins {
		mag := cmplx.Abs(spectrum[k])
		bins[k] = Bin{
			Freq:  float64(k) / (float64(n) * dt),
			Power: mag * mag / float64(n),
		}
	}
	return bins, nil
}

// DominantFrequency ignores the DC bin.
func DominantFrequency(bins []Bin) (Bin, bool) {
	best := -1
	for k := 1; k < len(bins); k++ {
		if best < 0 || bins[k].Power > bins[best].Power {
			best = k
		}
	}
	if best < 0 {
		return Bin{}, false
	}
	return bins[best], true
}
