package signals

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/san-kum/gyroint/internal/dynamo"
)

// Scenarios model a roll-rate gyro in deg/s sampled once per tick.
var scenarios = map[string]func(rng *rand.Rand) Stream{
	"steady": func(rng *rand.Rand) Stream {
		return Constant(0)
	},
	"step-rate": func(rng *rand.Rand) Stream {
		return Step(30, 100)
	},
	"oscillate": func(rng *rand.Rand) Stream {
		return Sine(45, 0, 200)
	},
	"jitter": func(rng *rand.Rand) Stream {
		return Sine(20, 0, 150).Mix(Noise(2, rng))
	},
	"ramp": func(rng *rand.Rand) Stream {
		return Ramp(90, 500)
	},
	"drift-bias": func(rng *rand.Rand) Stream {
		return Noise(0.5, rng).Offset(0.3)
	},
	"nan-fault": func(rng *rand.Rand) Stream {
		return Constant(10).NaNAt(250)
	},
	"spinning-top": func(rng *rand.Rand) Stream {
		return NewTop().RollRate(10, 0.3, 0.01)
	},
	"saturated": func(rng *rand.Rand) Stream {
		return Sine(3000, 0, 100).Limit(-2000, 2000)
	},
}

// Generate builds the named scenario with a deterministic noise source.
func Generate(name string, seed int64) (Stream, error) {
	g, ok := scenarios[name]
	if !ok {
		return nil, fmt.Errorf("scenario %q: %w", name, dynamo.ErrNotFound)
	}
	return g(rand.New(rand.NewSource(seed))), nil
}

func Generators() []string {
	var s []string
	for name := range scenarios {
		s = append(s, name)
	}
	sort.Strings(s)
	return s
}
