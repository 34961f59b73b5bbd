package sim

import (
	"github.com/san-kum/gyroint/internal/dynamo"
	"github.com/san-kum/gyroint/internal/integrators"
)

// Stepper is the lifecycle a host runtime drives once per tick.
type Stepper interface {
	Initialize()
	Step(in integrators.Sample) integrators.Output
	Terminate()
}

var _ Stepper = (*integrators.Discrete)(nil)

// Valuer is implemented by steppers that can report their state without
// stepping.
type Valuer interface {
	Value() float64
}

// preallocTicks caps the up-front series allocation; longer runs grow by
// append.
const preallocTicks = 1 << 16

type Config struct {
	TimeStep float64
	Ticks    int
	// StopOnNonFinite ends the run at the first NaN/Inf output instead of
	// letting it propagate.
	StopOnNonFinite bool
}

func DefaultConfig() Config {
	return Config{
		TimeStep: integrators.GyroXTimeStep,
		Ticks:    1000,
	}
}

type Result struct {
	Times      dynamo.Series
	Samples    dynamo.Series
	Outputs    dynamo.Series
	Final      float64
	Metrics    map[string]float64
	TicksTaken int
	NonFinite  int
	Errors     []error
}
