package integrators

// GyroXTimeStep is the fixed tick of the roll-rate integrator, in seconds.
const GyroXTimeStep = 0.01

// Sample is the external input supplied on one tick.
type Sample struct {
	Value float64
}

// Output is the value emitted on one tick.
type Output struct {
	Value float64
}

type Config struct {
	TimeStep float64 `yaml:"time_step" json:"time_step"`
}

// Discrete is a forward-Euler discrete-time integrator. Each instance owns
// its accumulator; it is not safe for concurrent use.
type Discrete struct {
	timeStep    float64
	accumulated float64
}

// NewDiscrete does not validate the step; non-finite or non-positive steps
// propagate through the arithmetic like any other input.
func NewDiscrete(cfg Config) *Discrete {
	return &Discrete{timeStep: cfg.TimeStep}
}

func NewGyroX() *Discrete {
	return NewDiscrete(Config{TimeStep: GyroXTimeStep})
}

// Initialize resets the accumulator to exactly zero.
func (d *Discrete) Initialize() {
	d.accumulated = 0
}

// Step emits the accumulator as it stood before this tick, then advances it
// by TimeStep*in.Value. The output therefore lags the input by one tick.
func (d *Discrete) Step(in Sample) Output {
	out := Output{Value: d.accumulated}
	d.accumulated += d.timeStep * in.Value
	return out
}

func (d *Discrete) Terminate() {}

func (d *Discrete) TimeStep() float64 { return d.timeStep }

// Value reports the current accumulator without stepping.
func (d *Discrete) Value() float64 { return d.accumulated }
