package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/gyroint/internal/dynamo"
	"github.com/san-kum/gyroint/internal/integrators"
	"github.com/san-kum/gyroint/internal/signals"
)

// Simulator plays the host runtime: it feeds one sample per tick into a
// Stepper and records what comes out. It does not pace ticks in real time.
type Simulator struct {
	stepper   Stepper
	source    signals.Stream
	metrics   []dynamo.Metric
	observers []dynamo.Observer
	log       *logrus.Entry
}

func New(stepper Stepper, source signals.Stream) *Simulator {
	return &Simulator{
		stepper:   stepper,
		source:    source,
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
		log:       logrus.NewEntry(logrus.StandardLogger()),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) SetLogger(l *logrus.Entry)     { s.log = l }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	capacity := min(cfg.Ticks, preallocTicks)
	result := &Result{
		Times:   make(dynamo.Series, 0, capacity),
		Samples: make(dynamo.Series, 0, capacity),
		Outputs: make(dynamo.Series, 0, capacity),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	s.stepper.Initialize()
	defer s.stepper.Terminate()

	for k := 0; k < cfg.Ticks; k++ {
		t := float64(k) * cfg.TimeStep

		select {
		case <-ctx.Done():
			s.finish(result)
			return result, &dynamo.TickError{Tick: k, Time: t, Wrapped: fmt.Errorf("%w: %w", dynamo.ErrCanceled, ctx.Err())}
		default:
		}

		sample := s.source()
		out := s.stepper.Step(integrators.Sample{Value: sample}).Value

		for _, m := range s.metrics {
			m.Observe(k, sample, out)
		}
		for _, obs := range s.observers {
			obs.OnTick(k, sample, out)
		}

		result.Times = append(result.Times, t)
		result.Samples = append(result.Samples, sample)
		result.Outputs = append(result.Outputs, out)
		result.TicksTaken++

		if math.IsNaN(out) || math.IsInf(out, 0) {
			result.NonFinite++
			if result.NonFinite == 1 {
				s.log.WithFields(logrus.Fields{"tick": k, "sim_time": t, "output": out}).Warn("non-finite integrator output")
			}
			if cfg.StopOnNonFinite {
				result.Errors = append(result.Errors, &dynamo.TickError{Tick: k, Time: t, Wrapped: fmt.Errorf("non-finite output %v", out)})
				break
			}
		}
	}

	s.finish(result)
	return result, nil
}

func (s *Simulator) finish(result *Result) {
	if v, ok := s.stepper.(Valuer); ok {
		result.Final = v.Value()
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if cfg.TimeStep <= 0 || math.IsInf(cfg.TimeStep, 0) || math.IsNaN(cfg.TimeStep) {
		return fmt.Errorf("%w: time step must be finite and positive, got %v", dynamo.ErrInvalidConfig, cfg.TimeStep)
	}
	if cfg.Ticks <= 0 || cfg.Ticks > dynamo.MaxTicks {
		return fmt.Errorf("%w: ticks must be in [1, %d], got %d", dynamo.ErrInvalidConfig, dynamo.MaxTicks, cfg.Ticks)
	}
	return nil
}
