package experiment

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/gyroint/internal/config"
	"github.com/san-kum/gyroint/internal/dynamo"
	"github.com/san-kum/gyroint/internal/integrators"
	"github.com/san-kum/gyroint/internal/metrics"
	"github.com/san-kum/gyroint/internal/signals"
	"github.com/san-kum/gyroint/internal/sim"
)

// Experiment turns a run configuration into one or more driver runs.
type Experiment struct {
	cfg      *config.Config
	replay   []float64
	log      *logrus.Entry
	observer dynamo.Observer
}

func New(cfg *config.Config) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Experiment{
		cfg: cfg,
		log: logrus.WithField("scenario", cfg.SourceName()),
	}

	if cfg.Input.File != "" {
		f, err := os.Open(cfg.Input.File)
		if err != nil {
			return nil, errors.Wrap(err, "open input")
		}
		defer f.Close()

		e.replay, err = signals.ReadCSV(f, cfg.Input.Column)
		if err != nil {
			return nil, errors.Wrapf(err, "load %s", cfg.Input.File)
		}
		if cfg.Ticks > len(e.replay) {
			e.log.WithFields(logrus.Fields{"ticks": cfg.Ticks, "samples": len(e.replay)}).Info("recording shorter than run, padding with zero rate")
		}
	} else if _, err := signals.Generate(cfg.Scenario, cfg.Seed); err != nil {
		return nil, err
	}

	return e, nil
}

// SetObserver attaches o to single-axis runs.
func (e *Experiment) SetObserver(o dynamo.Observer) {
	e.observer = o
}

// Source builds a fresh stream. axis offsets the seed so axes see
// independent noise.
func (e *Experiment) Source(axis int) signals.Stream {
	if e.replay != nil {
		return signals.Sequence(e.replay)
	}
	s, _ := signals.Generate(e.cfg.Scenario, e.cfg.Seed+int64(axis))
	return s
}

func (e *Experiment) simConfig() sim.Config {
	return sim.Config{
		TimeStep:        e.cfg.Dt,
		Ticks:           e.cfg.Ticks,
		StopOnNonFinite: e.cfg.StopOnNonFinite,
	}
}

func (e *Experiment) newMetrics() []dynamo.Metric {
	return metrics.Defaults(e.cfg.Dt, e.cfg.Threshold)
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	s := sim.New(integrators.NewDiscrete(e.cfg.IntegratorConfig()), e.Source(0))
	s.SetLogger(e.log)
	for _, m := range e.newMetrics() {
		s.AddMetric(m)
	}
	if e.observer != nil {
		s.AddObserver(e.observer)
	}

	e.log.WithFields(logrus.Fields{"dt": e.cfg.Dt, "ticks": e.cfg.Ticks}).Debug("starting run")
	return s.Run(ctx, e.simConfig())
}

// RunAxes runs one independent integrator per configured axis.
func (e *Experiment) RunAxes(ctx context.Context) ([]*sim.Result, error) {
	axes := make([]sim.Axis, len(e.cfg.Axes))
	for i, name := range e.cfg.Axes {
		axes[i] = sim.Axis{Name: name, Source: e.Source(i)}
	}
	if len(axes) == 0 {
		return nil, errors.Wrap(dynamo.ErrInvalidConfig, "no axes configured")
	}

	ens := sim.NewEnsemble(
		func() sim.Stepper { return integrators.NewDiscrete(e.cfg.IntegratorConfig()) },
		e.newMetrics,
	)
	return ens.Run(ctx, e.simConfig(), axes)
}
