package automation

import (
	"context"
	"math"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gyroint/internal/config"
	"github.com/san-kum/gyroint/internal/experiment"
	"github.com/san-kum/gyroint/internal/sim"
)

// Script is a YAML batch of runs executed in order.
type Script struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step overrides the base config for one run. Zero values keep the base.
type Step struct {
	Scenario string  `yaml:"scenario"`
	Input    string  `yaml:"input"`
	Dt       float64 `yaml:"dt"`
	Ticks    int     `yaml:"ticks"`
	Seed     int64   `yaml:"seed"`
	SaveAs   string  `yaml:"save_as"`
}

// StepResult pairs a step's resolved config with its run.
type StepResult struct {
	Name   string
	Config *config.Config
	Result *sim.Result
}

// SaveFunc persists one step; RunScript calls it only for steps with save_as.
type SaveFunc func(name string, cfg *config.Config, result *sim.Result) error

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read script")
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, errors.Wrapf(err, "parse script %s", path)
	}
	if len(script.Steps) == 0 {
		return nil, errors.Errorf("script %s has no steps", path)
	}
	return &script, nil
}

func (s Step) apply(base *config.Config) *config.Config {
	cfg := *base
	cfg.Axes = append([]string(nil), base.Axes...)
	if s.Scenario != "" {
		cfg.Scenario = s.Scenario
		cfg.Input.File = ""
	}
	if s.Input != "" {
		cfg.Input.File = s.Input
	}
	if s.Dt != 0 {
		cfg.Dt = s.Dt
	}
	if s.Ticks != 0 {
		cfg.Ticks = s.Ticks
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	return &cfg
}

// RunScript executes every step on top of base. It stops at the first
// failing step and returns the results gathered so far.
func RunScript(ctx context.Context, script *Script, base *config.Config, save SaveFunc) ([]StepResult, error) {
	results := make([]StepResult, 0, len(script.Steps))
	log := logrus.WithField("script", script.Name)

	for i, step := range script.Steps {
		cfg := step.apply(base)
		log.WithFields(logrus.Fields{"step": i + 1, "of": len(script.Steps), "source": cfg.SourceName()}).Info("running step")

		exp, err := experiment.New(cfg)
		if err != nil {
			return results, errors.Wrapf(err, "step %d", i+1)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, errors.Wrapf(err, "step %d run", i+1)
		}

		if step.SaveAs != "" && save != nil {
			if err := save(step.SaveAs, cfg, result); err != nil {
				return results, errors.Wrapf(err, "step %d save", i+1)
			}
		}
		results = append(results, StepResult{Name: step.SaveAs, Config: cfg, Result: result})
	}

	return results, nil
}

// DtSweep reruns one scenario over evenly spaced time steps, holding the
// simulated duration fixed.
type DtSweep struct {
	Base     *config.Config
	DtMin    float64
	DtMax    float64
	NumSteps int
	Duration float64
}

type SweepResult struct {
	Dt       float64
	Ticks    int
	Final    float64
	Peak     float64
	Residual float64
}

func RunSweep(ctx context.Context, sweep *DtSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, errors.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}
	if !(sweep.Duration > 0) {
		return nil, errors.Errorf("sweep duration must be positive, got %v", sweep.Duration)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	dtStep := 0.0
	if sweep.NumSteps > 1 {
		dtStep = (sweep.DtMax - sweep.DtMin) / float64(sweep.NumSteps-1)
	}

	for i := 0; i < sweep.NumSteps; i++ {
		cfg := *sweep.Base
		cfg.Dt = sweep.DtMin + float64(i)*dtStep
		cfg.Ticks = config.TicksFor(sweep.Duration, cfg.Dt)

		exp, err := experiment.New(&cfg)
		if err != nil {
			return results, errors.Wrapf(err, "dt=%g", cfg.Dt)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, errors.Wrapf(err, "dt=%g", cfg.Dt)
		}

		results = append(results, SweepResult{
			Dt:       cfg.Dt,
			Ticks:    cfg.Ticks,
			Final:    result.Final,
			Peak:     result.Metrics["peak"],
			Residual: result.Metrics["residual"],
		})
		logrus.WithFields(logrus.Fields{"dt": cfg.Dt, "final": result.Final}).Debug("sweep point")
	}

	return results, nil
}

// MonteCarloConfig reruns a noisy scenario with consecutive seeds.
type MonteCarloConfig struct {
	Base      *config.Config
	NumTrials int
	Seed      int64
	// Bound is the |final angle| a trial must stay within.
	Bound float64
}

type MonteCarloResult struct {
	TrialID int
	Seed    int64
	Final   float64
	Bounded bool
}

func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	for trial := 0; trial < cfg.NumTrials; trial++ {
		run := *cfg.Base
		run.Seed = cfg.Seed + int64(trial)

		exp, err := experiment.New(&run)
		if err != nil {
			return nil, err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "trial %d", trial)
		}

		results = append(results, MonteCarloResult{
			TrialID: trial,
			Seed:    run.Seed,
			Final:   result.Final,
			Bounded: math.Abs(result.Final) <= cfg.Bound,
		})

		if (trial+1)%10 == 0 {
			logrus.WithField("trials", trial+1).Info("monte carlo progress")
		}
	}

	return results, nil
}

type Stats struct {
	Mean      float64
	Std       float64
	Bounded   int
	Unbounded int
}

// MonteCarloStats summarizes the final angles with the sample standard
// deviation. Non-finite finals count as unbounded and are left out of mean
// and std.
func MonteCarloStats(results []MonteCarloResult) Stats {
	var st Stats
	finals := make([]float64, 0, len(results))
	for _, r := range results {
		if r.Bounded {
			st.Bounded++
		} else {
			st.Unbounded++
		}
		if math.IsNaN(r.Final) || math.IsInf(r.Final, 0) {
			continue
		}
		finals = append(finals, r.Final)
	}
	switch len(finals) {
	case 0:
	case 1:
		st.Mean = finals[0]
	default:
		st.Mean, st.Std = stat.MeanStdDev(finals, nil)
	}
	return st
}
