package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/gyroint/internal/config"
	"github.com/san-kum/gyroint/internal/experiment"
)

// Evaluation is one grid point and the metric it produced.
type Evaluation struct {
	Params map[string]float64
	Value  float64
}

// ConfigBuilder builds experiments from base, overriding "dt" and
// "threshold" when present and sizing ticks to cover duration seconds.
func ConfigBuilder(base *config.Config, duration float64) func(map[string]float64) (*experiment.Experiment, error) {
	return func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := *base
		if v, ok := params["dt"]; ok {
			cfg.Dt = v
		}
		if v, ok := params["threshold"]; ok {
			cfg.Threshold = v
		}
		cfg.Ticks = config.TicksFor(duration, cfg.Dt)
		return experiment.New(&cfg)
	}
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search evaluates every grid point and returns the one minimizing
// metricName. NaN metrics never win. The first build or run error aborts.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (Evaluation, []Evaluation, error) {
	if len(g.paramNames) != len(g.ranges) {
		return Evaluation{}, nil, fmt.Errorf("grid search: %d params but %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := Evaluation{Value: math.Inf(1)}
	var all []Evaluation

	err := g.searchRecursive(ctx, 0, make(map[string]float64), buildExperiment, metricName, &best, &all)
	if err != nil {
		return Evaluation{}, all, err
	}
	return best, all, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	metricName string,
	best *Evaluation,
	all *[]Evaluation,
) error {
	if depth == len(g.paramNames) {
		exp, err := buildExperiment(current)
		if err != nil {
			return fmt.Errorf("build %v: %w", current, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return fmt.Errorf("run %v: %w", current, err)
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			return fmt.Errorf("metric %q not reported", metricName)
		}

		eval := Evaluation{Params: current, Value: val}
		*all = append(*all, eval)
		if val < best.Value {
			*best = eval
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, buildExperiment, metricName, best, all); err != nil {
			return err
		}
	}
	return nil
}
