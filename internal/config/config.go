package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gyroint/internal/dynamo"
	"github.com/san-kum/gyroint/internal/integrators"
)

const (
	DefaultDt        = integrators.GyroXTimeStep
	DefaultTicks     = 1000
	DefaultThreshold = 360.0
	DefaultScenario  = "step-rate"
	DefaultColumn    = "gyro_x"
)

type Config struct {
	Scenario        string      `yaml:"scenario"`
	Dt              float64     `yaml:"dt"`
	Ticks           int         `yaml:"ticks"`
	Seed            int64       `yaml:"seed"`
	Threshold       float64     `yaml:"threshold"`
	StopOnNonFinite bool        `yaml:"stop_on_non_finite"`
	Input           InputConfig `yaml:"input"`
	Axes            []string    `yaml:"axes"`
}

// InputConfig replays a recorded CSV instead of a generated scenario.
type InputConfig struct {
	File   string `yaml:"file"`
	Column string `yaml:"column"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:  DefaultScenario,
		Dt:        DefaultDt,
		Ticks:     DefaultTicks,
		Threshold: DefaultThreshold,
		Input: InputConfig{
			Column: DefaultColumn,
		},
		Axes: []string{"x"},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	return errors.Wrap(os.WriteFile(path, data, 0644), "write config")
}

func (c *Config) Validate() error {
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		return errors.Wrapf(dynamo.ErrInvalidConfig, "dt must be finite and positive, got %v", c.Dt)
	}
	if c.Ticks <= 0 || c.Ticks > dynamo.MaxTicks {
		return errors.Wrapf(dynamo.ErrInvalidConfig, "ticks must be in [1, %d], got %d", dynamo.MaxTicks, c.Ticks)
	}
	if c.Scenario == "" && c.Input.File == "" {
		return errors.Wrap(dynamo.ErrInvalidConfig, "either scenario or input.file is required")
	}
	return nil
}

// TicksFor is the tick count that covers duration seconds at step dt,
// rounded to the nearest tick. Out-of-range results come back as 0 so
// Validate rejects them.
func TicksFor(duration, dt float64) int {
	n := math.Round(duration / dt)
	if math.IsNaN(n) || n < 1 || n > dynamo.MaxTicks {
		return 0
	}
	return int(n)
}

func (c *Config) IntegratorConfig() integrators.Config {
	return integrators.Config{TimeStep: c.Dt}
}

// SourceName labels runs: the scenario, or the replayed file's name.
func (c *Config) SourceName() string {
	if c.Input.File != "" {
		return "replay-" + strings.TrimSuffix(filepath.Base(c.Input.File), filepath.Ext(c.Input.File))
	}
	return c.Scenario
}
