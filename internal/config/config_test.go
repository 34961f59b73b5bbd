package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/gyroint/internal/dynamo"
	"github.com/san-kum/gyroint/internal/signals"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "step-rate", cfg.Scenario)
	assert.Equal(t, 0.01, cfg.Dt)
	assert.Positive(t, cfg.Ticks)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 0.01, cfg.IntegratorConfig().TimeStep)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative dt", func(c *Config) { c.Dt = -1 }},
		{"zero ticks", func(c *Config) { c.Ticks = 0 }},
		{"too many ticks", func(c *Config) { c.Ticks = dynamo.MaxTicks + 1 }},
		{"no source", func(c *Config) { c.Scenario = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			assert.True(t, errors.Is(err, dynamo.ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestTicksFor(t *testing.T) {
	assert.Equal(t, 1000, TicksFor(10, 0.01))
	assert.Equal(t, 67, TicksFor(1, 0.015))
	assert.Equal(t, 50, TicksFor(1, 0.02))
	assert.Zero(t, TicksFor(1, 1e-12), "beyond the tick bound")
	assert.Zero(t, TicksFor(1, 0))
	assert.Zero(t, TicksFor(0, 0.01))
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Scenario = "oscillate"
	cfg.Ticks = 42
	cfg.Axes = []string{"x", "y", "z"}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ticks: 10\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Ticks)
	assert.Equal(t, DefaultDt, cfg.Dt)
	assert.Equal(t, DefaultColumn, cfg.Input.Column)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ticks: [oops"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("step-rate", "gyro")
	require.NotNil(t, cfg)
	assert.Equal(t, 0.01, cfg.Dt)

	cfg.Ticks = 1
	assert.Equal(t, 1000, GetPreset("step-rate", "gyro").Ticks, "preset must not be mutated through a copy")
}

func TestGetPreset_NotFound(t *testing.T) {
	assert.Nil(t, GetPreset("step-rate", "nonexistent"))
	assert.Nil(t, GetPreset("nonexistent", "gyro"))
}

func TestPresetsAreRunnable(t *testing.T) {
	for scenario := range Presets {
		_, err := signals.Generate(scenario, 0)
		assert.NoError(t, err, "preset scenario %s has no generator", scenario)

		for _, name := range ListPresets(scenario) {
			assert.NoError(t, GetPreset(scenario, name).Validate(), "%s/%s", scenario, name)
		}
	}
	assert.Nil(t, ListPresets("nonexistent"))
}
