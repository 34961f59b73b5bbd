package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "run", RunE: func(*cobra.Command, []string) error { return nil }}
	addRunFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestResolveConfig_KeepsZeroSeedFromFile(t *testing.T) {
	path := writeConfig(t, "scenario: jitter\nseed: 0\nticks: 10\n")

	cfg, err := resolveConfig(newRunCmd(t, "--config", path), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), cfg.Seed)
	assert.Equal(t, 10, cfg.Ticks)
}

func TestResolveConfig_SeedFlagOverridesFile(t *testing.T) {
	path := writeConfig(t, "scenario: jitter\nseed: 3\n")

	cfg, err := resolveConfig(newRunCmd(t, "--config", path, "--seed", "9"), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(9), cfg.Seed)
}

func TestResolveConfig_DefaultSeedWithoutFile(t *testing.T) {
	cfg, err := resolveConfig(newRunCmd(t), []string{"jitter"})
	require.NoError(t, err)
	assert.Equal(t, seed, cfg.Seed)
	assert.NotZero(t, cfg.Seed)
}

func TestProgress_LogsTenTimes(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	p := newProgress(100, logrus.NewEntry(logger))
	for tick := 0; tick < 100; tick++ {
		p.OnTick(tick, 1, float64(tick))
	}

	entries := hook.AllEntries()
	require.Len(t, entries, 10)
	assert.Equal(t, 100, entries[9].Data["tick"])
}

func TestProgress_ShortRun(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	p := newProgress(3, logrus.NewEntry(logger))
	for tick := 0; tick < 3; tick++ {
		p.OnTick(tick, 0, 0)
	}
	assert.Len(t, hook.AllEntries(), 3)
}
