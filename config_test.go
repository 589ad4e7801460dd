package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wlattner/dtc/sweep"
	"github.com/wlattner/dtc/tree"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	cfg, err := loadConfig(path, false)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)

	_, err = loadConfig(path, true)
	assert.Error(t, err)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := writeFile(t, "dtc.yaml", `
max_depth: 3
sweep:
  depths: [2, 4, -1]
  seed: 7
`)

	cfg, err := loadConfig(path, true)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.MaxDepth)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, []int{2, 4, tree.Unbounded}, cfg.Sweep.Depths)
	assert.Equal(t, int64(7), cfg.Sweep.Seed)
	assert.Equal(t, 0.5, cfg.Sweep.TestSize)

	// the package default is not aliased
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, tree.Unbounded}, sweep.DefaultDepths)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":      "max_depth: [",
		"workers":       "workers: 0",
		"sweep workers": "sweep:\n  workers: -2",
		"no depths":     "sweep:\n  depths: []",
		"test size":     "sweep:\n  test_size: 1.0",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := loadConfig(writeFile(t, "dtc.yaml", content), true)
			assert.Error(t, err)
		})
	}
}
