package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/wlattner/dtc/sweep"
	"github.com/wlattner/dtc/tree"
)

// Config holds the settings read from the YAML config file. Command line
// flags take precedence over it.
type Config struct {
	MaxDepth int         `yaml:"max_depth"`
	Workers  int         `yaml:"workers"`
	Sweep    SweepConfig `yaml:"sweep"`
}

type SweepConfig struct {
	Depths   []int   `yaml:"depths"`
	TestSize float64 `yaml:"test_size"`
	Seed     int64   `yaml:"seed"`
	Workers  int     `yaml:"workers"`
}

// defaultConfig matches the depth sweep over a 50/50 split.
func defaultConfig() Config {
	return Config{
		MaxDepth: tree.Unbounded,
		Workers:  1,
		Sweep: SweepConfig{
			Depths:   append([]int(nil), sweep.DefaultDepths...),
			TestSize: 0.5,
			Seed:     42,
			Workers:  1,
		},
	}
}

// loadConfig reads path over the defaults. A missing file is only an error
// when required is set.
func loadConfig(path string, required bool) (Config, error) {
	cfg := defaultConfig()

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "reading config %s", path)
	}

	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}

	if err := cfg.validate(); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Workers < 1 {
		return errors.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Sweep.Workers < 1 {
		return errors.Errorf("sweep.workers must be at least 1, got %d", c.Sweep.Workers)
	}
	if len(c.Sweep.Depths) == 0 {
		return errors.New("sweep.depths must not be empty")
	}
	if c.Sweep.TestSize < 0 || c.Sweep.TestSize >= 1 {
		return errors.Errorf("sweep.test_size must be in [0, 1), got %v", c.Sweep.TestSize)
	}
	return nil
}
