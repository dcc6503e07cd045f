package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAtoms    = 50
	DefaultShape    = "cube"
	DefaultSize     = 10.0
	DefaultMinSep   = 0.1
	DefaultRabi     = 0.1
	DefaultGamma    = 1.0
	DefaultK0       = 1.0
	DefaultDuration = 50.0
)

type Config struct {
	Model string `yaml:"model"` // scalar | meanfield

	Atoms  int     `yaml:"atoms"`
	Shape  string  `yaml:"shape"` // cube | sphere | cylinder
	Size   float64 `yaml:"size"`  // cube side or radius, units of 1/k0
	Height float64 `yaml:"height"`
	MinSep float64 `yaml:"min_sep"`
	Seed   int64   `yaml:"seed"`

	Detuning float64 `yaml:"detuning"`
	Rabi     float64 `yaml:"rabi"`
	Waist    float64 `yaml:"waist"` // 0 means plane wave
	Gamma    float64 `yaml:"gamma"`
	K0       float64 `yaml:"k0"`

	Duration    float64 `yaml:"duration"`
	AbsTol      float64 `yaml:"abs_tol"`
	RelTol      float64 `yaml:"rel_tol"`
	InitialStep float64 `yaml:"initial_step"`
	Workers     int     `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:    "scalar",
		Atoms:    DefaultAtoms,
		Shape:    DefaultShape,
		Size:     DefaultSize,
		MinSep:   DefaultMinSep,
		Rabi:     DefaultRabi,
		Gamma:    DefaultGamma,
		K0:       DefaultK0,
		Duration: DefaultDuration,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Model != "scalar" && c.Model != "meanfield" {
		return fmt.Errorf("unknown model %q", c.Model)
	}
	switch c.Shape {
	case "cube", "sphere", "cylinder":
	default:
		return fmt.Errorf("unknown shape %q", c.Shape)
	}
	if c.Atoms < 1 {
		return fmt.Errorf("atoms must be at least 1, got %d", c.Atoms)
	}
	if c.Size <= 0 {
		return fmt.Errorf("size must be positive, got %f", c.Size)
	}
	if c.Shape == "cylinder" && c.Height <= 0 {
		return fmt.Errorf("cylinder height must be positive, got %f", c.Height)
	}
	if c.Gamma <= 0 {
		return fmt.Errorf("gamma must be positive, got %f", c.Gamma)
	}
	if c.K0 <= 0 {
		return fmt.Errorf("k0 must be positive, got %f", c.K0)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", c.Duration)
	}
	return nil
}
