package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultGridSize      = 500
	DefaultDt            = 0.004
	DefaultMaxSteps      = 5000
	DefaultCaptureRadius = 0.03
	DefaultEscapeRadius  = 2.0
	DefaultIntegrator    = "rk4"
)

// Config is the YAML render configuration. Flags override file values.
type Config struct {
	Integrator    string  `yaml:"integrator"`
	GridSize      int     `yaml:"grid_size"`
	Dt            float64 `yaml:"dt"`
	MaxSteps      int     `yaml:"max_steps"`
	CaptureRadius float64 `yaml:"capture_radius"`
	EscapeRadius  float64 `yaml:"escape_radius"`
	Workers       int     `yaml:"workers"`
	Seed          int64   `yaml:"seed"`
	Attractors    int     `yaml:"attractors"` // 0 means a random count
	Scenario      string  `yaml:"scenario"`   // path to a scenario yaml
	Preset        string  `yaml:"preset"`
	Out           string  `yaml:"out"`
}

func Default() *Config {
	return &Config{
		Integrator:    DefaultIntegrator,
		GridSize:      DefaultGridSize,
		Dt:            DefaultDt,
		MaxSteps:      DefaultMaxSteps,
		CaptureRadius: DefaultCaptureRadius,
		EscapeRadius:  DefaultEscapeRadius,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
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
