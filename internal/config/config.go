package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultParticles   = 40
	DefaultBox         = 20.0
	DefaultIterations  = 40000
	DefaultKT          = 1.0
	DefaultStep        = 0.5
	DefaultBinWidth    = 1.0
	DefaultSampleEvery = 1
)

type Config struct {
	Particles   int     `yaml:"particles"`
	Box         float64 `yaml:"box"`
	Periodic    bool    `yaml:"periodic"`
	Iterations  int     `yaml:"iterations"`
	KT          float64 `yaml:"kt"`
	Seed        int64   `yaml:"seed"`
	SampleEvery int     `yaml:"sample_every"`
	BinWidth    float64 `yaml:"bin_width"`

	Potential PotentialConfig `yaml:"potential"`
	Moves     MovesConfig     `yaml:"moves"`
}

type PotentialConfig struct {
	Name        string  `yaml:"name"`
	Prefactor   float64 `yaml:"prefactor"`
	LJPrefactor float64 `yaml:"lj_prefactor"`
	Sigma       float64 `yaml:"sigma"`
	Epsilon     float64 `yaml:"epsilon"`
}

type MovesConfig struct {
	TranslateStep   float64 `yaml:"translate_step"`
	TranslateWeight float64 `yaml:"translate_weight"`
	JumpWeight      float64 `yaml:"jump_weight"` // 0 disables the jump move
}

func DefaultConfig() *Config {
	return &Config{
		Particles:   DefaultParticles,
		Box:         DefaultBox,
		Iterations:  DefaultIterations,
		KT:          DefaultKT,
		SampleEvery: DefaultSampleEvery,
		BinWidth:    DefaultBinWidth,
		Potential: PotentialConfig{
			Name:        "repulsionr3",
			Prefactor:   1.0,
			LJPrefactor: 1.0,
			Sigma:       1.0,
			Epsilon:     1.0,
		},
		Moves: MovesConfig{
			TranslateStep:   DefaultStep,
			TranslateWeight: 1.0,
		},
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
	if err := cfg.Validate(); err != nil {
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

// Validate fails fast on parameters the core rejects at construction.
func (c *Config) Validate() error {
	if c.Particles <= 0 {
		return fmt.Errorf("config: particles must be positive, got %d", c.Particles)
	}
	if c.Box <= 0 {
		return fmt.Errorf("config: box must be positive, got %g", c.Box)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("config: iterations must be positive, got %d", c.Iterations)
	}
	if c.KT <= 0 {
		return fmt.Errorf("config: kt must be positive, got %g", c.KT)
	}
	if c.SampleEvery <= 0 {
		return fmt.Errorf("config: sample_every must be positive, got %d", c.SampleEvery)
	}
	if c.BinWidth <= 0 {
		return fmt.Errorf("config: bin_width must be positive, got %g", c.BinWidth)
	}
	if c.Potential.Sigma <= 0 {
		return fmt.Errorf("config: potential sigma must be positive, got %g", c.Potential.Sigma)
	}
	if c.Moves.TranslateStep <= 0 {
		return fmt.Errorf("config: translate_step must be positive, got %g", c.Moves.TranslateStep)
	}
	if c.Moves.TranslateWeight <= 0 {
		return fmt.Errorf("config: translate_weight must be positive, got %g", c.Moves.TranslateWeight)
	}
	if c.Moves.JumpWeight < 0 {
		return fmt.Errorf("config: jump_weight must not be negative, got %g", c.Moves.JumpWeight)
	}
	return nil
}
