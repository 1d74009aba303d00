package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/forcefield/internal/geometry"
	"github.com/san-kum/forcefield/internal/potential"
)

const (
	DefaultModel      = "bond"
	DefaultSampleStep = geometry.DefaultStep
	DefaultAddr       = ":8080"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
	DefaultTheme      = "default"
	DefaultFPS        = 30
)

type Config struct {
	Model      string                        `yaml:"model"`
	SampleStep float64                       `yaml:"sample_step"`
	Params     map[string]map[string]float64 `yaml:"params,omitempty"`
	Server     ServerConfig                  `yaml:"server"`
	Log        LogConfig                     `yaml:"log"`
	TUI        TUIConfig                     `yaml:"tui"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins,omitempty"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type TUIConfig struct {
	Theme string `yaml:"theme"`
	FPS   int    `yaml:"fps"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:      DefaultModel,
		SampleStep: DefaultSampleStep,
		Server: ServerConfig{
			Addr: DefaultAddr,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		TUI: TUIConfig{
			Theme: DefaultTheme,
			FPS:   DefaultFPS,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.SampleStep <= 0 {
		cfg.SampleStep = DefaultSampleStep
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

// ParamsFor overlays the configured values for model on the domain
// defaults.
func (c *Config) ParamsFor(model string, d potential.Domain) (potential.Params, error) {
	p, err := potential.Merge(d, c.Params[model])
	if err != nil {
		return nil, fmt.Errorf("config params for %s: %w", model, err)
	}
	return p, nil
}

// Resolve builds the parameters of one evaluation. Later sources win:
// domain defaults, the config file, the named preset, then overrides.
func (c *Config) Resolve(m potential.Model, preset string, overrides potential.Params) (potential.Params, error) {
	p, err := c.ParamsFor(m.Name(), m.Domain())
	if err != nil {
		return nil, err
	}

	if preset != "" {
		pr := GetPreset(m.Name(), preset)
		if pr == nil {
			return nil, fmt.Errorf("%w: %s/%s", ErrUnknownPreset, m.Name(), preset)
		}
		for k, v := range pr.Params {
			p[k] = v
		}
	}

	for _, name := range overrides.Names() {
		if _, ok := m.Domain().Spec(name); !ok {
			return nil, fmt.Errorf("%w: %s", potential.ErrUnknownParam, name)
		}
		p[name] = overrides[name]
	}
	return p, nil
}
