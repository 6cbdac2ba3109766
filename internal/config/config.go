package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWindowWidth  = 1280
	DefaultWindowHeight = 720
	DefaultWindowTitle  = "simscope"

	DefaultTargetFPS      = 60
	DefaultMinRefreshRate = 30.0
	DefaultSpeedFactor    = 1.0
	DefaultHistorySteps   = 2000

	// EMA decay constants for the smoothed loop metrics. The render
	// side reacts quickly, the sim side is heavily damped.
	DefaultRefreshGamma  = 0.9
	DefaultRealtimeGamma = 0.99

	DefaultRecordFPS = 30
)

type Config struct {
	Window WindowConfig `yaml:"window"`
	Timing TimingConfig `yaml:"timing"`
	Record RecordConfig `yaml:"record"`
	Model  ModelConfig  `yaml:"model"`
	Audio  AudioConfig  `yaml:"audio"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type TimingConfig struct {
	TargetFPS      int     `yaml:"target_fps"`
	MinRefreshRate float64 `yaml:"min_refresh_rate"`
	SpeedFactor    float64 `yaml:"speed_factor"`
	StartPaused    bool    `yaml:"start_paused"`
	HistorySteps   int     `yaml:"history_steps"`
	RefreshGamma   float64 `yaml:"refresh_gamma"`
	RealtimeGamma  float64 `yaml:"realtime_gamma"`
}

type RecordConfig struct {
	Bin  string `yaml:"bin"`
	Path string `yaml:"path"`
	FPS  int    `yaml:"fps"`
}

type ModelConfig struct {
	Name       string             `yaml:"name"`
	Controller string             `yaml:"controller"`
	Params     map[string]float64 `yaml:"params"`
	InitState  []float64          `yaml:"init_state"`
}

type AudioConfig struct {
	Enabled bool `yaml:"enabled"`
}

func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  DefaultWindowWidth,
			Height: DefaultWindowHeight,
			Title:  DefaultWindowTitle,
		},
		Timing: TimingConfig{
			TargetFPS:      DefaultTargetFPS,
			MinRefreshRate: DefaultMinRefreshRate,
			SpeedFactor:    DefaultSpeedFactor,
			HistorySteps:   DefaultHistorySteps,
			RefreshGamma:   DefaultRefreshGamma,
			RealtimeGamma:  DefaultRealtimeGamma,
		},
		Record: RecordConfig{
			FPS: DefaultRecordFPS,
		},
		Model: ModelConfig{
			Name: "pendulum",
		},
	}
}

// Load reads a yaml config over the defaults, so absent fields keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Timing.TargetFPS <= 0 {
		return fmt.Errorf("target_fps must be positive, got %d", c.Timing.TargetFPS)
	}
	if c.Timing.MinRefreshRate <= 0 {
		return fmt.Errorf("min_refresh_rate must be positive, got %f", c.Timing.MinRefreshRate)
	}
	if c.Timing.SpeedFactor <= 0 {
		return fmt.Errorf("speed_factor must be positive, got %f", c.Timing.SpeedFactor)
	}
	if c.Timing.HistorySteps < 1 {
		return fmt.Errorf("history_steps must be at least 1, got %d", c.Timing.HistorySteps)
	}
	if g := c.Timing.RefreshGamma; g <= 0 || g >= 1 {
		return fmt.Errorf("refresh_gamma must be in (0, 1), got %f", g)
	}
	if g := c.Timing.RealtimeGamma; g <= 0 || g >= 1 {
		return fmt.Errorf("realtime_gamma must be in (0, 1), got %f", g)
	}
	if c.Record.FPS <= 0 {
		return fmt.Errorf("record fps must be positive, got %d", c.Record.FPS)
	}
	return nil
}
