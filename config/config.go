// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/flock/components"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Population PopulationConfig `yaml:"population"`
	Flock      FlockConfig      `yaml:"flock"`
	Simulation SimulationConfig `yaml:"simulation"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Server     ServerConfig     `yaml:"server"`
	Tune       TuneConfig       `yaml:"tune"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the world rectangle.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	MinX   float64 `yaml:"min_x"` // lower x bound (origin offset)
	MinY   float64 `yaml:"min_y"` // lower y bound (origin offset)
}

// PopulationConfig holds agent arena parameters.
type PopulationConfig struct {
	MaxCount     int     `yaml:"max_count"`
	Initial      int     `yaml:"initial"`
	InitialSpeed float64 `yaml:"initial_speed"`
}

// FlockConfig holds the shared flocking parameters.
type FlockConfig struct {
	MaxVelocity     float64 `yaml:"max_velocity"`
	MinVelocity     float64 `yaml:"min_velocity"`
	RangeOfView     float64 `yaml:"range_of_view"`
	Strength        float64 `yaml:"strength"`
	RepulsionFactor float64 `yaml:"repulsion_factor"`
	RandomFactor    float64 `yaml:"random_factor"`
	SlowFactor      float64 `yaml:"slow_factor"`
	ConfusionFactor float64 `yaml:"confusion_factor"`
	DistanceFactor  float64 `yaml:"distance_factor"`
	DefaultSize     float64 `yaml:"default_size"`
	WrapMode        bool    `yaml:"wrap_mode"`
}

// SimulationConfig holds step-execution settings.
type SimulationConfig struct {
	ParallelThreshold int `yaml:"parallel_threshold"`
	Workers           int `yaml:"workers"` // 0 = GOMAXPROCS
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // ticks
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// ServerConfig holds the streaming server settings.
type ServerConfig struct {
	Addr              string        `yaml:"addr"`
	TickInterval      time.Duration `yaml:"tick_interval"`
	BroadcastInterval time.Duration `yaml:"broadcast_interval"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
}

// TuneConfig holds parameter-search settings for cmd/tune.
type TuneConfig struct {
	Ticks       int `yaml:"ticks"`
	WarmupTicks int `yaml:"warmup_ticks"`
	Seeds       int `yaml:"seeds"`
	Population  int `yaml:"population"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	World  components.World
	Params components.Params
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.World.Width <= 0 {
		c.World.Width = 200
	}
	if c.World.Height <= 0 {
		c.World.Height = 200
	}
	if c.Population.MaxCount < 0 {
		c.Population.MaxCount = 0
	}

	c.Derived.World = components.World{
		MinX:   c.World.MinX,
		MinY:   c.World.MinY,
		Width:  c.World.Width,
		Height: c.World.Height,
	}
	c.Derived.Params = c.Flock.Params()
}

// Params converts the flock section to the kernel's parameter value.
func (f FlockConfig) Params() components.Params {
	return components.Params{
		MaxVelocity:     f.MaxVelocity,
		MinVelocity:     f.MinVelocity,
		RangeOfView:     f.RangeOfView,
		Strength:        f.Strength,
		RepulsionFactor: f.RepulsionFactor,
		RandomFactor:    f.RandomFactor,
		SlowFactor:      f.SlowFactor,
		ConfusionFactor: f.ConfusionFactor,
		DistanceFactor:  f.DistanceFactor,
		DefaultSize:     f.DefaultSize,
		WrapMode:        f.WrapMode,
	}
}

// SetParams writes a kernel parameter value back into the flock section.
func (f *FlockConfig) SetParams(p components.Params) {
	f.MaxVelocity = p.MaxVelocity
	f.MinVelocity = p.MinVelocity
	f.RangeOfView = p.RangeOfView
	f.Strength = p.Strength
	f.RepulsionFactor = p.RepulsionFactor
	f.RandomFactor = p.RandomFactor
	f.SlowFactor = p.SlowFactor
	f.ConfusionFactor = p.ConfusionFactor
	f.DistanceFactor = p.DistanceFactor
	f.DefaultSize = p.DefaultSize
	f.WrapMode = p.WrapMode
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
