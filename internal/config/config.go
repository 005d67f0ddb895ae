package config

import (
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/physics"
	"github.com/san-kum/softbody/internal/topology"
)

const (
	DefaultTopology       = string(topology.CubeMinimal)
	DefaultIncrement      = 0.1  // s per headless scheduler call
	DefaultFrameIncrement = 1e-5 // s per rendered frame
	DefaultDuration       = 0.5  // s
)

type Config struct {
	Topology       string       `yaml:"topology"`
	Dt             float64      `yaml:"dt"`
	Duration       float64      `yaml:"duration"`
	Increment      float64      `yaml:"increment"`
	FrameIncrement float64      `yaml:"frame_increment"`
	Render         bool         `yaml:"render"`
	Gravity        float64      `yaml:"gravity"`
	DampingRate    float64      `yaml:"damping_rate"`
	Body           BodyConfig   `yaml:"body"`
	Ground         GroundConfig `yaml:"ground"`
	Drive          DriveConfig  `yaml:"drive"`
}

type BodyConfig struct {
	Stiffness  float64 `yaml:"stiffness"`
	Mass       float64 `yaml:"mass"`
	DropHeight float64 `yaml:"drop_height"`
}

type GroundConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Stiffness float64 `yaml:"stiffness"`
	Friction  float64 `yaml:"friction"`
}

// DriveConfig is the breathing actuation: rest lengths scale by
// 1 + amplitude·sin(t·frequency).
type DriveConfig struct {
	Amplitude float64 `yaml:"amplitude"`
	Frequency float64 `yaml:"frequency"`
}

func DefaultConfig() *Config {
	return &Config{
		Topology:       DefaultTopology,
		Dt:             physics.DefaultDt,
		Duration:       DefaultDuration,
		Increment:      DefaultIncrement,
		FrameIncrement: DefaultFrameIncrement,
		Render:         true,
		Gravity:        physics.DefaultGravity,
		DampingRate:    physics.DefaultDampingRate,
		Body: BodyConfig{
			Stiffness:  topology.DefaultStiffness,
			Mass:       topology.DefaultMass,
			DropHeight: topology.DefaultDropHeight,
		},
		Ground: GroundConfig{
			Enabled:   true,
			Stiffness: physics.DefaultGroundStiffness,
			Friction:  physics.DefaultFriction,
		},
		Drive: DriveConfig{
			Amplitude: physics.DefaultOscillationAmplitude,
			Frequency: physics.DefaultOscillationFrequency,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of a copy of base, so keys missing from the
// file keep base's values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write encodes cfg as yaml with two-space indentation.
func Write(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

// Clone returns an independent copy; Config holds no reference fields.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func (c *Config) Mode() (topology.Mode, error) {
	return topology.ParseMode(c.Topology)
}

// Physics returns the integrator parameters described by c.
func (c *Config) Physics() physics.Params {
	return physics.Params{
		Dt:                   c.Dt,
		Gravity:              c.Gravity,
		GroundEnabled:        c.Ground.Enabled,
		GroundStiffness:      c.Ground.Stiffness,
		Friction:             c.Ground.Friction,
		DampingRate:          c.DampingRate,
		OscillationAmplitude: c.Drive.Amplitude,
		OscillationFrequency: c.Drive.Frequency,
	}
}

// TopologyParams returns the generator parameters described by c.
func (c *Config) TopologyParams() topology.Params {
	return topology.Params{
		Stiffness:  c.Body.Stiffness,
		DropHeight: c.Body.DropHeight,
		Mass:       c.Body.Mass,
	}
}

func (c *Config) Validate() error {
	if _, err := c.Mode(); err != nil {
		return err
	}
	if err := c.Physics().Validate(); err != nil {
		return err
	}
	if err := c.TopologyParams().Validate(); err != nil {
		return err
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"duration", c.Duration},
		{"increment", c.Increment},
		{"frame_increment", c.FrameIncrement},
	} {
		if !(f.v > 0) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s must be positive, got %g: %w", f.name, f.v, dynamo.ErrParameterBounds)
		}
	}
	return nil
}
