package config

import "sort"

func preset(mode string, apply func(c *Config)) *Config {
	c := DefaultConfig()
	c.Topology = mode
	if apply != nil {
		apply(c)
	}
	return c
}

var Presets = map[string]map[string]*Config{
	"tetrahedron": {
		"drop": preset("tetrahedron", nil),
		"high": preset("tetrahedron", func(c *Config) {
			c.Body.DropHeight = 1.0
			c.Duration = 1.5
		}),
		"stiff": preset("tetrahedron", func(c *Config) {
			c.Body.Stiffness = 50000
		}),
	},
	"cubeMinimal": {
		"drop": preset("cubeMinimal", nil),
		"still": preset("cubeMinimal", func(c *Config) {
			c.Drive.Amplitude = 0
		}),
		"frictionless": preset("cubeMinimal", func(c *Config) {
			c.Ground.Friction = 0
		}),
		"soft": preset("cubeMinimal", func(c *Config) {
			c.Body.Stiffness = 2000
			c.Body.DropHeight = 0.5
			c.Duration = 1.0
		}),
		"float": preset("cubeMinimal", func(c *Config) {
			c.Gravity = 0
			c.Ground.Enabled = false
			c.Duration = 0.2
		}),
	},
	"denseLattice": {
		"drop": preset("denseLattice", func(c *Config) {
			c.Increment = 0.01
		}),
		"quick": preset("denseLattice", func(c *Config) {
			c.Increment = 1e-3
			c.Duration = 0.01
		}),
	},
}

func GetPreset(mode, name string) *Config {
	modePresets, ok := Presets[mode]
	if !ok {
		return nil
	}
	cfg, ok := modePresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(mode string) []string {
	modePresets, ok := Presets[mode]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modePresets))
	for name := range modePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
