// Package config loads and saves the workspace YAML configuration,
// creating it with defaults on first run.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const fileName = "config.yaml"

// Config is the top-level application configuration. Timeline metrics here
// are in layout pixels; the TUI maps them to terminal cells, the SVG
// exporter uses them as-is.
type Config struct {
	// Theme selects the TUI palette: "auto", "light", or "dark".
	Theme string `yaml:"theme"`

	Timeline TimelineConfig `yaml:"timeline"`
}

type TimelineConfig struct {
	// LaneHeight is the vertical size of one character lane.
	LaneHeight float64 `yaml:"lane_height"`

	// LaneHeaderWidth is the leading margin reserved for character names.
	LaneHeaderWidth float64 `yaml:"lane_header_width"`

	// PixelsPerDay is the initial zoom. The engine clamps runtime zoom
	// between its absolute bounds regardless of this value.
	PixelsPerDay float64 `yaml:"pixels_per_day"`

	// InstantaneousWidth is the marker width for zero-duration events.
	InstantaneousWidth float64 `yaml:"instantaneous_width"`
}

func Default() *Config {
	return &Config{
		Theme: "auto",
		Timeline: TimelineConfig{
			LaneHeight:         44,
			LaneHeaderWidth:    140,
			PixelsPerDay:       60,
			InstantaneousWidth: 8,
		},
	}
}

func path(dir string) string {
	return filepath.Join(dir, fileName)
}

// Load reads dir/config.yaml. A missing file is created with defaults so
// users have something to edit; unknown keys are rejected to catch typos.
func Load(dir string) (*Config, error) {
	b, err := os.ReadFile(path(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := Default()
			if err := Save(dir, cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, err
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", fileName, err)
	}
	cfg.normalize()
	return cfg, nil
}

// Save writes dir/config.yaml with user-only permissions.
func Save(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path(dir), b, 0o600)
}

// normalize backfills zero/garbage values with defaults so a hand-edited
// config can never produce an unusable layout.
func (c *Config) normalize() {
	def := Default()
	if c.Timeline.LaneHeight <= 0 {
		c.Timeline.LaneHeight = def.Timeline.LaneHeight
	}
	if c.Timeline.LaneHeaderWidth <= 0 {
		c.Timeline.LaneHeaderWidth = def.Timeline.LaneHeaderWidth
	}
	if c.Timeline.PixelsPerDay <= 0 {
		c.Timeline.PixelsPerDay = def.Timeline.PixelsPerDay
	}
	if c.Timeline.InstantaneousWidth <= 0 {
		c.Timeline.InstantaneousWidth = def.Timeline.InstantaneousWidth
	}
	switch c.Theme {
	case "auto", "light", "dark":
	default:
		c.Theme = "auto"
	}
}
