package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// DateLayout is the layout of window bounds in configuration.
const DateLayout = "2006-01-02"

// WindowConfig bounds the release dates loaded into the dashboard.
type WindowConfig struct {
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`
}

// LayoutConfig selects and tunes the treemap layout strategy.
type LayoutConfig struct {
	Strategy string `mapstructure:"strategy"`
	TieBreak string `mapstructure:"tie_break"`
	Scale    string `mapstructure:"scale"`
}

// ExportConfig holds the default canvas size of static exports.
type ExportConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// Config holds all runtime configuration for a featuremap session.
// Values are populated from .featuremap.yaml, FEATUREMAP_* env vars, and CLI flags.
type Config struct {
	Data          []string     `mapstructure:"data"`
	Window        WindowConfig `mapstructure:"window"`
	Mode          string       `mapstructure:"mode"`
	Layout        LayoutConfig `mapstructure:"layout"`
	PaletteFile   string       `mapstructure:"palette_file"`
	TelemetryPath string       `mapstructure:"telemetry_path"`
	Seed          uint64       `mapstructure:"seed"`
	Verbose       bool         `mapstructure:"verbose"`
	Export        ExportConfig `mapstructure:"export"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("data", []string{})
	viper.SetDefault("window.start", "2022-01-01")
	viper.SetDefault("window.end", "2024-01-31")
	viper.SetDefault("mode", "category")
	viper.SetDefault("layout.strategy", "squarified")
	viper.SetDefault("layout.tie_break", "strict")
	viper.SetDefault("layout.scale", "power")
	viper.SetDefault("palette_file", "")
	viper.SetDefault("telemetry_path", "")
	viper.SetDefault("seed", 0)
	viper.SetDefault("verbose", false)
	viper.SetDefault("export.width", 1200)
	viper.SetDefault("export.height", 800)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the dashboard cannot run with.
func (c Config) Validate() error {
	if c.Mode != "category" && c.Mode != "quarter" {
		return fmt.Errorf("config: mode must be category or quarter, got %q", c.Mode)
	}
	switch c.Layout.Strategy {
	case "squarified", "flex":
	default:
		return fmt.Errorf("config: layout.strategy must be squarified or flex, got %q", c.Layout.Strategy)
	}
	switch c.Layout.TieBreak {
	case "strict", "relaxed":
	default:
		return fmt.Errorf("config: layout.tie_break must be strict or relaxed, got %q", c.Layout.TieBreak)
	}
	switch c.Layout.Scale {
	case "linear", "sqrt", "log", "power":
	default:
		return fmt.Errorf("config: layout.scale must be linear, sqrt, log or power, got %q", c.Layout.Scale)
	}
	start, end, err := c.WindowBounds()
	if err != nil {
		return err
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return fmt.Errorf("config: window.end %s is before window.start %s", c.Window.End, c.Window.Start)
	}
	if c.Export.Width <= 0 || c.Export.Height <= 0 {
		return fmt.Errorf("config: export size must be positive, got %dx%d", c.Export.Width, c.Export.Height)
	}
	return nil
}

// WindowBounds parses the window. Empty bounds are returned as zero times.
func (c Config) WindowBounds() (start, end time.Time, err error) {
	if c.Window.Start != "" {
		if start, err = time.Parse(DateLayout, c.Window.Start); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("config: window.start: %w", err)
		}
	}
	if c.Window.End != "" {
		if end, err = time.Parse(DateLayout, c.Window.End); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("config: window.end: %w", err)
		}
	}
	return start, end, nil
}
