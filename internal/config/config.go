// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package config loads PanelKit's runtime configuration through a layered
// viper-backed pipeline: built-in defaults, an optional YAML file, single
// key overrides, and finally CLI dimension/backend flags, in that
// precedence order.
package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DisplayConfig mirrors the display.{...} keys consumed at startup.
type DisplayConfig struct {
	Width      int    `mapstructure:"width" yaml:"width"`
	Height     int    `mapstructure:"height" yaml:"height"`
	Fullscreen bool   `mapstructure:"fullscreen" yaml:"fullscreen"`
	VSync      bool   `mapstructure:"vsync" yaml:"vsync"`
	Backend    string `mapstructure:"backend" yaml:"backend"`
}

// InputConfig mirrors the input.{...} keys.
type InputConfig struct {
	Source            string `mapstructure:"source" yaml:"source"`
	DevicePath        string `mapstructure:"device_path" yaml:"device_path"`
	AutoDetectDevices bool   `mapstructure:"auto_detect_devices" yaml:"auto_detect_devices"`
	MouseEmulation    bool   `mapstructure:"mouse_emulation" yaml:"mouse_emulation"`
}

// FontsConfig mirrors ui.fonts.*.
type FontsConfig struct {
	RegularSize int `mapstructure:"regular_size" yaml:"regular_size"`
	LargeSize   int `mapstructure:"large_size" yaml:"large_size"`
	SmallSize   int `mapstructure:"small_size" yaml:"small_size"`
}

// ColorsConfig mirrors ui.colors.*.
type ColorsConfig struct {
	Background string `mapstructure:"background" yaml:"background"`
}

// UIConfig mirrors the ui.* keys.
type UIConfig struct {
	Colors ColorsConfig `mapstructure:"colors" yaml:"colors"`
	Fonts  FontsConfig  `mapstructure:"fonts" yaml:"fonts"`
}

// APIConfig mirrors the api.* keys.
type APIConfig struct {
	DefaultTimeoutMS     int `mapstructure:"default_timeout_ms" yaml:"default_timeout_ms"`
	DefaultRetryCount    int `mapstructure:"default_retry_count" yaml:"default_retry_count"`
	DefaultRetryDelayMS  int `mapstructure:"default_retry_delay_ms" yaml:"default_retry_delay_ms"`
}

// Config is the full, typed configuration tree.
type Config struct {
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Input   InputConfig   `mapstructure:"input" yaml:"input"`
	UI      UIConfig      `mapstructure:"ui" yaml:"ui"`
	API     APIConfig     `mapstructure:"api" yaml:"api"`
}

// Default returns the built-in configuration, the base of the layered
// load and the output of --generate-config.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{Width: 480, Height: 640, Fullscreen: false, VSync: true, Backend: "auto"},
		Input:   InputConfig{Source: "auto", AutoDetectDevices: true, MouseEmulation: true},
		UI: UIConfig{
			Colors: ColorsConfig{Background: "#1e1e1e"},
			Fonts:  FontsConfig{RegularSize: 16, LargeSize: 24, SmallSize: 12},
		},
		API: APIConfig{DefaultTimeoutMS: 5000, DefaultRetryCount: 3, DefaultRetryDelayMS: 500},
	}
}

// Overrides is the set of CLI flags applied after file/override loading,
// since explicit CLI intent always wins.
type Overrides struct {
	Width          int
	Height         int
	Portrait       bool
	DisplayBackend string
}

// Load builds a Config from defaults, an optional YAML file, a set of
// "key=value" override strings, and finally CLI overrides, in that
// precedence order. Unparsable or missing keys fall back to defaults with
// a warning rather than a hard failure.
func Load(configFile string, overrideArgs []string, cli Overrides, log *slog.Logger) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setViperDefaults(v, Default())

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			log.Warn("config file could not be read, using defaults", "file", configFile, "error", err)
		}
	}

	for _, kv := range overrideArgs {
		key, val, ok := strings.Cut(kv, "=")
		if !ok {
			log.Warn("ignoring malformed --config-override", "value", kv)
			continue
		}
		v.Set(key, val)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		log.Warn("config unmarshal failed, falling back to defaults", "error", err)
		cfg = Default()
	}

	applyCLIOverrides(cfg, cli)
	return cfg, nil
}

func setViperDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("display.width", d.Display.Width)
	v.SetDefault("display.height", d.Display.Height)
	v.SetDefault("display.fullscreen", d.Display.Fullscreen)
	v.SetDefault("display.vsync", d.Display.VSync)
	v.SetDefault("display.backend", d.Display.Backend)

	v.SetDefault("input.source", d.Input.Source)
	v.SetDefault("input.device_path", d.Input.DevicePath)
	v.SetDefault("input.auto_detect_devices", d.Input.AutoDetectDevices)
	v.SetDefault("input.mouse_emulation", d.Input.MouseEmulation)

	v.SetDefault("ui.colors.background", d.UI.Colors.Background)
	v.SetDefault("ui.fonts.regular_size", d.UI.Fonts.RegularSize)
	v.SetDefault("ui.fonts.large_size", d.UI.Fonts.LargeSize)
	v.SetDefault("ui.fonts.small_size", d.UI.Fonts.SmallSize)

	v.SetDefault("api.default_timeout_ms", d.API.DefaultTimeoutMS)
	v.SetDefault("api.default_retry_count", d.API.DefaultRetryCount)
	v.SetDefault("api.default_retry_delay_ms", d.API.DefaultRetryDelayMS)
}

func applyCLIOverrides(cfg *Config, cli Overrides) {
	if cli.Width > 0 {
		cfg.Display.Width = cli.Width
	}
	if cli.Height > 0 {
		cfg.Display.Height = cli.Height
	}
	if cli.Portrait && cfg.Display.Width > cfg.Display.Height {
		cfg.Display.Width, cfg.Display.Height = cfg.Display.Height, cfg.Display.Width
	}
	if cli.DisplayBackend != "" {
		cfg.Display.Backend = cli.DisplayBackend
	}
}

// Validate reports the first problem with cfg, or nil if it is usable.
func Validate(cfg *Config) error {
	if cfg.Display.Width <= 0 || cfg.Display.Height <= 0 {
		return fmt.Errorf("display.width and display.height must be positive, got %dx%d", cfg.Display.Width, cfg.Display.Height)
	}
	switch cfg.Display.Backend {
	case "auto", "windowed", "direct":
	default:
		return fmt.Errorf("display.backend must be one of auto|windowed|direct, got %q", cfg.Display.Backend)
	}
	switch cfg.Input.Source {
	case "auto", "native", "evdev", "mock":
	default:
		return fmt.Errorf("input.source must be one of auto|native|evdev|mock, got %q", cfg.Input.Source)
	}
	if !strings.HasPrefix(cfg.UI.Colors.Background, "#") || len(cfg.UI.Colors.Background) != 7 {
		return fmt.Errorf("ui.colors.background must be a #RRGGBB hex string, got %q", cfg.UI.Colors.Background)
	}
	if _, err := strconv.ParseUint(cfg.UI.Colors.Background[1:], 16, 32); err != nil {
		return fmt.Errorf("ui.colors.background is not valid hex: %w", err)
	}
	if cfg.API.DefaultTimeoutMS <= 0 {
		return fmt.Errorf("api.default_timeout_ms must be positive, got %d", cfg.API.DefaultTimeoutMS)
	}
	return nil
}

// Marshal renders cfg as YAML, the format --generate-config writes.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
