// Package config defines peek64's configuration: a small typed struct
// loaded from a TOML file with PEEK64_* environment overrides, plus a
// watcher for live reload.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lucasb-eyer/go-colorful"
)

// Validation errors.
var (
	ErrInvalidLogLevel = errors.New("invalid log level")
	ErrInvalidColor    = errors.New("invalid color")
)

// Color is a hex color string ("#rrggbb" or "#rgb"). Empty means the
// terminal's default color.
type Color string

// RGB parses the color. ok is false for the empty (terminal default) color.
func (c Color) RGB() (r, g, b uint8, ok bool, err error) {
	if c == "" {
		return 0, 0, 0, false, nil
	}
	col, err := colorful.Hex(string(c))
	if err != nil {
		return 0, 0, 0, false, fmt.Errorf("%w: %q", ErrInvalidColor, string(c))
	}
	r, g, b = col.RGB255()
	return r, g, b, true, nil
}

// Config is the root configuration.
type Config struct {
	UI      UIConfig      `toml:"ui"`
	Logging LoggingConfig `toml:"logging"`
	Plugin  PluginConfig  `toml:"plugin"`
}

// UIConfig holds the screen theme.
type UIConfig struct {
	InputColor   Color `toml:"input_color"`
	StatusColor  Color `toml:"status_color"`
	DecodedColor Color `toml:"decoded_color"`
}

// LoggingConfig controls the application log. File is empty by default:
// the application owns the terminal, so logging is opt-in.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// PluginConfig names an optional Lua display filter script.
type PluginConfig struct {
	Filter string `toml:"filter"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	for _, col := range []Color{c.UI.InputColor, c.UI.StatusColor, c.UI.DecodedColor} {
		if _, _, _, _, err := col.RGB(); err != nil {
			return err
		}
	}

	return nil
}

// DefaultPath returns the default config file location,
// $XDG_CONFIG_HOME/peek64/config.toml or the platform equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "peek64", "config.toml")
}
