package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// envOverrides maps environment variables onto config fields. Scanned in a
// fixed order so behavior is deterministic.
var envOverrides = []struct {
	name  string
	apply func(c *Config, value string)
}{
	{"PEEK64_LOG_LEVEL", func(c *Config, v string) { c.Logging.Level = v }},
	{"PEEK64_LOG_FILE", func(c *Config, v string) { c.Logging.File = v }},
	{"PEEK64_FILTER", func(c *Config, v string) { c.Plugin.Filter = v }},
	{"PEEK64_INPUT_COLOR", func(c *Config, v string) { c.UI.InputColor = Color(v) }},
	{"PEEK64_STATUS_COLOR", func(c *Config, v string) { c.UI.StatusColor = Color(v) }},
	{"PEEK64_DECODED_COLOR", func(c *Config, v string) { c.UI.DecodedColor = Color(v) }},
}

// Load builds a configuration from defaults, the TOML file at path (if it
// exists), and PEEK64_* environment overrides, then validates the result.
// A missing file is not an error; an empty path skips file loading.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults apply.
		case err != nil:
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overlays PEEK64_* environment variables onto cfg.
func applyEnv(cfg *Config) {
	for _, o := range envOverrides {
		if v, ok := os.LookupEnv(o.name); ok {
			o.apply(cfg, v)
		}
	}
}
