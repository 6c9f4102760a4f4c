// Package config loads a strem.toml defaults layer, using BurntSushi/toml
// to unmarshal it; values are not validated beyond what decoding checks.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the settings that can come from a strem.toml file, a
// CLI flag, or a built-in default, in that ascending order of
// precedence (flag > config file > default).
type Config struct {
	// Limit is the maximum number of matches to report before search
	// stops. Zero means unbounded.
	Limit int `toml:"limit"`

	// Channels restricts matching to the named sample channels. Empty
	// means no filtering.
	Channels []string `toml:"channels"`

	// Capacity bounds the online matcher's frame window. Zero means
	// unbounded (no eviction).
	Capacity int `toml:"capacity"`
}

// Default is the built-in bottom layer of the precedence chain.
var Default = Config{
	Limit:    0,
	Channels: nil,
	Capacity: 0,
}

// Load reads a TOML config file at path and returns the parsed Config
// with unset fields left at their zero value (FillDefaults applies the
// built-in defaults on top). A missing file is not an error: it
// returns Default unchanged, since a config file is optional.
func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("config: read %q: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %q: %w", path, err)
	}

	return cfg, nil
}

// FillDefaults returns a copy of cfg with zero-valued fields replaced
// by Default's values.
func (cfg Config) FillDefaults() Config {
	filled := cfg
	if filled.Limit == 0 {
		filled.Limit = Default.Limit
	}
	if filled.Channels == nil {
		filled.Channels = Default.Channels
	}
	if filled.Capacity == 0 {
		filled.Capacity = Default.Capacity
	}
	return filled
}

// Merge layers override on top of cfg for every field override sets to
// a non-zero value, realizing the flag > config file > default
// precedence chain: call cfg.FillDefaults() first, then
// cfg.Merge(fromFlags).
func (cfg Config) Merge(override Config) Config {
	merged := cfg
	if override.Limit != 0 {
		merged.Limit = override.Limit
	}
	if len(override.Channels) > 0 {
		merged.Channels = override.Channels
	}
	if override.Capacity != 0 {
		merged.Capacity = override.Capacity
	}
	return merged
}
