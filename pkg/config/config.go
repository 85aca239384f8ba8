// Package config loads depscout settings from a TOML file.
//
// Configuration is optional: a missing file yields defaults, and CLI
// flags override whatever the file provides.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/depscout/depscout/pkg/errors"
)

// DefaultFile is the config filename looked up in the working directory.
const DefaultFile = ".depscout.toml"

// Config is the full file layout.
type Config struct {
	Registry Registry `toml:"registry"`
	Output   Output   `toml:"output"`
}

// Registry tunes verification against the npm registry.
type Registry struct {
	BaseURL       string   `toml:"base_url"`
	RatePerMinute int      `toml:"rate_per_minute"`
	Concurrency   int      `toml:"concurrency"`
	Retries       int      `toml:"retries"`
	RetryDelay    Duration `toml:"retry_delay"`
	CacheTTL      Duration `toml:"cache_ttl"`
}

// Output controls report serialization.
type Output struct {
	Format string `toml:"format"` // "json" or "csv"
	Path   string `toml:"path"`   // empty means stdout
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Registry: Registry{
			BaseURL:       "https://registry.npmjs.org",
			RatePerMinute: 1000,
			Concurrency:   10,
			Retries:       3,
			RetryDelay:    Duration(time.Second),
			CacheTTL:      Duration(24 * time.Hour),
		},
		Output: Output{Format: "json"},
	}
}

// Load reads the config file at path, falling back to defaults when the
// file does not exist. A malformed file is an error; a missing one is
// not.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return cfg, nil
}

// Duration wraps time.Duration for TOML strings like "500ms" or "2s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for toml decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }
