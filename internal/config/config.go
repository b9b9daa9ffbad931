package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
)

// Config holds runtime settings for the MJ36 CLI.
type Config struct {
	DatabasePath string `validate:"required"`
	// SessionSecret signs session tokens. When empty the app generates one
	// and keeps it in the database.
	SessionSecret    string        `validate:"omitempty,min=16"`
	SessionMaxAge    time.Duration `validate:"gt=0"`
	ActivityInterval time.Duration `validate:"gt=0"`
	CleanupInterval  time.Duration `validate:"gt=0"`
	WatchExternal    bool
	WatchDebounce    time.Duration `validate:"gte=0"`
	LogFormat        string        `validate:"oneof=text json zap"`
	LogLevel         string        `validate:"oneof=debug info warn error"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "mj36.db"
	c.SessionSecret = ""
	c.SessionMaxAge = 7 * 24 * time.Hour
	c.ActivityInterval = 5 * time.Minute
	c.CleanupInterval = time.Hour
	c.WatchExternal = true
	c.WatchDebounce = 250 * time.Millisecond
	c.LogFormat = "text"
	c.LogLevel = "info"
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Load builds a Config from defaults, the environment, the config file and
// the flags in fs that were set explicitly, in that order. fs must have been
// prepared with RegisterFlags and parsed; it may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	path, err := parseEnv(cfg)
	if err != nil {
		return nil, err
	}

	if fs != nil && fs.Changed(flagConfig) {
		path, _ = fs.GetString(flagConfig)
	}
	if path != "" {
		if err := parseFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if fs != nil {
		if err := applyFlags(cfg, fs); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
