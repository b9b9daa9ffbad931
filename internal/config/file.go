package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/mj36/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used exclusively for decoding config files. Absent
// fields leave the current value untouched.
type FileConfig struct {
	DatabasePath     *string         `json:"database_path" yaml:"database_path"`
	SessionSecret    *string         `json:"session_secret" yaml:"session_secret"`
	SessionMaxAge    *timex.Duration `json:"session_max_age" yaml:"session_max_age"`
	ActivityInterval *timex.Duration `json:"activity_interval" yaml:"activity_interval"`
	CleanupInterval  *timex.Duration `json:"cleanup_interval" yaml:"cleanup_interval"`
	WatchExternal    *bool           `json:"watch_external" yaml:"watch_external"`
	WatchDebounce    *timex.Duration `json:"watch_debounce" yaml:"watch_debounce"`
	LogFormat        *string         `json:"log_format" yaml:"log_format"`
	LogLevel         *string         `json:"log_level" yaml:"log_level"`
}

// parseFile overlays cfg with the values found in the file at path.
func parseFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	if fc.DatabasePath != nil {
		cfg.DatabasePath = *fc.DatabasePath
	}
	if fc.SessionSecret != nil {
		cfg.SessionSecret = *fc.SessionSecret
	}
	if fc.SessionMaxAge != nil {
		cfg.SessionMaxAge = fc.SessionMaxAge.Duration
	}
	if fc.ActivityInterval != nil {
		cfg.ActivityInterval = fc.ActivityInterval.Duration
	}
	if fc.CleanupInterval != nil {
		cfg.CleanupInterval = fc.CleanupInterval.Duration
	}
	if fc.WatchExternal != nil {
		cfg.WatchExternal = *fc.WatchExternal
	}
	if fc.WatchDebounce != nil {
		cfg.WatchDebounce = fc.WatchDebounce.Duration
	}
	if fc.LogFormat != nil {
		cfg.LogFormat = *fc.LogFormat
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
}
