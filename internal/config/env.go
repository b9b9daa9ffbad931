package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "MJ36_"

// dotenvFile is loaded before reading the environment when it exists.
var dotenvFile = ".env"

// parseEnv overlays cfg with MJ36_* variables and returns the config file
// path named by MJ36_CONFIG, if any. Variables already set in the process
// environment win over the .env file.
func parseEnv(cfg *Config) (string, error) {
	if err := godotenv.Load(dotenvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to load %s: %w", dotenvFile, err)
	}

	if v, ok := lookup("DB"); ok {
		cfg.DatabasePath = v
	}
	if v, ok := lookup("SESSION_SECRET"); ok {
		cfg.SessionSecret = v
	}
	if v, ok := lookup("LOG_FORMAT"); ok {
		cfg.LogFormat = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}

	durations := []struct {
		name string
		dst  *time.Duration
	}{
		{"SESSION_MAX_AGE", &cfg.SessionMaxAge},
		{"ACTIVITY_INTERVAL", &cfg.ActivityInterval},
		{"CLEANUP_INTERVAL", &cfg.CleanupInterval},
		{"WATCH_DEBOUNCE", &cfg.WatchDebounce},
	}
	for _, d := range durations {
		v, ok := lookup(d.name)
		if !ok {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return "", fmt.Errorf("%s%s: %w", envPrefix, d.name, err)
		}
		*d.dst = parsed
	}

	if v, ok := lookup("WATCH_EXTERNAL"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return "", fmt.Errorf("%sWATCH_EXTERNAL: %w", envPrefix, err)
		}
		cfg.WatchExternal = b
	}

	path, _ := lookup("CONFIG")
	return path, nil
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
