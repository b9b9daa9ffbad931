package config

import (
	"github.com/spf13/pflag"
)

// Flag names.
const (
	flagConfig           = "config"
	flagDB               = "db"
	flagLogFormat        = "log-format"
	flagLogLevel         = "log-level"
	flagSessionMaxAge    = "session-max-age"
	flagActivityInterval = "activity-interval"
	flagCleanupInterval  = "cleanup-interval"
	flagWatch            = "watch"
	flagWatchDebounce    = "watch-debounce"
)

// RegisterFlags adds the configuration flags to fs. The defaults shown in
// help are the built-in ones; only flags set on the command line override
// the other sources.
func RegisterFlags(fs *pflag.FlagSet) {
	var d Config
	d.LoadDefaults()

	fs.StringP(flagConfig, "c", "", "path to a JSON or YAML config file")
	fs.StringP(flagDB, "d", d.DatabasePath, "path to the database file")
	fs.String(flagLogFormat, d.LogFormat, "log format: text, json or zap")
	fs.String(flagLogLevel, d.LogLevel, "log level: debug, info, warn or error")
	fs.Duration(flagSessionMaxAge, d.SessionMaxAge, "how long a session stays valid")
	fs.Duration(flagActivityInterval, d.ActivityInterval, "how often last-active is refreshed")
	fs.Duration(flagCleanupInterval, d.CleanupInterval, "how often expired content is removed")
	fs.Bool(flagWatch, d.WatchExternal, "watch the database for changes made by other processes")
	fs.Duration(flagWatchDebounce, d.WatchDebounce, "quiet time before an external change is reported")
}

// applyFlags copies the explicitly set flags of fs into cfg.
func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	var err error
	set := func(name string, fn func() error) {
		if err == nil && fs.Changed(name) {
			err = fn()
		}
	}

	set(flagDB, func() (e error) { cfg.DatabasePath, e = fs.GetString(flagDB); return })
	set(flagLogFormat, func() (e error) { cfg.LogFormat, e = fs.GetString(flagLogFormat); return })
	set(flagLogLevel, func() (e error) { cfg.LogLevel, e = fs.GetString(flagLogLevel); return })
	set(flagSessionMaxAge, func() (e error) { cfg.SessionMaxAge, e = fs.GetDuration(flagSessionMaxAge); return })
	set(flagActivityInterval, func() (e error) { cfg.ActivityInterval, e = fs.GetDuration(flagActivityInterval); return })
	set(flagCleanupInterval, func() (e error) { cfg.CleanupInterval, e = fs.GetDuration(flagCleanupInterval); return })
	set(flagWatch, func() (e error) { cfg.WatchExternal, e = fs.GetBool(flagWatch); return })
	set(flagWatchDebounce, func() (e error) { cfg.WatchDebounce, e = fs.GetDuration(flagWatchDebounce); return })

	return err
}
