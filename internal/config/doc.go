// Package config loads runtime configuration for the MJ36 CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables prefixed MJ36_, after an optional .env file in
//     the working directory has been loaded.
//  3. Optional config file selected with -c/--config or MJ36_CONFIG. Files
//     ending in .yaml or .yml are read as YAML, anything else as JSON.
//  4. Command-line flags that were set explicitly.
//
// Environment variables
//
//	MJ36_CONFIG             config file path
//	MJ36_DB                 database file path
//	MJ36_SESSION_SECRET     key signing session tokens
//	MJ36_SESSION_MAX_AGE    session lifetime, e.g. "168h"
//	MJ36_ACTIVITY_INTERVAL  last-active refresh period
//	MJ36_CLEANUP_INTERVAL   expired-content cleanup period
//	MJ36_WATCH_EXTERNAL     watch the database for other writers (true/false)
//	MJ36_WATCH_DEBOUNCE     quiet time before an external write is reported
//	MJ36_LOG_FORMAT         text, json or zap
//	MJ36_LOG_LEVEL          debug, info, warn or error
//
// # File schema
//
// Durations use timex.Duration, so they can be strings like "5m" or integer
// nanoseconds:
//
//	{
//	  "database_path": "mj36.db",
//	  "session_max_age": "168h",
//	  "activity_interval": "5m",
//	  "cleanup_interval": "1h",
//	  "watch_external": true,
//	  "log_format": "json"
//	}
package config
