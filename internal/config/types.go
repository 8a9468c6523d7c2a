package config

import "log/slog"

// Config is the root configuration of showtrans.
type Config struct {
	// Table is the default translation table path. Empty means the user is
	// asked to pick one.
	Table string `yaml:"table"`

	// Locale selects the language of user-facing messages.
	Locale string `yaml:"locale"`

	NoColor        bool `yaml:"no_color"`
	NonInteractive bool `yaml:"non_interactive"`

	// DebugNotify emits one notification per resolved value.
	DebugNotify bool `yaml:"debug_notify"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// SlogLevel maps LogLevel onto a slog.Level. Unknown values map to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
