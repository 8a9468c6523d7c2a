package config

// Default value constants to avoid magic strings.
const (
	DefaultFileName  = ".showtrans.yaml"
	DefaultLocale    = "en"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Environment variables that override file values.
const (
	EnvTable    = "SHOWTRANS_TABLE"
	EnvLocale   = "SHOWTRANS_LOCALE"
	EnvLogLevel = "SHOWTRANS_LOG_LEVEL"
	EnvNoColor  = "NO_COLOR"
)

// NewDefaultConfig returns a Config with every field set to its default.
func NewDefaultConfig() *Config {
	return &Config{
		Locale:    DefaultLocale,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
	}
}

// applyDefaults fills empty fields that must never be empty.
func applyDefaults(cfg *Config) {
	if cfg.Locale == "" {
		cfg.Locale = DefaultLocale
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
}
