package config

import "slices"

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"text", "json"}
)

// Validate checks the configuration for correctness.
func Validate(cfg *Config) error {
	var errs []ValidationError

	if !slices.Contains(validLogLevels, cfg.LogLevel) {
		errs = append(errs, ValidationError{
			Field:   "log_level",
			Message: "unknown log level",
			Value:   cfg.LogLevel,
			Wrapped: ErrInvalidLogLevel,
		})
	}

	if !slices.Contains(validLogFormats, cfg.LogFormat) {
		errs = append(errs, ValidationError{
			Field:   "log_format",
			Message: "unknown log format",
			Value:   cfg.LogFormat,
			Wrapped: ErrInvalidLogFormat,
		})
	}

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}
