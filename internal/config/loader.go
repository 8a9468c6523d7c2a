package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Loader reads configuration from an optional YAML file, a .env file and
// the process environment. It is thread-safe via sync.RWMutex.
type Loader struct {
	mu     sync.RWMutex
	source string
	lookup func(string) (string, bool)
}

// NewLoader creates a new Loader that reads the process environment.
func NewLoader() *Loader {
	return &Loader{lookup: os.LookupEnv}
}

// Load builds the configuration for the working directory dir.
//
// When path is non-empty that file must exist. Otherwise dir/.showtrans.yaml
// is used if present and defaults apply when it is not. Values from the
// environment (and from dir/.env for variables the environment lacks)
// override file values.
func (l *Loader) Load(dir, path string) (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.source = ""
	cfg := NewDefaultConfig()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(filepath.Clean(dir), DefaultFileName)
	}

	loaded, err := loadYAMLFile(path, cfg)
	switch {
	case err != nil:
		return nil, err
	case !loaded && explicit:
		return nil, fmt.Errorf("config file %s: %w", path, os.ErrNotExist)
	case loaded:
		l.source = path
		if cfg.Table != "" && !filepath.IsAbs(cfg.Table) {
			cfg.Table = filepath.Join(filepath.Dir(path), cfg.Table)
		}
	default:
		slog.Debug("config file not found, using defaults", "path", path)
	}

	l.applyEnv(cfg, readDotEnv(dir))
	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Source returns the path of the YAML file used by the last Load, or ""
// when only defaults and environment were used.
func (l *Loader) Source() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.source
}

// applyEnv overrides cfg with environment values. dotenv supplies values for
// variables the environment does not define.
func (l *Loader) applyEnv(cfg *Config, dotenv map[string]string) {
	get := func(key string) (string, bool) {
		if v, ok := l.lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	if v, ok := get(EnvTable); ok && v != "" {
		cfg.Table = v
	}
	if v, ok := get(EnvLocale); ok && v != "" {
		cfg.Locale = v
	}
	if v, ok := get(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := get(EnvNoColor); ok && v != "" {
		cfg.NoColor = true
	}
}

// readDotEnv parses dir/.env without touching the process environment.
// A missing file yields an empty map.
func readDotEnv(dir string) map[string]string {
	path := filepath.Join(filepath.Clean(dir), ".env")
	vals, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to read .env, ignoring", "path", path, "error", err)
		}
		return nil
	}
	return vals
}

// loadYAMLFile reads a YAML file and unmarshals it into the target struct.
// Returns (true, nil) if the file was found and parsed, (false, nil) if the
// file does not exist, or (false, error) on failure.
func loadYAMLFile(path string, target any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return false, fmt.Errorf("parse %s: %w", filepath.Base(path), ErrInvalidYAML)
	}

	return true, nil
}
