package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr               string   `json:"addr" yaml:"addr" toml:"addr"`
	LocalesDir         string   `json:"locales_dir" yaml:"locales_dir" toml:"locales_dir"`
	DefaultLocale      string   `json:"default_locale" yaml:"default_locale" toml:"default_locale"`
	LogLevel           string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat          string   `json:"log_format" yaml:"log_format" toml:"log_format"`
	MaxBodyBytes       int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	RequestTimeoutSec  int      `json:"request_timeout_sec" yaml:"request_timeout_sec" toml:"request_timeout_sec"`
	ShutdownTimeoutSec int      `json:"shutdown_timeout_sec" yaml:"shutdown_timeout_sec" toml:"shutdown_timeout_sec"`
	CORSEnabled        bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins        []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	Maintenance        bool     `json:"maintenance" yaml:"maintenance" toml:"maintenance"`
}

// Defaults applied by WithDefaults.
const (
	DefaultAddr               = ":8080"
	DefaultLocale             = "en"
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "json"
	DefaultMaxBodyBytes       = 1 << 20
	DefaultShutdownTimeoutSec = 5
)

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// FromEnv overlays SKELETON_* environment variables onto cfg.
func FromEnv(cfg Config) Config {
	if v := os.Getenv("SKELETON_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("SKELETON_LOCALES_DIR"); v != "" {
		cfg.LocalesDir = v
	}
	if v := os.Getenv("SKELETON_DEFAULT_LOCALE"); v != "" {
		cfg.DefaultLocale = v
	}
	if v := os.Getenv("SKELETON_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SKELETON_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("SKELETON_MAX_BODY_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxBodyBytes = n
		}
	}
	if v := os.Getenv("SKELETON_REQUEST_TIMEOUT_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RequestTimeoutSec = n
		}
	}
	if v := os.Getenv("SKELETON_SHUTDOWN_TIMEOUT_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ShutdownTimeoutSec = n
		}
	}
	if v := os.Getenv("SKELETON_CORS_ENABLED"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			cfg.CORSEnabled = on
		}
	}
	if v := os.Getenv("SKELETON_CORS_ORIGINS"); v != "" {
		cfg.CORSEnabled = true
		cfg.CORSOrigins = SplitCSV(v)
	}
	if v := os.Getenv("SKELETON_MAINTENANCE"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			cfg.Maintenance = on
		}
	}
	return cfg
}

// WithDefaults fills unset fields.
func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.DefaultLocale == "" {
		c.DefaultLocale = DefaultLocale
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.ShutdownTimeoutSec <= 0 {
		c.ShutdownTimeoutSec = DefaultShutdownTimeoutSec
	}
	return c
}

// SplitCSV splits a comma-separated list, trimming blanks and dropping empties.
func SplitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
