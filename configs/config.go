// Package configs provides the configuration structures and loading
// utilities for the catalog server. Configuration can come from a YAML or
// JSON file, from CATALOG_* environment variables, or both; the viper
// loader in this package also supports hot reloading.
package configs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete configuration of the catalog server.
type Config struct {
	Server    ServerConfig    `json:"server" yaml:"server" mapstructure:"server"`
	Data      DataConfig      `json:"data" yaml:"data" mapstructure:"data"`
	Log       LogConfig       `json:"log" yaml:"log" mapstructure:"log"`
	RateLimit RateLimitConfig `json:"rate_limit" yaml:"rate_limit" mapstructure:"rate_limit"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	// Port the server listens on.
	Port int `json:"port" yaml:"port" mapstructure:"port"`

	// Mode is the gin mode: debug, release or test.
	Mode string `json:"mode" yaml:"mode" mapstructure:"mode"`

	// ShutdownTimeout bounds the graceful shutdown on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// DataConfig holds the collection store settings.
type DataConfig struct {
	// Dir is the directory containing the collection JSON files.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// Watch enables the fsnotify watcher that invalidates cached
	// collections when their files change on disk.
	Watch bool `json:"watch" yaml:"watch" mapstructure:"watch"`
}

// LogConfig holds the logging settings.
type LogConfig struct {
	// Level is the minimum zerolog level: trace, debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format selects console or json output.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// RateLimitConfig holds the token-bucket settings applied to all
// requests.
type RateLimitConfig struct {
	Enabled bool    `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	RPS     float64 `json:"rps" yaml:"rps" mapstructure:"rps"`
	Burst   int     `json:"burst" yaml:"burst" mapstructure:"burst"`
}

// DefaultConfig returns a Config with reasonable default values. The
// defaults match the development layout: data files under ./database,
// listening on the port the storefront frontend expects.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5001,
			Mode:            "release",
			ShutdownTimeout: 15 * time.Second,
		},
		Data: DataConfig{
			Dir:   "database",
			Watch: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		RateLimit: RateLimitConfig{
			Enabled: false,
			RPS:     100,
			Burst:   200,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid server mode: %q", c.Server.Mode)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid shutdown timeout: %s", c.Server.ShutdownTimeout)
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("data dir must not be empty")
	}
	switch c.Log.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format: %q", c.Log.Format)
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.RPS <= 0 {
			return fmt.Errorf("invalid rate limit rps: %f", c.RateLimit.RPS)
		}
		if c.RateLimit.Burst < 1 {
			return fmt.Errorf("invalid rate limit burst: %d", c.RateLimit.Burst)
		}
	}
	return nil
}

// LoadFromFile loads a configuration from a YAML or JSON file, selected
// by extension, on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(raw, config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension: %s", filepath.Ext(path))
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}
