// Package config provides process configuration loading and validation.
// Record data (members, modules, products) is NOT configured here; it lives
// in the hot-reloading stores under store/.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Data     DataConfig     `yaml:"data"`
	Gateway  GatewayConfig  `yaml:"gateway"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DataConfig configures the record files and their reload behavior.
type DataConfig struct {
	// Dir holds members.yaml, modules.yaml and products.yaml.
	Dir      string        `yaml:"dir"`
	Debounce time.Duration `yaml:"debounce"`
	// Watch disables the file watchers when false (reload via SIGHUP only).
	Watch *bool `yaml:"watch"`
}

// GatewayConfig configures transaction handling.
type GatewayConfig struct {
	// DefaultProvider is used when the route does not carry a provider tag.
	DefaultProvider string `yaml:"default_provider"`
}

// UpstreamConfig configures the outbound provider transport.
type UpstreamConfig struct {
	UserAgent       string        `yaml:"user_agent"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv creates configuration entirely from environment variables.
// Useful for container deployments where no config file is mounted.
//
// Environment variables:
//
//	DIGIGATE_DATA_DIR         - Record file directory (required)
//	DIGIGATE_SERVER_HOST      - Server host (default: 0.0.0.0)
//	DIGIGATE_SERVER_PORT      - Server port (default: 8080)
//	DIGIGATE_DEFAULT_PROVIDER - Default provider tag (default: digipos)
//	DIGIGATE_LOG_LEVEL        - Log level: debug, info, warn, error (default: info)
//	DIGIGATE_LOG_FORMAT       - Log format: json or console (default: json)
//	DIGIGATE_METRICS_ENABLED  - Enable /metrics endpoint (default: false)
func LoadFromEnv() (*Config, error) {
	var cfg Config

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadWithFallback tries to load from file, falls back to environment
// variables. This is the recommended method for container deployments.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	if os.Getenv("DIGIGATE_DATA_DIR") != "" {
		return LoadFromEnv()
	}

	return nil, fmt.Errorf("no configuration found: provide config file or set DIGIGATE_DATA_DIR")
}

// applyEnvOverrides applies DIGIGATE_* environment variables to the config.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DIGIGATE_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("DIGIGATE_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DIGIGATE_SERVER_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if v := os.Getenv("DIGIGATE_SERVER_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}

	if v := os.Getenv("DIGIGATE_DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv("DIGIGATE_DATA_DEBOUNCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Data.Debounce = d
		}
	}
	if v := os.Getenv("DIGIGATE_DATA_WATCH"); v != "" {
		b := parseBool(v)
		cfg.Data.Watch = &b
	}

	if v := os.Getenv("DIGIGATE_DEFAULT_PROVIDER"); v != "" {
		cfg.Gateway.DefaultProvider = v
	}

	if v := os.Getenv("DIGIGATE_UPSTREAM_USER_AGENT"); v != "" {
		cfg.Upstream.UserAgent = v
	}

	if v := os.Getenv("DIGIGATE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("DIGIGATE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	if v := os.Getenv("DIGIGATE_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
	if v := os.Getenv("DIGIGATE_METRICS_PATH"); v != "" {
		cfg.Metrics.Path = v
	}
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}

	if cfg.Data.Debounce == 0 {
		cfg.Data.Debounce = time.Second
	}
	if cfg.Data.Watch == nil {
		b := true
		cfg.Data.Watch = &b
	}

	if cfg.Gateway.DefaultProvider == "" {
		cfg.Gateway.DefaultProvider = "digipos"
	}

	if cfg.Upstream.UserAgent == "" {
		cfg.Upstream.UserAgent = "digigate/1.0"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

func validate(cfg *Config) error {
	if cfg.Data.Dir == "" {
		return fmt.Errorf("data.dir is required")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error, got %q", cfg.Logging.Level)
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}

	if cfg.Data.Debounce < 0 {
		return fmt.Errorf("data.debounce must not be negative")
	}

	return nil
}

// MembersFile returns the path of the members record file.
func (c *Config) MembersFile() string { return filepath.Join(c.Data.Dir, "members.yaml") }

// ModulesFile returns the path of the modules record file.
func (c *Config) ModulesFile() string { return filepath.Join(c.Data.Dir, "modules.yaml") }

// ProductsFile returns the path of the products record file.
func (c *Config) ProductsFile() string { return filepath.Join(c.Data.Dir, "products.yaml") }
