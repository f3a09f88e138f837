// Package config loads the decks tool configuration from YAML with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Drivers understood by Storage.Driver.
const (
	DriverMem    = "mem"
	DriverBolt   = "bolt"
	DriverStorm  = "storm"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Config holds the decks tool configuration.
type Config struct {
	Env     string        `yaml:"env" env:"DECKS_ENV"`
	Storage StorageConfig `yaml:"storage"`
	Redis   RedisConfig   `yaml:"redis"`
	Pages   PagesConfig   `yaml:"pages"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// StorageConfig selects and configures the durable store.
type StorageConfig struct {
	Driver          string `yaml:"driver" env:"DECKS_STORAGE_DRIVER"` // mem, bolt, storm, sqlite, redis (default: bolt)
	Path            string `yaml:"path" env:"DECKS_STORAGE_PATH"`     // file path for bolt, storm, sqlite
	Key             string `yaml:"key" env:"DECKS_STORAGE_KEY"`       // default: saved-decks
	WriteTimeoutSec int    `yaml:"write_timeout_sec" env:"DECKS_STORAGE_WRITE_TIMEOUT_SEC"`
}

// RedisConfig holds Redis connection settings, used by the redis driver.
type RedisConfig struct {
	Addrs    []string `yaml:"addrs" env:"DECKS_REDIS_ADDRS" envSeparator:","`
	Username string   `yaml:"username" env:"DECKS_REDIS_USERNAME"`
	Password string   `yaml:"password" env:"DECKS_REDIS_PASSWORD"`
	DB       int      `yaml:"db" env:"DECKS_REDIS_DB"`
	Prefix   string   `yaml:"prefix" env:"DECKS_REDIS_PREFIX"`
}

// PagesConfig holds pagination settings.
type PagesConfig struct {
	Size int `yaml:"size" env:"DECKS_PAGE_SIZE"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level" env:"DECKS_LOG_LEVEL"` // debug, info, warn, error (default: determined by env)
}

// MetricsConfig holds the optional Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr" env:"DECKS_METRICS_ADDR"` // empty disables the endpoint
}

// Load reads configuration from the YAML file at path, then applies
// environment overrides and defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Finish(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Read reads the YAML file at path and applies environment overrides,
// leaving unset fields empty so callers can layer flags on top before
// calling Finish. A missing file is not an error.
func Read(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			// Substitute env variables of the form ${VAR}
			data = expandEnvVars(data)
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// Finish applies defaults and validates.
func (c *Config) Finish() error {
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Env == "" {
		c.Env = "local"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverBolt
	}
	if c.Storage.Path == "" {
		switch c.Storage.Driver {
		case DriverBolt, DriverStorm:
			c.Storage.Path = filepath.Join(DataDir(), "decks.db")
		case DriverSQLite:
			c.Storage.Path = filepath.Join(DataDir(), "decks.sqlite")
		}
	}
	if c.Storage.Key == "" {
		c.Storage.Key = "saved-decks"
	}
	if c.Storage.WriteTimeoutSec <= 0 {
		c.Storage.WriteTimeoutSec = 5
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = "decks"
	}
	if c.Pages.Size <= 0 {
		c.Pages.Size = 5
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	switch c.Env {
	case "local", "dev", "prod":
	default:
		return fmt.Errorf("env must be one of local, dev, prod, got %q", c.Env)
	}
	switch c.Storage.Driver {
	case DriverMem:
	case DriverBolt, DriverStorm, DriverSQLite:
		if strings.TrimSpace(c.Storage.Path) == "" {
			return fmt.Errorf("storage.path is required for driver %q", c.Storage.Driver)
		}
	case DriverRedis:
		if len(c.Redis.Addrs) == 0 {
			return fmt.Errorf("redis.addrs is required for driver %q", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	if c.Pages.Size <= 0 {
		return fmt.Errorf("pages.size must be positive, got %d", c.Pages.Size)
	}
	return nil
}

// DataDir is where file backed stores live by default.
func DataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "decks")
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
