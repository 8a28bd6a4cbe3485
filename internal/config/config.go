// Package config loads portal settings from an optional YAML file, a .env
// file and the process environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAddr           = ":8080"
	DefaultAPIBase        = "/api"
	DefaultProxyTarget    = "http://localhost:8000"
	DefaultDBPath         = "./portal.db"
	DefaultOwner          = "demo"
	DefaultBackendTimeout = 10 * time.Second
	DefaultLogLevel       = "info"
)

type Config struct {
	Addr           string        `yaml:"addr"`
	APIBase        string        `yaml:"api_base"`
	ProxyTarget    string        `yaml:"proxy_target"`
	DBPath         string        `yaml:"db_path"`
	DefaultOwner   string        `yaml:"default_owner"`
	BackendTimeout time.Duration `yaml:"backend_timeout"`
	LogLevel       string        `yaml:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		Addr:           DefaultAddr,
		APIBase:        DefaultAPIBase,
		ProxyTarget:    DefaultProxyTarget,
		DBPath:         DefaultDBPath,
		DefaultOwner:   DefaultOwner,
		BackendTimeout: DefaultBackendTimeout,
		LogLevel:       DefaultLogLevel,
	}
}

// Load reads the YAML file at path (skipped when path is empty or missing),
// then .env files, then environment variables.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	// godotenv never overrides variables that are already set, so the real
	// environment keeps precedence over .env.
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnvOverrides() error {
	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setString("PORTAL_ADDR", &c.Addr)
	setString("API_BASE", &c.APIBase)
	setString("API_PROXY_TARGET", &c.ProxyTarget)
	setString("PORTAL_DB_PATH", &c.DBPath)
	setString("PORTAL_OWNER", &c.DefaultOwner)
	setString("LOG_LEVEL", &c.LogLevel)

	if v := strings.TrimSpace(os.Getenv("BACKEND_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("BACKEND_TIMEOUT: %w", err)
		}
		c.BackendTimeout = d
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("config: addr is required")
	}
	if !strings.HasPrefix(c.APIBase, "/") {
		return fmt.Errorf("config: api_base %q must start with /", c.APIBase)
	}
	u, err := url.Parse(c.ProxyTarget)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: proxy_target %q is not an absolute URL", c.ProxyTarget)
	}
	if c.BackendTimeout <= 0 {
		return errors.New("config: backend_timeout must be positive")
	}
	if c.DefaultOwner == "" {
		return errors.New("config: default_owner is required")
	}
	return nil
}
