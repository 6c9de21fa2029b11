// Package common provides shared utilities for fintrack
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for fintrack
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Ledger      LedgerConfig  `toml:"ledger"`
	Scheduler   SchedConfig   `toml:"scheduler"`
	Logging     LoggingConfig `toml:"logging"`
	Auth        AuthConfig    `toml:"auth"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds the path for the BadgerHold data directory.
type StorageConfig struct {
	Path string `toml:"path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Finnhub FinnhubConfig `toml:"finnhub"`
}

// FinnhubConfig holds Finnhub market-data API configuration
type FinnhubConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
	QuoteTTL  string `toml:"quote_ttl"`
}

// GetTimeout parses and returns the timeout duration
func (c *FinnhubConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetQuoteTTL parses and returns the quote cache TTL
func (c *FinnhubConfig) GetQuoteTTL() time.Duration {
	d, err := time.ParseDuration(c.QuoteTTL)
	if err != nil {
		return time.Minute
	}
	return d
}

// LedgerConfig holds trade-settlement tuning knobs.
type LedgerConfig struct {
	LockWait   string `toml:"lock_wait"`   // max wait for the per-user trade lock
	MaxRetries int    `toml:"max_retries"` // bounded retry on storage conflicts
}

// GetLockWait parses and returns the per-user lock acquisition timeout
func (c *LedgerConfig) GetLockWait() time.Duration {
	d, err := time.ParseDuration(c.LockWait)
	if err != nil {
		return 2 * time.Second
	}
	return d
}

// SchedConfig holds background scheduler configuration.
type SchedConfig struct {
	Enabled      bool   `toml:"enabled"`
	AlertSpec    string `toml:"alert_spec"`    // cron spec for watchlist alert sweeps
	SnapshotSpec string `toml:"snapshot_spec"` // cron spec for daily portfolio snapshots
}

// AuthConfig holds JWT authentication configuration.
type AuthConfig struct {
	JWTSecret   string `toml:"jwt_secret"`
	TokenExpiry string `toml:"token_expiry"` // duration string, default "24h"
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Path: "data/fintrack",
		},
		Clients: ClientsConfig{
			Finnhub: FinnhubConfig{
				BaseURL:   "https://finnhub.io/api/v1",
				RateLimit: 10,
				Timeout:   "30s",
				QuoteTTL:  "1m",
			},
		},
		Ledger: LedgerConfig{
			LockWait:   "2s",
			MaxRetries: 3,
		},
		Scheduler: SchedConfig{
			Enabled:      true,
			AlertSpec:    "*/5 * * * *",
			SnapshotSpec: "0 18 * * 1-5",
		},
		Auth: AuthConfig{
			JWTSecret:   "dev-jwt-secret-change-in-production",
			TokenExpiry: "24h",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FINTRACK_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FINTRACK_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FINTRACK_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FINTRACK_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("FINTRACK_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if key := os.Getenv("FINNHUB_API_KEY"); key != "" {
		config.Clients.Finnhub.APIKey = key
	}

	if v := os.Getenv("FINTRACK_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("FINTRACK_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
