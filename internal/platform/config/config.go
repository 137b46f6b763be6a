// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct. A '.env' file in the working directory, when present, is loaded first
through 'joho/godotenv'; real environment variables always win.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (storage, backend client) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Selectors

// Resource providers.
const (
	ProviderRemote   = "remote"
	ProviderFallback = "fallback"
)

// Storage backends for sessions, notifications, cache and the fallback snapshot.
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// # Configuration Schema

// Config holds all runtime configuration for the RiddleRush admin server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// BackendURL is the base of the RiddleRush REST API (no trailing slash).
	BackendURL string `env:"BACKEND_URL" envDefault:"http://localhost:3345/api"`

	// ResourceProvider selects the campaign/riddle data layer: "remote" or "fallback".
	ResourceProvider string `env:"RESOURCE_PROVIDER" envDefault:"remote"`

	// StorageBackend selects the key-value store: "memory", "redis" or "postgres".
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"memory"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL"`

	// Relational Database (PostgreSQL)
	DatabaseURL   string `env:"DATABASE_URL"`
	MigrationPath string `env:"MIGRATION_PATH"`

	// Browser sessions
	SessionSecret       string        `env:"SESSION_SECRET,required"`
	SessionIdleTTL      time.Duration `env:"SESSION_IDLE_TTL"       envDefault:"30m"`
	SessionCookieMaxAge time.Duration `env:"SESSION_COOKIE_MAX_AGE" envDefault:"720h"`

	// Upstream calls
	ExchangeTimeout time.Duration `env:"EXCHANGE_TIMEOUT" envDefault:"10s"`
	CacheTTL        time.Duration `env:"CACHE_TTL"        envDefault:"30s"`

	// Telegram Login Widget
	TelegramBotName string `env:"TELEGRAM_BOT_NAME" envDefault:"YOUR_BOT_NAME"`

	// Cross-Origin Resource Sharing
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

// # Configuration Loading

// Load reads an optional .env file and parses environment variables into a [Config].
func Load() (*Config, error) {

	// A missing .env is the normal production case.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env: %w", err)
	}

	cfg := &Config{}

	// This fails if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the cross-field rules that struct tags cannot express.
func (c *Config) Validate() error {
	switch c.ResourceProvider {
	case ProviderRemote, ProviderFallback:
	default:
		return fmt.Errorf("config: RESOURCE_PROVIDER must be %q or %q, got %q", ProviderRemote, ProviderFallback, c.ResourceProvider)
	}

	switch c.StorageBackend {
	case StorageMemory:
	case StorageRedis:
		if c.RedisURL == "" {
			return errors.New("config: REDIS_URL is required when STORAGE_BACKEND=redis")
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("config: unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	if c.ResourceProvider == ProviderRemote && c.BackendURL == "" {
		return errors.New("config: BACKEND_URL is required when RESOURCE_PROVIDER=remote")
	}

	if len(c.SessionSecret) < 32 {
		return errors.New("config: SESSION_SECRET must be at least 32 bytes")
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
