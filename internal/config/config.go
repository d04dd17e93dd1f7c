package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Closing   ClosingConfig
	Scheduler SchedulerConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds settings for the Postgres backend.
type DatabaseConfig struct {
	DSN string
}

// AuthConfig contains the hosted auth provider endpoint and API key. Both
// may be empty: anonymous shared-device usage is a supported mode and the
// identity provider is then simply never consulted.
type AuthConfig struct {
	BaseURL string
	APIKey  string
}

// ClosingConfig holds closing-workflow policy knobs.
type ClosingConfig struct {
	// RequireNotesOnShortage rejects a shortage submission with blank
	// notes when enabled. Deployments disagree on this rule, so it is a
	// policy flag rather than a fixed behavior.
	RequireNotesOnShortage bool
	Timezone               string
}

// SchedulerConfig holds settings for the aggregate resync sweeper.
type SchedulerConfig struct {
	ResyncCron string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes from
		// the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Database: DatabaseConfig{
			DSN: os.Getenv("DATABASE_DSN"),
		},
		Auth: AuthConfig{
			BaseURL: os.Getenv("AUTH_API_URL"),
			APIKey:  os.Getenv("AUTH_API_KEY"),
		},
		Closing: ClosingConfig{
			RequireNotesOnShortage: getenvBool("CLOSING_REQUIRE_NOTES_ON_SHORTAGE", false),
			Timezone:               getenvWithDefault("TIMEZONE", "America/Sao_Paulo"),
		},
		Scheduler: SchedulerConfig{
			ResyncCron: getenvWithDefault("CLOSING_RESYNC_CRON", "*/15 * * * *"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Database.DSN == "" {
		return errors.New("DATABASE_DSN must be provided")
	}

	if c.Scheduler.ResyncCron == "" {
		return errors.New("CLOSING_RESYNC_CRON must be provided")
	}

	if _, err := time.LoadLocation(c.Closing.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Closing.Timezone, err)
	}

	if c.Auth.BaseURL != "" && c.Auth.APIKey == "" {
		return errors.New("AUTH_API_KEY must be provided when AUTH_API_URL is set")
	}

	return nil
}

// Location resolves the configured timezone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Closing.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
