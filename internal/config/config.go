package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	// Server configuration
	ServerPort   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// External sheet source configuration
	SheetURL     string
	SheetToken   string
	FetchTimeout time.Duration

	// Snapshot refresh configuration
	RefreshInterval time.Duration

	// Last-good snapshot cache configuration
	CachePath string

	// Logging configuration
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", 30*time.Second),
		WriteTimeout:    getEnvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:     getEnvDuration("HTTP_IDLE_TIMEOUT", 120*time.Second),
		SheetURL:        getEnv("SHEET_URL", ""),
		SheetToken:      getEnv("SHEET_TOKEN", ""),
		FetchTimeout:    getEnvDuration("SHEET_FETCH_TIMEOUT", 30*time.Second),
		RefreshInterval: getEnvDuration("REFRESH_INTERVAL", 15*time.Minute),
		CachePath:       getEnv("SNAPSHOT_CACHE_PATH", "./knowledge-hub.db"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate validates the configuration.
func (c *Config) validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}
	if c.SheetURL == "" {
		return fmt.Errorf("SHEET_URL is required")
	}
	if c.RefreshInterval < time.Minute {
		return fmt.Errorf("REFRESH_INTERVAL must be at least 1m")
	}
	if c.CachePath == "" {
		return fmt.Errorf("SNAPSHOT_CACHE_PATH is required")
	}
	return nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
