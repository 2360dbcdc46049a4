package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
)

// Config holds process-level configuration read from the environment
type Config struct {
	// Logging
	LogLevel string

	// Parallel entity assembly
	Workers int

	// Server
	Port int
	Env  string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		LogLevel: getEnv("QSKEL_LOG_LEVEL", "info"),
		Workers:  getEnvInt("QSKEL_WORKERS", 4),
		Port:     getEnvInt("QSKEL_PORT", 8080),
		Env:      getEnv("QSKEL_ENV", "development"),
	}

	return cfg, nil
}

// Validate checks the configuration for values that cannot be used
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("QSKEL_WORKERS must be at least 1, got %d", c.Workers)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("QSKEL_PORT out of range: %d", c.Port)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid QSKEL_LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return nil
}

// Level returns the configured log level, falling back to info
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return level
}

// IsDevelopment reports whether the process runs in a development environment
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
