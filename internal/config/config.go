package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port string

	// Logging configuration
	LogLevel string

	// Path prefix under which the dispatcher intercepts target traffic
	MountPrefix string

	// Upstream call timeout for generated tool handlers (seconds)
	UpstreamTimeoutSeconds int

	// Bounded wait for a target lifecycle to stop (seconds)
	StopTimeoutSeconds int
}

// New creates a new Config instance by loading environment variables
// from .env file (if present) and OS environment.
// OS environment variables take precedence over .env file values.
// Panics if configuration values are invalid.
func New() *Config {
	// Load .env file from the working directory (silently ignore if not found)
	envPath := filepath.Join(".", ".env")
	_ = godotenv.Load(envPath)

	cfg := &Config{
		Port:                   getEnvOrDefault("PORT", "8080"),
		LogLevel:               getEnvOrDefault("LOG_LEVEL", "INFO"),
		MountPrefix:            getEnvOrDefault("MOUNT_PREFIX", "/mcp"),
		UpstreamTimeoutSeconds: getEnvIntOrDefault("UPSTREAM_TIMEOUT_SECONDS", 30),
		StopTimeoutSeconds:     getEnvIntOrDefault("STOP_TIMEOUT_SECONDS", 5),
	}

	cfg.validate()

	return cfg
}

// validate checks that all configuration values are usable
func (c *Config) validate() {
	if !strings.HasPrefix(c.MountPrefix, "/") || c.MountPrefix == "/" {
		panic(fmt.Sprintf("MOUNT_PREFIX must be a non-root path starting with '/' (got '%s')", c.MountPrefix))
	}
	if c.UpstreamTimeoutSeconds <= 0 {
		panic(fmt.Sprintf("UPSTREAM_TIMEOUT_SECONDS must be positive (got %d)", c.UpstreamTimeoutSeconds))
	}
	if c.StopTimeoutSeconds <= 0 {
		panic(fmt.Sprintf("STOP_TIMEOUT_SECONDS must be positive (got %d)", c.StopTimeoutSeconds))
	}
}

// UpstreamTimeout returns the upstream call timeout as a duration
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutSeconds) * time.Second
}

// StopTimeout returns the lifecycle stop timeout as a duration
func (c *Config) StopTimeout() time.Duration {
	return time.Duration(c.StopTimeoutSeconds) * time.Second
}

// getEnvOrDefault returns the value of an environment variable or a default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault returns an integer environment variable or a default value
func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		panic(fmt.Sprintf("%s must be an integer (got '%s')", key, value))
	}
	return parsed
}
