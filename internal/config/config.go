// Package config contains everything related to configuration
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	// EnvFile is the .env file that was loaded, empty when none was found.
	EnvFile             string
	APIBaseURL          string
	LogPath             string
	MockAPIAddr         string
	APITimeout          time.Duration
	DelayAlertThreshold float64
	DesktopNotify       bool
}

// Default values
const (
	defaultAPIBaseURL          = "http://localhost:8080"
	defaultMockAPIAddr         = ":8080"
	defaultDelayAlertThreshold = 0.6
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	envFile := findEnvFile(getEnvPaths())
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}
	return fromEnv(envFile)
}

// Reload re-reads envFile, overriding values already present in the environment.
func Reload(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Overload(envFile); err != nil {
			return nil, fmt.Errorf("failed to reload %s: %w", envFile, err)
		}
	}
	return fromEnv(envFile)
}

func fromEnv(envFile string) (*Config, error) {
	cfg := &Config{
		EnvFile:             envFile,
		APIBaseURL:          strings.TrimRight(getEnvString("API_BASE_URL", defaultAPIBaseURL), "/"),
		APITimeout:          getEnvDuration("API_TIMEOUT", 0),
		DelayAlertThreshold: getEnvFloat("DELAY_ALERT_THRESHOLD", defaultDelayAlertThreshold),
		DesktopNotify:       getEnvBool("DESKTOP_NOTIFICATIONS", true),
		LogPath:             getEnvString("LOG_PATH", ""),
		MockAPIAddr:         getEnvString("MOCK_API_ADDR", defaultMockAPIAddr),
	}

	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", cfg.APIBaseURL)
	}

	if cfg.DelayAlertThreshold < 0 || cfg.DelayAlertThreshold > 1 {
		return nil, fmt.Errorf("DELAY_ALERT_THRESHOLD must be between 0 and 1, got %v", cfg.DelayAlertThreshold)
	}

	if cfg.LogPath != "" {
		if err := ensureDir(filepath.Dir(cfg.LogPath)); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func findEnvFile(paths []string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "flight-delay-tui", ".env"),
			filepath.Join(home, ".flight-delay", ".env"),
		)
	}

	// Parent directories (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
		grandparent := filepath.Dir(parent)
		paths = append(paths, filepath.Join(grandparent, ".env"))
	}

	return paths
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
