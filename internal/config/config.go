// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// UpstreamConfig holds the provider connection settings.
type UpstreamConfig struct {
	BaseURL        string `yaml:"base_url"`
	SymbolPath     string `yaml:"symbol_path"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Config holds application configuration
type Config struct {
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
	DevMode  bool   `yaml:"-"`

	Upstream UpstreamConfig `yaml:"upstream"`
}

// Load reads configuration from environment variables (a .env file is
// honored if present), then applies an optional YAML overlay file named
// by CHART_CONFIG_FILE. File values win over environment values so a
// deployment can pin the upstream endpoint without editing the unit's
// environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnvAsInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DevMode:  getEnvAsBool("DEV_MODE", false),
		Upstream: UpstreamConfig{
			BaseURL:        getEnv("UPSTREAM_BASE_URL", ""),
			SymbolPath:     getEnv("UPSTREAM_SYMBOL_PATH", ""),
			TimeoutSeconds: getEnvAsInt("UPSTREAM_TIMEOUT_SECONDS", 30),
		},
	}

	if path := os.Getenv("CHART_CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFile overlays non-zero values from a YAML config file.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if file.Port != 0 {
		c.Port = file.Port
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
	}
	if file.Upstream.BaseURL != "" {
		c.Upstream.BaseURL = file.Upstream.BaseURL
	}
	if file.Upstream.SymbolPath != "" {
		c.Upstream.SymbolPath = file.Upstream.SymbolPath
	}
	if file.Upstream.TimeoutSeconds != 0 {
		c.Upstream.TimeoutSeconds = file.Upstream.TimeoutSeconds
	}
	return nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Upstream.TimeoutSeconds <= 0 {
		return fmt.Errorf("upstream timeout must be positive")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
