package config

import (
	"io"
	"os"
	"strconv"
	"strings"

	"simcross/internal"
	"simcross/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig
	Output OutputConfig
	Limits LimitsConfig
	Log    LogConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// OutputConfig controls where and how payloads are written
type OutputConfig struct {
	Dir    string
	Format string
}

// LimitsConfig bounds work accepted from the API and sweeps
type LimitsConfig struct {
	MaxObservations  int
	SweepConcurrency int
}

// LogConfig selects the leveled logger verbosity
type LogConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: loadServerConfig(),
		Output: loadOutputConfig(),
		Limits: loadLimitsConfig(),
		Log:    LogConfig{Level: strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO"))},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadOutputConfig() OutputConfig {
	return OutputConfig{
		Dir:    getEnvOrDefault("SIMCROSS_OUTPUT_DIR", "."),
		Format: strings.ToLower(getEnvOrDefault("SIMCROSS_FORMAT", "json")),
	}
}

func loadLimitsConfig() LimitsConfig {
	return LimitsConfig{
		MaxObservations:  getEnvIntOrDefault("SIMCROSS_MAX_OBSERVATIONS", 1000000),
		SweepConcurrency: getEnvIntOrDefault("SIMCROSS_SWEEP_CONCURRENCY", 4),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be debug, release or test")
	}
	switch config.Output.Format {
	case "json", "rdump":
	default:
		return errors.ConfigInvalid("SIMCROSS_FORMAT must be json or rdump")
	}
	if config.Limits.MaxObservations < 1 {
		return errors.ConfigInvalid("SIMCROSS_MAX_OBSERVATIONS must be positive")
	}
	if config.Limits.SweepConcurrency < 1 {
		return errors.ConfigInvalid("SIMCROSS_SWEEP_CONCURRENCY must be positive")
	}
	if _, ok := internal.ParseLogLevel(config.Log.Level); !ok {
		return errors.ConfigInvalid("LOG_LEVEL must be ERROR, WARN, INFO, DEBUG or TRACE")
	}
	return nil
}

// Logger builds the leveled logger described by the configuration
func (c *Config) Logger(w io.Writer) *internal.Logger {
	level, _ := internal.ParseLogLevel(c.Log.Level)
	return internal.NewLogger(level, w)
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
