// Package config provides configuration loading for the API server
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	defaultPort        = 9101
	defaultLogLevel    = "info"
	defaultStorageType = "file"
	defaultDataDir     = "./data"
)

// StorageConfig selects the progress record backend.
type StorageConfig struct {
	Type      string `yaml:"type"`
	Path      string `yaml:"path"`
	RedisAddr string `yaml:"redis_addr"`
}

// Config represents the structure of the flowsmith.yaml file
type Config struct {
	Port           int           `yaml:"port"`
	LogLevel       string        `yaml:"log_level"`
	Storage        StorageConfig `yaml:"storage"`
	SaveDebounceMS int           `yaml:"save_debounce_ms"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Port:     defaultPort,
		LogLevel: defaultLogLevel,
		Storage: StorageConfig{
			Type: defaultStorageType,
			Path: defaultDataDir,
		},
	}
}

// Load loads server configuration from a YAML file.
func Load(filepath string) (Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", filepath, err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	return config, nil
}

// LoadOrDefault attempts to load configuration from file, falling back to
// the defaults if the file doesn't exist.
func LoadOrDefault(filepath string) Config {
	config, err := Load(filepath)
	if err != nil {
		return Default()
	}

	return config
}

// Validate validates the server configuration.
func Validate(config Config) error {
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", config.Port)
	}

	switch config.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level '%s'", config.LogLevel)
	}

	if config.SaveDebounceMS < 0 {
		return fmt.Errorf("save_debounce_ms must not be negative")
	}

	switch config.Storage.Type {
	case "file":
		if config.Storage.Path == "" {
			return fmt.Errorf("storage: path is required for file storage")
		}
	case "redis":
		if config.Storage.RedisAddr == "" {
			return fmt.Errorf("storage: redis_addr is required for redis storage")
		}
	default:
		return fmt.Errorf("storage: unknown storage type '%s'", config.Storage.Type)
	}

	return nil
}
