package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config represents the notrace CLI configuration.
type Config struct {
	Timeout            int    `json:"timeout,omitempty"` // milliseconds
	MaxCaptureAttempts int    `json:"maxCaptureAttempts,omitempty"`
	UserAgent          string `json:"userAgent,omitempty"`
	NoColor            *bool  `json:"noColor,omitempty"`
}

// BoolPtr returns a pointer to a bool value.
func BoolPtr(b bool) *bool {
	return &b
}

// GetNoColor returns the no color setting, defaulting to false.
func (c *Config) GetNoColor() bool {
	if c.NoColor == nil {
		return false
	}
	return *c.NoColor
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Timeout:            10000, // 10 seconds
		MaxCaptureAttempts: 3,
	}
}

// ConfigFilenames contains the possible config file names.
var ConfigFilenames = []string{
	".notrace.config.json",
	"notrace.config.json",
}

// LoadConfig loads configuration from the specified path or searches for
// config files in the current directory.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory.
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}
