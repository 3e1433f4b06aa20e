// Package config handles persisted preferences for scitutor.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/helena/scitutor/internal/models"
)

// Theme preference values as stored on disk
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Config represents the user configuration
type Config struct {
	// Theme is "dark" or "light". Empty means no preference has been
	// persisted yet; the ambient terminal background decides at startup.
	Theme string `json:"theme,omitempty"`
	// Endpoint is the tutor service URL.
	Endpoint string `json:"endpoint"`
	// TimeoutSeconds bounds each request at the transport. The session
	// itself never times out.
	TimeoutSeconds int `json:"timeout_seconds"`
	// CopyToClipboard copies one-shot replies to the clipboard.
	CopyToClipboard bool `json:"copy_to_clipboard"`
	// Verbose enables debug-level entries in the log file.
	Verbose bool `json:"verbose"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Endpoint:        models.DefaultEndpoint,
		TimeoutSeconds:  120,
		CopyToClipboard: false,
		Verbose:         false,
	}
}

// ResolveTheme determines whether dark mode is active, per the startup
// resolution order: persisted value, then the ambient signal, then light.
// It returns true as the second value when the config was updated and
// should be persisted (first run with no stored preference).
func ResolveTheme(cfg *Config, ambientDark bool) (dark bool, updated bool) {
	switch cfg.Theme {
	case ThemeDark:
		return true, false
	case ThemeLight:
		return false, false
	}

	dark = ambientDark
	cfg.Theme = ThemeLight
	if dark {
		cfg.Theme = ThemeDark
	}
	return dark, true
}

// SetTheme records a dark/light preference on the config
func (c *Config) SetTheme(dark bool) {
	if dark {
		c.Theme = ThemeDark
	} else {
		c.Theme = ThemeLight
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".scitutor"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the path to the debug log file
func GetLogPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "debug.log"), nil
}

// LoadConfig loads the configuration from disk, falling back to
// defaults when no file exists.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Endpoint == "" {
		cfg.Endpoint = models.DefaultEndpoint
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 120
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
