// ABOUTME: Connection settings for the Charm KV backend
// ABOUTME: Stored as JSON next to the acctnotes data directory

package charm

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/charm/kv"
)

const (
	// DefaultCharmHost is the self-hosted charm server.
	DefaultCharmHost = "charm.2389.dev"

	// AppName names the charm KV database.
	AppName = "acctnotes"

	// ConfigFileName is the local settings file.
	ConfigFileName = "charm-config.json"
)

// Config holds charm connection settings.
type Config struct {
	Host           string        `json:"host,omitempty"`
	AutoSync       bool          `json:"auto_sync"`
	StaleThreshold time.Duration `json:"stale_threshold,omitempty"`

	path string
}

// DefaultConfig returns the settings used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Host:           DefaultCharmHost,
		AutoSync:       true,
		StaleThreshold: kv.DefaultStaleThreshold,
	}
}

// ConfigPath returns the settings file location under the XDG data directory.
func ConfigPath() string {
	return filepath.Join(xdg.DataHome, AppName, ConfigFileName)
}

// LoadConfig reads the settings at ConfigPath.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(ConfigPath())
}

// LoadConfigFrom reads settings from path. A missing or unreadable JSON file
// yields defaults.
func LoadConfigFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read charm config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		cfg = DefaultConfig()
		cfg.path = path
		return cfg, nil //nolint:nilerr // a corrupt file falls back to defaults
	}

	if cfg.Host == "" {
		cfg.Host = DefaultCharmHost
	}
	if cfg.StaleThreshold == 0 {
		cfg.StaleThreshold = kv.DefaultStaleThreshold
	}
	return cfg, nil
}

// Save writes the settings back to the file they were loaded from.
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// SetHost sets the charm server host and saves.
func (c *Config) SetHost(host string) error {
	c.Host = host
	return c.Save()
}

// SetAutoSync enables or disables auto-sync and saves.
func (c *Config) SetAutoSync(enabled bool) error {
	c.AutoSync = enabled
	return c.Save()
}
