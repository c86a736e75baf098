// ABOUTME: Application settings loaded from .env, a JSON file and ACCTNOTES_* variables
// ABOUTME: Later sources win: defaults, then the file, then the environment

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v6"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/harperreed/acctnotes/analyzer"
	"github.com/harperreed/acctnotes/db"
)

const (
	BackendSQLite = "sqlite"
	BackendCharm  = "charm"

	// FileName is the settings file under the data directory.
	FileName = "config.json"
)

// Config holds every runtime setting.
type Config struct {
	DBPath         string        `json:"db_path,omitempty" env:"ACCTNOTES_DB_PATH"`
	Backend        string        `json:"backend" env:"ACCTNOTES_BACKEND" validate:"oneof=sqlite charm"`
	ListenAddr     string        `json:"listen_addr" env:"ACCTNOTES_LISTEN_ADDR" validate:"required"`
	LogLevel       string        `json:"log_level" env:"ACCTNOTES_LOG_LEVEL"`
	Debounce       time.Duration `json:"debounce" env:"ACCTNOTES_DEBOUNCE" validate:"gt=0"`
	InitialDelay   time.Duration `json:"initial_delay" env:"ACCTNOTES_INITIAL_DELAY" validate:"gte=0"`
	BootstrapDelay time.Duration `json:"bootstrap_delay" env:"ACCTNOTES_BOOTSTRAP_DELAY" validate:"gte=0"`

	path string
}

// Default returns the built-in settings.
func Default() *Config {
	t := analyzer.DefaultTiming()
	return &Config{
		DBPath:         db.DefaultPath(),
		Backend:        BackendSQLite,
		ListenAddr:     "127.0.0.1:8787",
		LogLevel:       "info",
		Debounce:       t.Debounce,
		InitialDelay:   t.InitialDelay,
		BootstrapDelay: t.BootstrapDelay,
	}
}

// Path returns the settings file location.
func Path() string {
	return filepath.Join(xdg.DataHome, "acctnotes", FileName)
}

// Load reads .env from the working directory if present, then LoadFrom(Path()).
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFrom(Path())
}

// LoadFrom builds settings from defaults, the JSON file at path and the environment.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks backend and timing values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Timing returns the analyzer dispatcher delays.
func (c *Config) Timing() analyzer.Timing {
	return analyzer.Timing{
		Debounce:       c.Debounce,
		InitialDelay:   c.InitialDelay,
		BootstrapDelay: c.BootstrapDelay,
	}
}

// Save writes the settings to the file they came from with owner-only permissions.
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		path = Path()
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
