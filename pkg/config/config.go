// Package config loads the local deskhub configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = "deskhub.yaml"

// Config is the local application configuration. Dashboard content (the
// section list, cards, widgets) lives in the record store; this file only
// says which dashboard to open and where its external sheets live.
type Config struct {
	DashboardID string `yaml:"dashboard_id"`
	DataDir     string `yaml:"data_dir,omitempty"`

	// Acting user identity, matched against the dashboard access list.
	UserID    string `yaml:"user_id,omitempty"`
	UserEmail string `yaml:"user_email,omitempty"`

	// External sheet locations for the two fixed card groups.
	ScheduleURL         string `yaml:"schedule_url,omitempty"`
	MissionURL          string `yaml:"mission_url,omitempty"`
	ScheduleLabelColumn string `yaml:"schedule_label_column,omitempty"`

	// Bearer credential for protected sheets, normally injected by an
	// external file-picker grant rather than written by hand.
	SheetToken string `yaml:"sheet_token,omitempty"`

	Verbose bool `yaml:"verbose,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DashboardID:         "default",
		DataDir:             defaultDataDir(),
		ScheduleLabelColumn: "Name",
	}
}

// Load reads the config file at path, falling back to defaults for any
// field the file omits. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.DashboardID == "" {
		cfg.DashboardID = "default"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir()
	}
	return cfg, nil
}

// Save writes the config back to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// DatabasePath is where the record store lives for this config.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "deskhub.db")
}

// LogPath is where the application log is written.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "deskhub.log")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".deskhub"
	}
	return filepath.Join(home, ".deskhub")
}
