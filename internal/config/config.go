// Package config loads the optional YAML configuration file and applies
// environment overrides, including those from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	EnvDBPath           = "CANTINHO_DB_PATH"
	EnvLogLevel         = "CANTINHO_LOG_LEVEL"
	EnvLogFile          = "CANTINHO_LOG_FILE"
	EnvReminderSchedule = "CANTINHO_REMINDER_SCHEDULE"
)

var validLevels = []string{"debug", "info", "warn", "error"}

type Config struct {
	DBPath   string         `yaml:"db_path"`
	Log      LogConfig      `yaml:"log"`
	Reminder ReminderConfig `yaml:"reminder"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// File receives the log output; the TUI owns the terminal.
	File string `yaml:"file"`
}

type ReminderConfig struct {
	// Schedule is a five-field cron expression. Empty means the value stored
	// in the settings table.
	Schedule string `yaml:"schedule"`
}

// Dir returns ~/.config/cantinho.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "cantinho"), nil
}

// DefaultPath returns the location of config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Default returns the configuration used when no file exists. DBPath is left
// empty so the store picks its own default location.
func Default() *Config {
	c := &Config{Log: LogConfig{Level: "info"}}
	if dir, err := Dir(); err == nil {
		c.Log.File = filepath.Join(dir, "cantinho.log")
	}
	return c
}

// Load reads path (a missing file yields the defaults), then applies any
// variables from a .env file in the working directory and the process
// environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv sets variables from file without overriding the environment.
func loadDotEnv(file string) error {
	if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(file); err != nil {
		return fmt.Errorf("load %s: %w", file, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv(EnvReminderSchedule); v != "" {
		c.Reminder.Schedule = v
	}
}

func (c *Config) Validate() error {
	valid := false
	for _, l := range validLevels {
		if c.Log.Level == l {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Log.Level, validLevels)
	}
	if c.Reminder.Schedule != "" {
		if _, err := cron.ParseStandard(c.Reminder.Schedule); err != nil {
			return fmt.Errorf("invalid reminder schedule %q: %w", c.Reminder.Schedule, err)
		}
	}
	return nil
}

// Save writes the configuration as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
