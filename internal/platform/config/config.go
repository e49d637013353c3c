package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Goals are the reader's configured targets for goal-progress reporting.
// A zero target disables the corresponding percentage.
type Goals struct {
	YearlyBooks  int `yaml:"yearly_books"`
	YearlyPages  int `yaml:"yearly_pages"`
	MonthlyBooks int `yaml:"monthly_books"`
	MonthlyPages int `yaml:"monthly_pages"`
}

type Config struct {
	DataPath    string `yaml:"-"`
	DBPath      string `yaml:"-"`
	JournalPath string `yaml:"-"`
	// Timezone is the IANA name of the reference timezone used to
	// normalize reading activity to calendar days for streaks.
	Timezone    string `yaml:"timezone"`
	DefaultUser string `yaml:"default_user"`
	Goals       Goals  `yaml:"goals"`
}

// New loads config.yaml from the data dir if present and fills defaults.
// A missing config file is not an error.
func New(dataPath string) (Config, error) {
	if dataPath == "" {
		return Config{}, fmt.Errorf("data path is required")
	}
	cfg := Config{
		DataPath:    dataPath,
		DBPath:      filepath.Join(dataPath, "shelfmark.db"),
		JournalPath: filepath.Join(dataPath, "journal"),
		Timezone:    "UTC",
		DefaultUser: "reader",
	}
	raw, err := os.ReadFile(filepath.Join(dataPath, "config.yaml"))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "UTC"
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return Config{}, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	return cfg, nil
}

// Location resolves the configured reference timezone.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
