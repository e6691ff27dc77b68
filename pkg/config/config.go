// Package config loads and validates the portalmap YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backend names accepted in configuration.
const (
	BackendFile     = "file"
	BackendBadger   = "badger"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

// Config is the full application configuration.
type Config struct {
	Log        LogConfig        `yaml:"log"`
	Sweep      SweepConfig      `yaml:"sweep"`
	Store      StoreConfig      `yaml:"store"`
	Vocabulary VocabularyConfig `yaml:"vocabulary"`
	Fuzzy      FuzzyConfig      `yaml:"fuzzy"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// SweepConfig controls the expiration sweeper.
type SweepConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// StoreConfig selects and configures the snapshot blob store.
type StoreConfig struct {
	Backend string `yaml:"backend"`

	// file backend
	Path string `yaml:"path"`

	// badger backend
	Dir      string `yaml:"dir"`
	InMemory bool   `yaml:"in_memory"`

	// postgres backend
	URL string `yaml:"url"`

	// s3 backend
	Bucket    string `yaml:"bucket"`
	Key       string `yaml:"key"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// VocabularyConfig points at the known-zone vocabulary file.
type VocabularyConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// FuzzyConfig tunes name correction.
type FuzzyConfig struct {
	MaxDistance    int `yaml:"max_distance"`
	MaxSuggestions int `yaml:"max_suggestions"`
}

// MetricsConfig controls the optional prometheus listener.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Log:   LogConfig{Level: "INFO"},
		Sweep: SweepConfig{Interval: 5 * time.Second},
		Store: StoreConfig{
			Backend: BackendFile,
			Path:    "portalmap.snapshot",
			Key:     "portalmap/snapshot",
		},
		Vocabulary: VocabularyConfig{Path: "zones.yaml", Watch: true},
		Fuzzy:      FuzzyConfig{MaxDistance: 3, MaxSuggestions: 5},
		Metrics:    MetricsConfig{Enabled: false, Listen: ":9090"},
	}
}

// Load reads a YAML config file over the defaults and validates the
// result. An empty path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate collects every problem in the configuration instead of
// stopping at the first.
func (c *Config) Validate() error {
	cv := NewConfigValidator("Config").
		OneOf("Log.Level", c.Log.Level, []string{"DEBUG", "INFO", "WARN", "ERROR", "debug", "info", "warn", "error"}).
		MinDuration("Sweep.Interval", c.Sweep.Interval, time.Second).
		MaxDuration("Sweep.Interval", c.Sweep.Interval, time.Minute).
		OneOf("Store.Backend", c.Store.Backend, []string{BackendFile, BackendBadger, BackendPostgres, BackendS3}).
		Required("Vocabulary.Path", c.Vocabulary.Path).
		Positive("Fuzzy.MaxDistance", c.Fuzzy.MaxDistance).
		Positive("Fuzzy.MaxSuggestions", c.Fuzzy.MaxSuggestions)

	switch c.Store.Backend {
	case BackendFile:
		cv.Required("Store.Path", c.Store.Path)
	case BackendBadger:
		if !c.Store.InMemory {
			cv.Required("Store.Dir", c.Store.Dir)
		}
	case BackendPostgres:
		cv.Required("Store.URL", c.Store.URL)
	case BackendS3:
		cv.Required("Store.Bucket", c.Store.Bucket).
			Required("Store.Key", c.Store.Key).
			Required("Store.Region", c.Store.Region)
	}

	if c.Metrics.Enabled {
		cv.Required("Metrics.Listen", c.Metrics.Listen)
	}

	return cv.Validate()
}
