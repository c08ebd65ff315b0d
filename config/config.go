// Package config handles YAML run configuration for tagscope.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultMaxRetries bounds transient fetch retries when the config is silent.
const DefaultMaxRetries = 3

// Config is the root configuration structure.
type Config struct {
	InputDir   string `yaml:"input_dir"`
	OutputDir  string `yaml:"output_dir"`
	FocusFile  string `yaml:"focus_file,omitempty"`
	MaxRetries int    `yaml:"max_retries,omitempty"`
	SnapshotDB string `yaml:"snapshot_db,omitempty"`
	LogLevel   string `yaml:"log_level,omitempty"`
}

// Load reads and parses a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is intentional user input
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// Validate checks the configuration is valid.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("input_dir is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max_retries must be at least 1 (got %d)", c.MaxRetries)
	}
	return nil
}

// EnsurePaths verifies the input paths exist and creates the output directory.
// Called before any fetch so a bad setup aborts the run up front.
func (c *Config) EnsurePaths() error {
	info, err := os.Stat(c.InputDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("input_dir %s is not a directory", c.InputDir)
	}

	if err := os.MkdirAll(c.OutputDir, 0750); err != nil {
		return fmt.Errorf("create output_dir: %w", err)
	}

	if c.FocusFile != "" {
		if _, err := os.Stat(c.FocusFile); err != nil {
			return fmt.Errorf("focus_file %s does not exist", c.FocusFile)
		}
	}

	return nil
}
