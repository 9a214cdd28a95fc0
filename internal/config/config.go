// Package config loads Quill's YAML configuration.
//
// Precedence, lowest first: built-in defaults, the YAML file, environment
// variables. A missing file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/HendryAvila/quill/internal/fluency"
	"gopkg.in/yaml.v3"
)

// Environment variables read by applyEnvOverrides and DefaultPath.
const (
	EnvHome     = "QUILL_HOME"
	EnvConfig   = "QUILL_CONFIG"
	EnvLogLevel = "QUILL_LOG_LEVEL"
	EnvHistory  = "QUILL_HISTORY"
)

// Config holds all Quill configuration.
type Config struct {
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	History  HistoryConfig  `yaml:"history"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// AnalyzerConfig holds the fluency thresholds. The review call site uses
// the same thresholds except for density.
type AnalyzerConfig struct {
	fluency.Config `yaml:",inline"`

	ReviewDensityThreshold int `yaml:"review_density_threshold"`
}

// HistoryConfig configures the score history database.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	DataDir string `yaml:"data_dir"`
	MaxRuns int    `yaml:"max_runs"` // per document key; 0 keeps everything
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analyzer: AnalyzerConfig{
			Config:                 fluency.DefaultConfig(),
			ReviewDensityThreshold: fluency.ReviewConfig().DensityThreshold,
		},
		History: HistoryConfig{
			Enabled: true,
			DataDir: defaultHome(),
			MaxRuns: 200,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func defaultHome() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".quill")
}

// DefaultPath returns the config file location: $QUILL_CONFIG, else
// config.yaml under $QUILL_HOME or ~/.quill.
func DefaultPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	if home := os.Getenv(EnvHome); home != "" {
		return filepath.Join(home, "config.yaml")
	}
	return filepath.Join(defaultHome(), "config.yaml")
}

// Load reads configuration from a YAML file and applies environment
// overrides. Missing files yield the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if home := os.Getenv(EnvHome); home != "" {
		c.History.DataDir = home
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = strings.ToLower(level)
	}
	switch strings.ToLower(os.Getenv(EnvHistory)) {
	case "off", "false", "0":
		c.History.Enabled = false
	case "on", "true", "1":
		c.History.Enabled = true
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := c.Analyzer.Config.Validate(); err != nil {
		return fmt.Errorf("analyzer: %w", err)
	}
	if err := c.Review().Validate(); err != nil {
		return fmt.Errorf("analyzer: %w", err)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging: unknown level %q", c.Logging.Level)
	}

	if c.History.MaxRuns < 0 {
		return fmt.Errorf("history: max_runs must not be negative, got %d", c.History.MaxRuns)
	}
	if c.History.Enabled && c.History.DataDir == "" {
		return fmt.Errorf("history: data_dir is required when history is enabled")
	}
	return nil
}

// Standalone returns the thresholds for direct fluency analysis.
func (c *Config) Standalone() fluency.Config {
	return c.Analyzer.Config
}

// Review returns the thresholds for analysis embedded in article review.
func (c *Config) Review() fluency.Config {
	cfg := c.Analyzer.Config
	cfg.DensityThreshold = c.Analyzer.ReviewDensityThreshold
	return cfg
}
