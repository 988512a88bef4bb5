// Package config loads and validates Eduvane configuration.
// Config lives at <workspace>/.eduvane/config.yaml with environment
// variable overrides for secrets.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all Eduvane configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// LLM configuration
	LLM LLMConfig `yaml:"llm"`

	// Persistence
	Storage StorageConfig `yaml:"storage"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the Gemini reasoning service.
type LLMConfig struct {
	APIKey string `yaml:"api_key"`

	// Model routing. FastModel serves perception, interpretation, and
	// fast-mode reasoning; DeepModel serves deep-mode reasoning;
	// VisionModel serves image perception.
	FastModel   string `yaml:"fast_model"`
	DeepModel   string `yaml:"deep_model"`
	VisionModel string `yaml:"vision_model"`

	Timeout string `yaml:"timeout"`
}

// StorageConfig configures SQLite persistence.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`

	// HistoryLimit bounds the submission history window.
	HistoryLimit int `yaml:"history_limit"`
}

// LoggingConfig controls the category debug logger.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories,omitempty"`
	Level      string          `yaml:"level"`
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "Eduvane",
		Version: "1.2.0",
		LLM: LLMConfig{
			FastModel:   "gemini-3-flash-preview",
			DeepModel:   "gemini-3-pro-preview",
			VisionModel: "gemini-2.5-flash-image",
			Timeout:     "2m",
		},
		Storage: StorageConfig{
			DatabasePath: filepath.Join(".eduvane", "eduvane.db"),
			HistoryLimit: 50,
		},
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// DefaultPath returns the config path inside the given workspace.
func DefaultPath(workspace string) string {
	return filepath.Join(workspace, ".eduvane", "config.yaml")
}

// Load reads config from the given path, applies defaults for missing
// fields, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the config to the given path, creating directories as
// needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
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

// applyEnvOverrides lets environment variables win over file values.
// GEMINI_API_KEY (or GOOGLE_API_KEY as a fallback) supplies the secret
// so it never has to live in the config file.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
	} else if key := os.Getenv("GOOGLE_API_KEY"); key != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = key
	}
	if db := os.Getenv("EDUVANE_DB_PATH"); db != "" {
		c.Storage.DatabasePath = db
	}
}

// Validate checks that the config is usable.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("no Gemini API key configured (set GEMINI_API_KEY or llm.api_key)")
	}
	if c.LLM.FastModel == "" || c.LLM.DeepModel == "" {
		return fmt.Errorf("llm.fast_model and llm.deep_model are required")
	}
	if c.Storage.HistoryLimit <= 0 {
		return fmt.Errorf("storage.history_limit must be positive")
	}
	if _, err := c.LLMTimeout(); err != nil {
		return fmt.Errorf("invalid llm.timeout: %w", err)
	}
	return nil
}

// LLMTimeout parses the configured LLM timeout.
func (c *Config) LLMTimeout() (time.Duration, error) {
	if c.LLM.Timeout == "" {
		return 2 * time.Minute, nil
	}
	return time.ParseDuration(c.LLM.Timeout)
}
