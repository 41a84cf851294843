// Package config loads QuantPilot configuration from YAML with environment
// variable overrides (prefix QUANTPILOT_) and validates it at startup.
//
// Search order when no path is given: ./quantpilot.yaml, ./configs/quantpilot.yaml.
// When no file is found the defaults plus environment overrides are used.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all QuantPilot configuration.
type Config struct {
	App     AppConfig     `yaml:"app"`
	Quant   QuantConfig   `yaml:"quant"`
	Logging LoggingConfig `yaml:"logging"`

	// Source is the config file the values were loaded from.
	// Empty when running on defaults.
	Source string `yaml:"-"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name     string `yaml:"name"`
	StateDir string `yaml:"state_dir"` // workflow state files and history index
}

// QuantConfig configures the external quant framework service.
type QuantConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"` // Go duration string, e.g. "30s"
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // json|console
	File   string `yaml:"file"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:     "quantpilot",
			StateDir: "data/workflows",
		},
		Quant: QuantConfig{
			BaseURL: "http://localhost:8750",
			Timeout: "30s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads the first existing YAML file from paths (or the default search
// paths), applies environment overrides and validates the result.
func Load(paths ...string) (*Config, error) {
	c := Default()

	if len(paths) == 0 {
		paths = []string{"quantpilot.yaml", filepath.Join("configs", "quantpilot.yaml")}
	}

	for _, p := range paths {
		if p == "" {
			continue
		}
		fi, err := os.Stat(p)
		if err != nil || fi.IsDir() {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", p, err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", p, err)
		}
		c.Source = p
		break
	}

	c.applyEnv("QUANTPILOT_")

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks consistency and boundaries; missing values fall back to
// their defaults.
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return errors.New("app.name must not be empty")
	}
	if c.App.StateDir == "" {
		c.App.StateDir = Default().App.StateDir
	}

	if c.Quant.BaseURL == "" {
		return errors.New("quant.base_url must not be empty")
	}
	if c.Quant.Timeout == "" {
		c.Quant.Timeout = Default().Quant.Timeout
	}
	if _, err := time.ParseDuration(c.Quant.Timeout); err != nil {
		return fmt.Errorf("quant.timeout invalid: %w", err)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
		if c.Logging.Level == "" {
			c.Logging.Level = "info"
		}
	default:
		return fmt.Errorf("logging.level invalid: %s (allowed: debug|info|warn|error)", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "console":
		if c.Logging.Format == "" {
			c.Logging.Format = "json"
		}
	default:
		return fmt.Errorf("logging.format invalid: %s (allowed: json|console)", c.Logging.Format)
	}
	return nil
}

// QuantTimeout returns the parsed quant service timeout.
// Validate guarantees the string parses.
func (c *Config) QuantTimeout() time.Duration {
	d, err := time.ParseDuration(c.Quant.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// HistoryPath returns the SQLite history index location inside the state dir.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.App.StateDir, "history.db")
}

func (c *Config) applyEnv(prefix string) {
	c.App.Name = pickStr(os.Getenv(prefix+"APP_NAME"), c.App.Name)
	c.App.StateDir = pickStr(os.Getenv(prefix+"STATE_DIR"), c.App.StateDir)

	c.Quant.BaseURL = pickStr(os.Getenv(prefix+"QUANT_BASE_URL"), c.Quant.BaseURL)
	c.Quant.Timeout = pickStr(os.Getenv(prefix+"QUANT_TIMEOUT"), c.Quant.Timeout)

	c.Logging.Level = pickStr(os.Getenv(prefix+"LOG_LEVEL"), c.Logging.Level)
	c.Logging.Format = pickStr(os.Getenv(prefix+"LOG_FORMAT"), c.Logging.Format)
	c.Logging.File = pickStr(os.Getenv(prefix+"LOG_FILE"), c.Logging.File)
}

func pickStr(env, cur string) string {
	if strings.TrimSpace(env) != "" {
		return strings.TrimSpace(env)
	}
	return cur
}
