// Package config loads, validates and saves the nutriscan configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatTable  = "table"
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
)

// Environment variables consulted by the loader.
const (
	EnvHome         = "NUTRISCAN_HOME"
	EnvConfig       = "NUTRISCAN_CONFIG"
	EnvLogLevel     = "NUTRISCAN_LOG_LEVEL"
	EnvLogFormat    = "NUTRISCAN_LOG_FORMAT"
	EnvOutputFormat = "NUTRISCAN_OUTPUT_FORMAT"
)

// Defaults.
const (
	DefaultPrecision      = 1
	DefaultWindowDays     = 30
	DefaultEnergyDensity  = 3.5
	DefaultConcurrency    = 4
	maxPrecision          = 6
	maxWindowDays         = 365
	maxReportConcurrency  = 64
	defaultConfigFileName = "config.yaml"
	configFilePerm        = 0o600
	configDirPerm         = 0o700
)

// Validation errors.
var (
	ErrInvalidOutputFormat  = errors.New("invalid output format")
	ErrInvalidPrecision     = errors.New("invalid output precision")
	ErrInvalidLogLevel      = errors.New("invalid log level")
	ErrInvalidLogFormat     = errors.New("invalid log format")
	ErrInvalidWindowDays    = errors.New("invalid feeding window")
	ErrInvalidEnergyDensity = errors.New("invalid energy density")
	ErrInvalidConcurrency   = errors.New("invalid report concurrency")
)

// Config is the nutriscan configuration.
type Config struct {
	Output    OutputConfig    `yaml:"output"`
	Logging   LoggingConfig   `yaml:"logging"`
	Nutrition NutritionConfig `yaml:"nutrition"`
	Report    ReportConfig    `yaml:"report"`

	configPath string
}

// OutputConfig controls rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Precision     int    `yaml:"precision"`
}

// LoggingConfig controls the application logger and audit log.
type LoggingConfig struct {
	Level  string      `yaml:"level"`
	Format string      `yaml:"format"`
	File   string      `yaml:"file,omitempty"`
	Audit  AuditConfig `yaml:"audit"`
}

// AuditConfig controls the command audit log.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	File    string `yaml:"file,omitempty"`
}

// NutritionConfig tunes the balance breakdown.
type NutritionConfig struct {
	// WindowDays is the trailing feeding window averaged by balance and report.
	WindowDays int `yaml:"window_days"`
	// EnergyDensity is the kcal per gram of food used to turn percentage
	// targets into grams.
	EnergyDensity float64 `yaml:"energy_density_kcal_per_gram"`
}

// ReportConfig tunes the report builder.
type ReportConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// Default returns a Config holding only built-in defaults.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			DefaultFormat: FormatTable,
			Precision:     DefaultPrecision,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "json",
		},
		Nutrition: NutritionConfig{
			WindowDays:    DefaultWindowDays,
			EnergyDensity: DefaultEnergyDensity,
		},
		Report: ReportConfig{
			Concurrency: DefaultConcurrency,
		},
	}
}

// New returns the effective configuration: defaults, overlaid with the config
// file when one exists and parses, then environment overrides. A broken file is
// ignored here; `config validate` and Load report it.
func New() *Config {
	path := DefaultConfigPath()
	cfg, err := Load(path)
	if err != nil {
		cfg = Default()
		cfg.configPath = path
		cfg.ApplyEnvOverrides()
	}
	return cfg
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.configPath = path

	if _, err := os.Stat(path); err == nil {
		if mergeErr := ShallowMergeYAML(cfg, path); mergeErr != nil {
			return nil, mergeErr
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("cannot access config path %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	return cfg, nil
}

// ApplyEnvOverrides applies NUTRISCAN_* environment overrides.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvOutputFormat); v != "" {
		c.Output.DefaultFormat = v
	}
}

// ConfigPath returns the file this config was loaded from or will be saved to.
func (c *Config) ConfigPath() string {
	if c.configPath == "" {
		return DefaultConfigPath()
	}
	return c.configPath
}

// SetConfigPath overrides the save location.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Validate checks every section.
func (c *Config) Validate() error {
	switch c.Output.DefaultFormat {
	case FormatTable, FormatJSON, FormatNDJSON:
	default:
		return fmt.Errorf("%w: %q (want table, json or ndjson)", ErrInvalidOutputFormat, c.Output.DefaultFormat)
	}
	if c.Output.Precision < 0 || c.Output.Precision > maxPrecision {
		return fmt.Errorf("%w: %d (want 0-%d)", ErrInvalidPrecision, c.Output.Precision, maxPrecision)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console", "text":
	default:
		return fmt.Errorf("%w: %q (want json, console or text)", ErrInvalidLogFormat, c.Logging.Format)
	}

	if c.Nutrition.WindowDays < 1 || c.Nutrition.WindowDays > maxWindowDays {
		return fmt.Errorf("%w: %d days (want 1-%d)", ErrInvalidWindowDays, c.Nutrition.WindowDays, maxWindowDays)
	}
	if c.Nutrition.EnergyDensity <= 0 {
		return fmt.Errorf("%w: %g kcal/g", ErrInvalidEnergyDensity, c.Nutrition.EnergyDensity)
	}
	if c.Report.Concurrency < 1 || c.Report.Concurrency > maxReportConcurrency {
		return fmt.Errorf("%w: %d (want 1-%d)", ErrInvalidConcurrency, c.Report.Concurrency, maxReportConcurrency)
	}
	return nil
}

// Save writes the config as YAML to ConfigPath, creating parent directories.
func (c *Config) Save() error {
	path := c.ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), configDirPerm); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err = os.WriteFile(path, data, configFilePerm); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// YAML renders the config as it would be saved.
func (c *Config) YAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
