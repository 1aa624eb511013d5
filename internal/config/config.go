// Package config loads the tool's configuration from an optional YAML file
// with FLOODCTL_* environment variable overrides.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces the environment overrides (FLOODCTL_INPUT_PATH and
// so on).
const EnvPrefix = "FLOODCTL"

// Config is the complete tool configuration.
type Config struct {
	Input   InputConfig   `yaml:"input" envconfig:"INPUT"`
	Output  OutputConfig  `yaml:"output" envconfig:"OUTPUT"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// InputConfig locates the dataset.
type InputConfig struct {
	Path string `yaml:"path" envconfig:"PATH" default:"dpwh_flood_control_projects.csv"`
}

// OutputConfig controls where and what the run writes.
type OutputConfig struct {
	Dir        string `yaml:"dir" envconfig:"DIR" default:"reports"`
	WriteExcel bool   `yaml:"write_excel" envconfig:"WRITE_EXCEL" default:"true"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"text"`
}

// Load reads configuration: defaults, then the YAML file at path (skipped
// when path is empty or the file does not exist), then environment
// overrides on top.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			fileCfg, err := loadFromFile(path)
			if err != nil {
				return nil, fmt.Errorf("load config file: %w", err)
			}
			mergeFileConfig(&cfg, fileCfg)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// fileConfig mirrors Config for YAML parsing. Pointer fields distinguish
// "absent from the file" from a zero value, which matters for booleans.
type fileConfig struct {
	Input struct {
		Path *string `yaml:"path"`
	} `yaml:"input"`
	Output struct {
		Dir        *string `yaml:"dir"`
		WriteExcel *bool   `yaml:"write_excel"`
	} `yaml:"output"`
	Logging struct {
		Level  *string `yaml:"level"`
		Format *string `yaml:"format"`
	} `yaml:"logging"`
}

// loadFromFile parses the YAML config file.
func loadFromFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeFileConfig lays present file values over the defaults. An explicit
// FLOODCTL_* environment variable still wins over the file.
func mergeFileConfig(base *Config, file *fileConfig) {
	if file.Input.Path != nil && !envSet("INPUT_PATH") {
		base.Input.Path = *file.Input.Path
	}
	if file.Output.Dir != nil && !envSet("OUTPUT_DIR") {
		base.Output.Dir = *file.Output.Dir
	}
	if file.Output.WriteExcel != nil && !envSet("OUTPUT_WRITE_EXCEL") {
		base.Output.WriteExcel = *file.Output.WriteExcel
	}
	if file.Logging.Level != nil && !envSet("LOGGING_LEVEL") {
		base.Logging.Level = *file.Logging.Level
	}
	if file.Logging.Format != nil && !envSet("LOGGING_FORMAT") {
		base.Logging.Format = *file.Logging.Format
	}
}

// envSet reports whether the prefixed environment override is present.
func envSet(suffix string) bool {
	_, ok := os.LookupEnv(EnvPrefix + "_" + suffix)
	return ok
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c.Input.Path == "" {
		return fmt.Errorf("input path must not be empty")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output directory must not be empty")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}

// SlogLevel maps the configured level to slog.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the slog logger described by the configuration.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if strings.ToLower(c.Logging.Format) == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
