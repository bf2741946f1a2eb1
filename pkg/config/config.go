// Package config provides configuration management for gendetect. It handles
// loading, validating and saving the YAML configuration file that carries
// classifier options, the compiler command used for probing, output settings
// and user rules.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cperrin88/gendetect/pkg/detect"
	"github.com/cperrin88/gendetect/pkg/errors"
	"github.com/cperrin88/gendetect/pkg/fsutil"
	"github.com/cperrin88/gendetect/pkg/rules"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// General settings
	Settings Settings `yaml:"settings"`

	// Named conditions evaluated by "gendetect check"
	Rules []rules.Rule `yaml:"rules"`
}

// Settings represents general application settings.
type Settings struct {
	// Compiler is the command probed by "gendetect detect". Empty means $CC,
	// then cc.
	Compiler     string        `yaml:"compiler,omitempty"`
	ProbeTimeout time.Duration `yaml:"probe_timeout"`

	// Classifier options
	AndroidIsNotLinux  bool `yaml:"android_is_not_linux"`
	NoDiagnostics      bool `yaml:"no_diagnostics"`
	NoExternalIncludes bool `yaml:"no_external_includes"`

	// Output settings
	OutputFormat string `yaml:"output_format"` // text, json, yaml
	LogLevel     string `yaml:"log_level"`     // debug, info, warn, error
}

// Default configuration values.
const (
	// DefaultProbeTimeout bounds a single compiler probe.
	DefaultProbeTimeout = 30 * time.Second

	// DefaultOutputFormat is the report format used when none is configured.
	DefaultOutputFormat = "text"

	// DefaultLogLevel is the log level used when none is configured.
	DefaultLogLevel = "info"

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Settings: Settings{
			ProbeTimeout: DefaultProbeTimeout,
			OutputFormat: DefaultOutputFormat,
			LogLevel:     DefaultLogLevel,
		},
		Rules: []rules.Rule{},
	}
}

// LoadConfig loads configuration from a file. A missing file yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	// Validate the config file path
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	// Ensure the path is clean and absolute
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrConfigParse, err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrConfigValidation, err)
	}

	return &config, nil
}

// SaveConfig saves configuration to a file.
func (c *Config) SaveConfig(path string) error {
	// Validate the config file path
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	// Ensure the path is clean and absolute
	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	if err := fsutil.EnsureFileDir(absPath); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}

	tempPath := absPath + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fsutil.FileModeDefault)
	if err != nil {
		return errors.Wrap(errors.ErrConfigFileCreate, err.Error())
	}

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(YAMLIndent)

	if err := encoder.Encode(c); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}

	_ = encoder.Close()
	_ = file.Close()

	// Atomically replace the config file
	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigFileRename, err.Error())
	}

	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrConfigMarshal, err.Error())
	}
	return data, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	if err := validateSettings(c.Settings); err != nil {
		return err
	}
	return validateRules(c.Rules)
}

func validateSettings(s Settings) error {
	if s.ProbeTimeout < 0 {
		return fmt.Errorf("%w: probe_timeout cannot be negative", errors.ErrConfigValidation)
	}
	validFormats := map[string]bool{"text": true, "json": true, "yaml": true}
	if !validFormats[strings.ToLower(s.OutputFormat)] {
		return errors.ErrInvalidOutputFormatWithDetails(s.OutputFormat)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(s.LogLevel)] {
		return errors.ErrInvalidLogLevelWithDetails(s.LogLevel)
	}
	return nil
}

func validateRules(rs []rules.Rule) error {
	names := make(map[string]bool, len(rs))
	for i, r := range rs {
		if r.Name == "" {
			return fmt.Errorf("%w: rule at index %d has no name", errors.ErrInvalidRule, i)
		}
		if names[r.Name] {
			return fmt.Errorf("%w: duplicate rule name %q", errors.ErrInvalidRule, r.Name)
		}
		names[r.Name] = true
		if err := rules.Validate(r.Expr); err != nil {
			return fmt.Errorf("%w: %s: %w", errors.ErrInvalidRule, r.Name, err)
		}
	}
	return nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := fsutil.GetConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// DetectOptions converts the classifier settings into detect.Options.
func (c *Config) DetectOptions() detect.Options {
	return detect.Options{
		AndroidIsNotLinux:  c.Settings.AndroidIsNotLinux,
		NoDiagnostics:      c.Settings.NoDiagnostics,
		NoExternalIncludes: c.Settings.NoExternalIncludes,
	}
}

// AddRule adds a rule to the configuration.
// Returns an error if a rule with the same name already exists.
func (c *Config) AddRule(name, expr string) error {
	for _, r := range c.Rules {
		if r.Name == name {
			return fmt.Errorf("%w: duplicate rule name %q", errors.ErrInvalidRule, name)
		}
	}
	if err := rules.Validate(expr); err != nil {
		return fmt.Errorf("%w: %s: %w", errors.ErrInvalidRule, name, err)
	}
	c.Rules = append(c.Rules, rules.Rule{Name: name, Expr: expr})
	return nil
}

// RemoveRule removes a rule from the configuration.
func (c *Config) RemoveRule(name string) bool {
	for i, r := range c.Rules {
		if r.Name == name {
			c.Rules = append(c.Rules[:i], c.Rules[i+1:]...)
			return true
		}
	}
	return false
}

// GetRule gets a rule by name.
func (c *Config) GetRule(name string) *rules.Rule {
	for i := range c.Rules {
		if c.Rules[i].Name == name {
			return &c.Rules[i]
		}
	}
	return nil
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Settings.ProbeTimeout == 0 {
		c.Settings.ProbeTimeout = defaults.Settings.ProbeTimeout
	}
	if c.Settings.OutputFormat == "" {
		c.Settings.OutputFormat = defaults.Settings.OutputFormat
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
	if c.Rules == nil {
		c.Rules = defaults.Rules
	}
}
