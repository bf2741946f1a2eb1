// Package errors holds the sentinel errors shared by the gendetect packages
// and small helpers for adding context to them.
package errors

import "fmt"

// Common error types.
var (
	// Config errors.
	ErrEmptyConfigPath     = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath   = fmt.Errorf("invalid config file path")
	ErrConfigParse         = fmt.Errorf("failed to parse config")
	ErrConfigValidation    = fmt.Errorf("invalid configuration")
	ErrConfigEncode        = fmt.Errorf("failed to encode config")
	ErrConfigDirectory     = fmt.Errorf("failed to create config directory")
	ErrConfigFileCreate    = fmt.Errorf("failed to create config file")
	ErrConfigFileExists    = fmt.Errorf("configuration file already exists (use --force to overwrite)")
	ErrConfigFileRename    = fmt.Errorf("failed to rename temporary config file")
	ErrConfigMarshal       = fmt.Errorf("failed to marshal config to YAML")
	ErrUnknownConfigKey    = fmt.Errorf("unknown configuration key")
	ErrInvalidOutputFormat = fmt.Errorf("invalid output format")
	ErrInvalidLogLevel     = fmt.Errorf("invalid log level")
	ErrInvalidRule         = fmt.Errorf("invalid rule")

	// Signal errors.
	ErrSignalParse   = fmt.Errorf("failed to parse signal dump")
	ErrSignalProfile = fmt.Errorf("invalid signal profile")
	ErrSignalBatch   = fmt.Errorf("failed to load signal batch")

	// Probe errors.
	ErrEmptyCompiler = fmt.Errorf("compiler command cannot be empty")
	ErrProbeFailed   = fmt.Errorf("compiler probe failed")

	// Rule errors.
	ErrRuleCompile    = fmt.Errorf("failed to compile rule")
	ErrRuleExecution  = fmt.Errorf("failed to evaluate rule")
	ErrRuleResult     = fmt.Errorf("rule did not produce a boolean")
	ErrRuleNotMatched = fmt.Errorf("rule did not match")

	// Version errors.
	ErrInvalidVersion    = fmt.Errorf("invalid compiler version")
	ErrInvalidConstraint = fmt.Errorf("invalid version constraint")

	// Platform errors.
	ErrNoPlatformMapping = fmt.Errorf("no platform mapping")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// ErrUnknownConfigKeyWithName returns ErrUnknownConfigKey naming the key.
func ErrUnknownConfigKeyWithName(key string) error {
	return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
}

// ErrInvalidOutputFormatWithDetails returns ErrInvalidOutputFormat naming the
// rejected value.
func ErrInvalidOutputFormatWithDetails(format string) error {
	return fmt.Errorf("%w: %q (must be one of: text, json, yaml)", ErrInvalidOutputFormat, format)
}

// ErrInvalidLogLevelWithDetails returns ErrInvalidLogLevel naming the rejected value.
func ErrInvalidLogLevelWithDetails(level string) error {
	return fmt.Errorf("%w: %q (must be one of: debug, info, warn, error)", ErrInvalidLogLevel, level)
}

// ErrSignalParseAtLine returns ErrSignalParse with the offending line number.
func ErrSignalParseAtLine(line int, text string) error {
	return fmt.Errorf("%w: line %d: %q", ErrSignalParse, line, text)
}
