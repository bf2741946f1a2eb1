package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/cperrin88/gendetect/pkg/errors"
)

// SetValue sets a configuration value by key
// Supported keys:
//   - compiler: string - Compiler command to probe
//   - probe_timeout: duration - Upper bound for one probe (e.g. 30s)
//   - android_is_not_linux: bool - Do not treat Android as Linux
//   - no_diagnostics: bool - Suppress unresolved-category warnings
//   - no_external_includes: bool - Skip the TargetConditionals.h lookup
//   - output_format: string - Output format (text, json, yaml)
//   - log_level: string - Logging level (debug, info, warn, error)
func (c *Config) SetValue(key, value string) error {
	switch key {
	case "compiler":
		c.Settings.Compiler = value
	case "probe_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %s", key, value)
		}
		c.Settings.ProbeTimeout = d
	case "android_is_not_linux":
		return setBool(&c.Settings.AndroidIsNotLinux, key, value)
	case "no_diagnostics":
		return setBool(&c.Settings.NoDiagnostics, key, value)
	case "no_external_includes":
		return setBool(&c.Settings.NoExternalIncludes, key, value)
	case "output_format":
		c.Settings.OutputFormat = value
	case "log_level":
		c.Settings.LogLevel = value
	default:
		return errors.ErrUnknownConfigKeyWithName(key)
	}
	return nil
}

func setBool(dst *bool, key, value string) error {
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean value for %s: %s", key, value)
	}
	*dst = boolVal
	return nil
}

// GetValue returns the value as a string and any error encountered.
func (c *Config) GetValue(key string) (string, error) {
	value, ok := c.ToMap()[key]
	if !ok {
		return "", errors.ErrUnknownConfigKeyWithName(key)
	}
	return value, nil
}

// ToMap flattens the settings into their YAML keys.
// This is useful for displaying the configuration.
func (c *Config) ToMap() map[string]string {
	result := make(map[string]string)

	settingsValue := reflect.ValueOf(c.Settings)
	settingsType := settingsValue.Type()

	for i := 0; i < settingsValue.NumField(); i++ {
		field := settingsType.Field(i)
		yamlTag := field.Tag.Get("yaml")
		if yamlTag == "" || yamlTag == "-" {
			continue
		}

		// Handle yaml tags with options (e.g., "compiler,omitempty")
		yamlKey := strings.Split(yamlTag, ",")[0]

		fieldValue := settingsValue.Field(i)
		var strValue string

		switch v := fieldValue.Interface().(type) {
		case time.Duration:
			strValue = v.String()
		case bool:
			strValue = strconv.FormatBool(v)
		case string:
			strValue = v
		default:
			strValue = fmt.Sprintf("%v", v)
		}

		result[yamlKey] = strValue
	}

	return result
}
