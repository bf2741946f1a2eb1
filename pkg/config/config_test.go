package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cperrin88/gendetect/pkg/errors"
	"github.com/cperrin88/gendetect/pkg/fsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Settings.LogLevel)
	assert.Equal(t, "text", cfg.Settings.OutputFormat)
	assert.Equal(t, 30*time.Second, cfg.Settings.ProbeTimeout)
	assert.Empty(t, cfg.Settings.Compiler)
	assert.Empty(t, cfg.Rules)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	configContent := `settings:
  compiler: clang --target=aarch64-linux-gnu
  log_level: debug
  output_format: json
  android_is_not_linux: true
rules:
  - name: posix
    expr: is_os("GENERIC_UNIX")
  - name: modern-gcc
    expr: compiler == "GCC" && compiler_major >= 9`

	err := os.WriteFile(configPath, []byte(configContent), fsutil.FileModeDefault)
	require.NoError(t, err)

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "clang --target=aarch64-linux-gnu", cfg.Settings.Compiler)
	assert.Equal(t, "debug", cfg.Settings.LogLevel)
	assert.Equal(t, "json", cfg.Settings.OutputFormat)
	assert.True(t, cfg.Settings.AndroidIsNotLinux)
	assert.Equal(t, DefaultProbeTimeout, cfg.Settings.ProbeTimeout, "missing values take defaults")
	require.Len(t, cfg.Rules, 2)
	assert.Equal(t, "modern-gcc", cfg.Rules[1].Name)

	opts := cfg.DetectOptions()
	assert.True(t, opts.AndroidIsNotLinux)
	assert.False(t, opts.NoDiagnostics)
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.ErrorIs(t, err, errors.ErrEmptyConfigPath)
}

func TestLoadConfigFromReader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "malformed yaml",
			content: "settings: [",
			wantErr: errors.ErrConfigParse,
		},
		{
			name:    "unknown output format",
			content: "settings:\n  output_format: xml\n",
			wantErr: errors.ErrInvalidOutputFormat,
		},
		{
			name:    "unknown log level",
			content: "settings:\n  log_level: loud\n",
			wantErr: errors.ErrInvalidLogLevel,
		},
		{
			name:    "rule without name",
			content: "rules:\n  - expr: bits == 64\n",
			wantErr: errors.ErrInvalidRule,
		},
		{
			name:    "duplicate rule",
			content: "rules:\n  - {name: a, expr: bits == 64}\n  - {name: a, expr: bits == 32}\n",
			wantErr: errors.ErrInvalidRule,
		},
		{
			name:    "rule that does not compile",
			content: "rules:\n  - {name: a, expr: \"bits ==\"}\n",
			wantErr: errors.ErrRuleCompile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfigFromReader(strings.NewReader(tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSaveConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Settings.LogLevel = "debug"
	cfg.Settings.NoExternalIncludes = true
	require.NoError(t, cfg.AddRule("wide", "bits == 64"))

	configPath := filepath.Join(t.TempDir(), "nested", "test-config.yaml")

	err := cfg.SaveConfig(configPath)
	require.NoError(t, err)

	_, err = os.Stat(configPath + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file is renamed away")

	loadedCfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, cfg, loadedCfg)
}

func TestSaveConfig_EmptyPath(t *testing.T) {
	assert.ErrorIs(t, DefaultConfig().SaveConfig(""), errors.ErrEmptyConfigPath)
}

func TestToYAML(t *testing.T) {
	data, err := DefaultConfig().ToYAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "output_format: text")
	assert.NotContains(t, string(data), "compiler:", "empty compiler is omitted")
}

func TestRuleManagement(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.AddRule("bsd", `is_os("GENERIC_BSD")`))
	assert.ErrorIs(t, cfg.AddRule("bsd", "true"), errors.ErrInvalidRule)
	assert.ErrorIs(t, cfg.AddRule("broken", "(("), errors.ErrInvalidRule)

	r := cfg.GetRule("bsd")
	require.NotNil(t, r)
	assert.Equal(t, `is_os("GENERIC_BSD")`, r.Expr)
	assert.Nil(t, cfg.GetRule("broken"))

	assert.True(t, cfg.RemoveRule("bsd"))
	assert.False(t, cfg.RemoveRule("bsd"))
	assert.Empty(t, cfg.Rules)
}

func TestSetValue(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		check   func(t *testing.T, s Settings)
		wantErr bool
	}{
		{key: "compiler", value: "gcc -m32", check: func(t *testing.T, s Settings) { assert.Equal(t, "gcc -m32", s.Compiler) }},
		{key: "probe_timeout", value: "5s", check: func(t *testing.T, s Settings) { assert.Equal(t, 5*time.Second, s.ProbeTimeout) }},
		{key: "probe_timeout", value: "soon", wantErr: true},
		{key: "android_is_not_linux", value: "true", check: func(t *testing.T, s Settings) { assert.True(t, s.AndroidIsNotLinux) }},
		{key: "no_diagnostics", value: "1", check: func(t *testing.T, s Settings) { assert.True(t, s.NoDiagnostics) }},
		{key: "no_external_includes", value: "maybe", wantErr: true},
		{key: "output_format", value: "yaml", check: func(t *testing.T, s Settings) { assert.Equal(t, "yaml", s.OutputFormat) }},
		{key: "log_level", value: "warn", check: func(t *testing.T, s Settings) { assert.Equal(t, "warn", s.LogLevel) }},
		{key: "http_timeout", value: "1s", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.SetValue(tt.key, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg.Settings)
		})
	}
}

func TestGetValue(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Settings.NoDiagnostics = true

	v, err := cfg.GetValue("probe_timeout")
	require.NoError(t, err)
	assert.Equal(t, "30s", v)

	v, err = cfg.GetValue("no_diagnostics")
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	_, err = cfg.GetValue("rules")
	assert.ErrorIs(t, err, errors.ErrUnknownConfigKey)
}

func TestToMap(t *testing.T) {
	m := DefaultConfig().ToMap()
	assert.Len(t, m, 7)
	assert.Equal(t, "", m["compiler"])
	assert.Equal(t, "text", m["output_format"])
	assert.Equal(t, "false", m["android_is_not_linux"])
}

func TestGetDefaultConfigPath(t *testing.T) {
	path, err := GetDefaultConfigPath()
	if err != nil {
		t.Skipf("no user config dir: %v", err)
	}
	assert.Equal(t, "config.yaml", filepath.Base(path))
	assert.Equal(t, fsutil.AppName, filepath.Base(filepath.Dir(path)))
}
