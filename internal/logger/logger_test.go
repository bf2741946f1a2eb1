package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T, level string, format OutputFormat, fn func()) string {
	t.Helper()
	buf := &bytes.Buffer{}
	SetTestOutput(buf)
	defer UnsetTestOutput()

	logger = nil
	InitLogger(level, format)

	fn()
	return buf.String()
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		logFn    func()
		contains []string
		excludes []string
	}{
		{
			name:     "info log",
			level:    "info",
			logFn:    func() { Info("classification complete") },
			contains: []string{"classification complete", "level=INFO"},
		},
		{
			name:     "debug hidden at info level",
			level:    "info",
			logFn:    func() { Debug("probing compiler") },
			excludes: []string{"probing compiler"},
		},
		{
			name:     "debug shown at debug level",
			level:    "debug",
			logFn:    func() { Debug("probing compiler") },
			contains: []string{"probing compiler", "level=DEBUG"},
		},
		{
			name:  "warn with fields",
			level: "warn",
			logFn: func() {
				Warn("unknown operating system", Fields{"category": "os", "signals": 3})
			},
			contains: []string{"unknown operating system", "level=WARN", "category=os", "signals=3"},
		},
		{
			name:     "success",
			level:    "info",
			logFn:    func() { Success("configuration file created") },
			contains: []string{"configuration file created", "status=success"},
		},
		{
			name:     "info hidden at error level",
			level:    "error",
			logFn:    func() { Info("classification complete") },
			excludes: []string{"classification complete"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureOutput(t, tt.level, FormatText, tt.logFn)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, notWant := range tt.excludes {
				assert.NotContains(t, out, notWant)
			}
		})
	}
}

func TestGetLogger_InitializesIfNil(t *testing.T) {
	logger = nil
	assert.NotPanics(t, func() {
		lg := GetLogger()
		assert.NotNil(t, lg)
	})
}

func TestJSONFormat(t *testing.T) {
	out := captureOutput(t, "info", FormatJSON, func() {
		Info("classified", Fields{"compiler": "GCC", "bits": 64, "unix": true})
	})

	assert.Contains(t, out, `"msg":"classified"`)
	assert.Contains(t, out, `"compiler":"GCC"`)
	assert.Contains(t, out, `"bits":64`)
	assert.Contains(t, out, `"unix":true`)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestMergeFields(t *testing.T) {
	attrs := mergeFields(Fields{"a": 1}, Fields{"a": 2, "b": "x"})
	result := make(map[string]interface{})
	for i := 0; i < len(attrs); i += 2 {
		result[attrs[i].(string)] = attrs[i+1]
	}
	assert.Equal(t, map[string]interface{}{"a": 2, "b": "x"}, result)
}
