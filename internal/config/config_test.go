package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp runs the test from an empty directory so no upctl.yaml is found.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "upctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, FormatJSON, cfg.Output.Format)
	assert.False(t, cfg.Output.Pretty)
	assert.Equal(t, 5*time.Second, cfg.Script.Timeout)
	assert.False(t, cfg.Bus.Isolate)
	assert.False(t, cfg.Bus.RecoverPanics)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Empty(t, cfg.File)
}

func TestLoad_File(t *testing.T) {
	dir := chdirTemp(t)
	writeConfig(t, dir, `
log_level: DEBUG
output:
  format: query
  pretty: true
script:
  timeout: 250ms
  config:
    prefix: "> "
bus:
  isolate: true
`)

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, FormatQuery, cfg.Output.Format)
	assert.True(t, cfg.Output.Pretty)
	assert.Equal(t, 250*time.Millisecond, cfg.Script.Timeout)
	assert.Equal(t, "> ", cfg.Script.Config["prefix"])
	assert.True(t, cfg.Bus.Isolate)
	assert.Equal(t, "upctl.yaml", filepath.Base(cfg.File))
}

func TestLoad_ExplicitPath(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_format: json\n"), 0o644))

	cfg, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)

	_, err = Load(New(), filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_Environment(t *testing.T) {
	dir := chdirTemp(t)
	writeConfig(t, dir, "log_level: info\n")

	t.Setenv("UPCTL_LOG_LEVEL", "error")
	t.Setenv("UPCTL_OUTPUT_FORMAT", "entries")
	t.Setenv("UPCTL_SCRIPT_TIMEOUT", "1m")
	t.Setenv("UPCTL_BUS_RECOVER_PANICS", "true")

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, FormatEntries, cfg.Output.Format)
	assert.Equal(t, time.Minute, cfg.Script.Timeout)
	assert.True(t, cfg.Bus.RecoverPanics)
}

func TestLoad_Override(t *testing.T) {
	chdirTemp(t)
	t.Setenv("UPCTL_OUTPUT_FORMAT", "entries")

	v := New()
	v.Set(KeyOutputFormat, FormatQuery)

	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, FormatQuery, cfg.Output.Format)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"log level", KeyLogLevel, "verbose"},
		{"log format", KeyLogFormat, "xml"},
		{"output format", KeyOutputFormat, "yaml"},
		{"timeout", KeyScriptTimeout, "-1s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			v := New()
			v.Set(tt.key, tt.value)

			_, err := Load(v, "")
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := chdirTemp(t)
	writeConfig(t, dir, "log_level: [unclosed\n")

	_, err := Load(New(), "")
	assert.Error(t, err)
}
