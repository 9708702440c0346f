package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// newTestLoader uses an isolated viper instance so tests do not leak state
// through the global one.
func newTestLoader() *Loader {
	return &Loader{v: viper.New()}
}

// chdir mirrors testing.T.Chdir for Go versions that predate it.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := newTestLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.InDelta(t, 0.5, cfg.Pipeline.Recognizer.MinConfidence, 1e-6)
}

func TestLoadWithFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rxscan.yaml")
	content := []byte("log_level: debug\nserver:\n  port: 9090\npipeline:\n  timeout_sec: 5\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := newTestLoader().LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Pipeline.TimeoutSec)
	// Untouched keys keep their defaults.
	assert.Equal(t, 20, cfg.Server.MaxUploadMB)
}

func TestLoadWithFileMissing(t *testing.T) {
	_, err := newTestLoader().LoadWithFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadWithFileInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rxscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: shouty\n"), 0o600))

	_, err := newTestLoader().LoadWithFile(path)
	assert.Error(t, err)
}

func TestEnvironmentOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("RXSCAN_LOG_LEVEL", "warn")

	cfg, err := newTestLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestGenerateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rxscan.yaml")
	require.NoError(t, GenerateDefaultConfigFile(path))

	_, err := os.Stat(path)
	require.NoError(t, err)

	cfg, err := newTestLoader().LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)

	// The written file must be plain YAML, readable outside of viper too.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(data, &raw))
	assert.Contains(t, raw, "server")
	assert.Contains(t, raw, "pipeline")
}

func TestGetConfigSearchPaths(t *testing.T) {
	paths := GetConfigSearchPaths()
	assert.Contains(t, paths, ".")
	assert.Contains(t, paths, "/etc/rxscan")
}
