package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withEmptyDir runs the test with its working directory set to a
// fresh temp dir, so Load("") never sees a stray netman.yaml left
// over from the repo root.
func withEmptyDir(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })
}

func TestLoadDefaultsWhenNoConfigFile(t *testing.T) {
	withEmptyDir(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesFromExplicitFile(t *testing.T) {
	withEmptyDir(t)
	path := filepath.Join(t.TempDir(), "netman.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: \":9000\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Listen)
	// Fields the file doesn't set keep their defaults.
	assert.Equal(t, Default().InactivityTimeout, cfg.InactivityTimeout)
}

func TestLoadAppliesEnvOverrideEvenWithoutConfigFile(t *testing.T) {
	withEmptyDir(t)
	t.Setenv("NETMAN_LISTEN", ":7777")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Listen)
}

func TestLoadEnvOverridesDuration(t *testing.T) {
	withEmptyDir(t)
	t.Setenv("NETMAN_INACTIVITY_TIMEOUT", "10m")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cfg.InactivityTimeout)
}

func TestLoadRejectsInvalidLoggingLevel(t *testing.T) {
	withEmptyDir(t)
	path := filepath.Join(t.TempDir(), "netman.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: chatty\n  format: text\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDefaultIsValid(t *testing.T) {
	assert.NotEmpty(t, Default().Listen)
	assert.Greater(t, Default().InactivityTimeout, time.Duration(0))
	assert.Greater(t, Default().ShutdownTimeout, time.Duration(0))
}
