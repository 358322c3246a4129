package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes a config file to a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// TestLoadFromPaths_Defaults tests that loading with no files yields
// the built-in defaults
func TestLoadFromPaths_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFromPaths("", "")

	require.NoError(t, err)
	assert.Equal(t, DefaultConcurrency, cfg.Concurrency)
	assert.Equal(t, DefaultJobTimeout, cfg.JobTimeout)
	assert.Equal(t, DefaultWorkspace, cfg.Workspace)
	assert.Equal(t, DefaultRegistryUsernameEnv, cfg.Registry.UsernameEnv)
	assert.Equal(t, DefaultRegistryPasswordEnv, cfg.Registry.PasswordEnv)
	assert.Empty(t, cfg.Image)
	assert.False(t, cfg.Debug)
}

// TestLoadFromPaths_GlobalConfig tests loading values from the global
// config level
func TestLoadFromPaths_GlobalConfig(t *testing.T) {
	t.Parallel()

	global := writeConfig(t, `
image: ghcr.io/acme/ci:latest
concurrency: 8
job_timeout: 10m
`)

	cfg, err := LoadFromPaths("", global)

	require.NoError(t, err)
	assert.Equal(t, "ghcr.io/acme/ci:latest", cfg.Image)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, 10*time.Minute, cfg.JobTimeout)
}

// TestLoadFromPaths_ProjectOverridesGlobal tests layered precedence:
// project config wins over global for the same key
func TestLoadFromPaths_ProjectOverridesGlobal(t *testing.T) {
	t.Parallel()

	global := writeConfig(t, `
image: ghcr.io/acme/ci:latest
concurrency: 8
`)
	project := writeConfig(t, `
concurrency: 2
`)

	cfg, err := LoadFromPaths(project, global)

	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Concurrency, "project config overrides global")
	assert.Equal(t, "ghcr.io/acme/ci:latest", cfg.Image, "unset project keys inherit global")
}

// TestLoadFromPaths_Registry tests registry section decoding
func TestLoadFromPaths_Registry(t *testing.T) {
	t.Parallel()

	global := writeConfig(t, `
registry:
  server: ghcr.io
  username_env: CI_USER
  password_env: CI_TOKEN
`)

	cfg, err := LoadFromPaths("", global)

	require.NoError(t, err)
	assert.Equal(t, "ghcr.io", cfg.Registry.Server)
	assert.Equal(t, "CI_USER", cfg.Registry.UsernameEnv)
	assert.Equal(t, "CI_TOKEN", cfg.Registry.PasswordEnv)
}

// TestLoadFromPaths_InvalidValues tests that validation runs after
// unmarshal
func TestLoadFromPaths_InvalidValues(t *testing.T) {
	t.Parallel()

	global := writeConfig(t, "concurrency: -1\n")

	_, err := LoadFromPaths("", global)

	require.Error(t, err)
}

// TestApplyOverrides tests that only non-zero override values are
// applied
func TestApplyOverrides(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Image = "base:1"

	applyOverrides(cfg, &Config{
		Concurrency: 16,
		Workspace:   "/srv/checkout",
	})

	assert.Equal(t, "base:1", cfg.Image, "zero override leaves value alone")
	assert.Equal(t, 16, cfg.Concurrency)
	assert.Equal(t, "/srv/checkout", cfg.Workspace)
	assert.Equal(t, DefaultJobTimeout, cfg.JobTimeout)
}
