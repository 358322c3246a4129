package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	latticeerrors "github.com/lattice-ci/lattice/internal/errors"
)

// TestValidate_NilConfig tests that nil config returns error
func TestValidate_NilConfig(t *testing.T) {
	t.Parallel()

	err := Validate(nil)

	require.Error(t, err)
	require.ErrorIs(t, err, latticeerrors.ErrConfigNil)
}

// TestValidate_DefaultConfig tests that default config is valid
func TestValidate_DefaultConfig(t *testing.T) {
	t.Parallel()

	err := Validate(DefaultConfig())

	require.NoError(t, err)
}

// TestValidate_ZeroConcurrency tests that zero concurrency is invalid
func TestValidate_ZeroConcurrency(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Concurrency = 0

	err := Validate(cfg)

	require.Error(t, err)
	require.ErrorIs(t, err, latticeerrors.ErrInvalidConcurrency)
}

// TestValidate_NegativeTimeout tests that a non-positive job timeout is
// invalid
func TestValidate_NegativeTimeout(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.JobTimeout = -1 * time.Second

	err := Validate(cfg)

	require.Error(t, err)
	require.ErrorIs(t, err, latticeerrors.ErrInvalidTimeout)
}

// TestValidate_EmptyWorkspace tests that an empty workspace path is
// invalid
func TestValidate_EmptyWorkspace(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Workspace = ""

	err := Validate(cfg)

	require.Error(t, err)
	require.ErrorIs(t, err, latticeerrors.ErrWorkspaceEmpty)
}

// TestValidate_EmptyImageAllowed tests that the image may be empty at
// config level; the run command enforces it separately
func TestValidate_EmptyImageAllowed(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Image = ""

	require.NoError(t, Validate(cfg))
}
