package config

import (
	"github.com/lattice-ci/lattice/internal/errors"
)

// Validate checks the runtime configuration for invalid or inconsistent
// values. It returns an error describing the first validation failure
// found.
//
// Validation rules:
//   - concurrency must be positive
//   - job timeout must be positive
//   - workspace must not be empty
//
// The image is allowed to be empty here: it is only required by the run
// command, which checks it explicitly so that expand-only invocations
// work without one.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if cfg.Concurrency <= 0 {
		return errors.Wrapf(errors.ErrInvalidConcurrency,
			"concurrency must be positive, got %d", cfg.Concurrency)
	}

	if cfg.JobTimeout <= 0 {
		return errors.Wrapf(errors.ErrInvalidTimeout,
			"job_timeout must be positive, got %s", cfg.JobTimeout)
	}

	if cfg.Workspace == "" {
		return errors.ErrWorkspaceEmpty
	}

	return nil
}
