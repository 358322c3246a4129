// Package config provides configuration management for lattice with
// layered precedence.
//
// Configuration sources are loaded in the following order (highest
// precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (LATTICE_* prefix)
//  3. Project config (.lattice/config.yaml)
//  4. Global config (~/.lattice/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same
// key. The pipeline spec (job groups, axes, exclusions, command
// templates) is a separate document loaded by LoadPipeline, not part of
// this layered runtime configuration.
//
// IMPORTANT: This package may import internal/errors and
// internal/domain, but MUST NOT import other internal packages.
package config

import "time"

// Config is the runtime configuration for one orchestration run. It is
// read-only for the duration of the run and passed by reference to
// every runner invocation, never accessed through a global.
type Config struct {
	// Image is the container image every job runs in.
	Image string `yaml:"image" mapstructure:"image"`

	// Debug injects exactly one extra environment variable
	// (LATTICE_DEBUG=1) into every job's execution environment,
	// enabling verbose test output inside the container. This is the
	// sole piece of cross-cutting state threaded from the top-level run
	// into each job.
	Debug bool `yaml:"debug" mapstructure:"debug"`

	// Concurrency bounds the number of jobs running in parallel.
	// Jobs beyond the limit queue and start as capacity frees.
	// Default: 4
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`

	// JobTimeout is the wall-clock limit for a single job. Exceeding it
	// is an infrastructure error, not a test failure, and the job's
	// container is forcibly torn down.
	// Default: 30 minutes
	JobTimeout time.Duration `yaml:"job_timeout" mapstructure:"job_timeout"`

	// Workspace is the host directory mounted read-write into every
	// job's container. It is checked out upstream; lattice only needs
	// the path, with ownership already normalized.
	// Default: "." (current directory)
	Workspace string `yaml:"workspace" mapstructure:"workspace"`

	// Registry configures authenticated image pulls.
	Registry RegistryConfig `yaml:"registry" mapstructure:"registry"`
}

// RegistryConfig configures registry authentication. Credentials are
// never stored in config files; the config only names the environment
// variables that hold them.
type RegistryConfig struct {
	// Server is the registry host (e.g., "ghcr.io"). Empty disables
	// the login step; pulls then rely on ambient daemon credentials.
	Server string `yaml:"server" mapstructure:"server"`

	// UsernameEnv names the environment variable holding the registry
	// username.
	// Default: "LATTICE_REGISTRY_USER"
	UsernameEnv string `yaml:"username_env" mapstructure:"username_env"`

	// PasswordEnv names the environment variable holding the registry
	// password or token.
	// Default: "LATTICE_REGISTRY_TOKEN"
	PasswordEnv string `yaml:"password_env" mapstructure:"password_env"`
}
