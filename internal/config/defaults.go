package config

import "time"

// Default values for runtime configuration.
const (
	// DefaultConcurrency is the default worker pool size.
	DefaultConcurrency = 4

	// DefaultJobTimeout is the default per-job wall-clock limit.
	DefaultJobTimeout = 30 * time.Minute

	// DefaultWorkspace is the default host workspace directory.
	DefaultWorkspace = "."

	// DefaultRegistryUsernameEnv names the env var read for the
	// registry username.
	DefaultRegistryUsernameEnv = "LATTICE_REGISTRY_USER"

	// DefaultRegistryPasswordEnv names the env var read for the
	// registry password or token.
	DefaultRegistryPasswordEnv = "LATTICE_REGISTRY_TOKEN"
)

// DefaultConfig returns the built-in default configuration. These values
// match the defaults registered with Viper in load.go.
func DefaultConfig() *Config {
	return &Config{
		Image:       "",
		Debug:       false,
		Concurrency: DefaultConcurrency,
		JobTimeout:  DefaultJobTimeout,
		Workspace:   DefaultWorkspace,
		Registry: RegistryConfig{
			Server:      "",
			UsernameEnv: DefaultRegistryUsernameEnv,
			PasswordEnv: DefaultRegistryPasswordEnv,
		},
	}
}
