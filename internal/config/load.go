package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/lattice-ci/lattice/internal/errors"
)

// newViperInstance creates a new Viper instance with standard lattice
// configuration: environment variable prefix (LATTICE_), key replacer,
// and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("LATTICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// setDefaults configures all default values on the Viper instance.
// These defaults match the values from DefaultConfig().
// IMPORTANT: Keys must match the YAML tag names exactly for proper mapping.
func setDefaults(v *viper.Viper) {
	v.SetDefault("image", "")
	v.SetDefault("debug", false)
	v.SetDefault("concurrency", DefaultConcurrency)
	v.SetDefault("job_timeout", "30m")
	v.SetDefault("workspace", DefaultWorkspace)
	v.SetDefault("registry.server", "")
	v.SetDefault("registry.username_env", DefaultRegistryUsernameEnv)
	v.SetDefault("registry.password_env", DefaultRegistryPasswordEnv)
}

// isConfigNotFoundError returns true if the error is a viper config
// file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// viperDecoderOption returns the decoder options for Viper unmarshal.
// This configures mapstructure to handle time.Duration conversion from
// strings like "30m".
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}

// unmarshalAndValidate unmarshals viper config into Config and
// validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads configuration from all available sources with proper
// precedence. Missing config files are expected and are not errors;
// only actual configuration problems are reported.
func Load() (*Config, error) {
	v := newViperInstance()

	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}
	if err := loadProjectConfig(v); err != nil {
		return nil, err
	}

	return unmarshalAndValidate(v)
}

// LoadFromPaths loads configuration from specific file paths. Either
// path can be empty to skip that level. projectConfigPath takes
// precedence over globalConfigPath. This is primarily for tests.
func LoadFromPaths(projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

// loadGlobalConfig attempts to load the global config file
// (~/.lattice/config.yaml). Missing file or home dir is skipped
// silently.
func loadGlobalConfig(v *viper.Viper) error {
	globalConfigPath, ok := globalConfigPathIfExists()
	if !ok {
		return nil
	}

	v.SetConfigFile(globalConfigPath)
	if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read global config file")
	}
	return nil
}

// globalConfigPathIfExists returns the global config path if it exists.
func globalConfigPathIfExists() (string, bool) {
	home, err := latticeHome()
	if err != nil {
		return "", false
	}

	globalConfigPath := filepath.Join(home, "config.yaml")
	if _, err := os.Stat(globalConfigPath); err != nil {
		return "", false
	}

	return globalConfigPath, true
}

// loadProjectConfig attempts to load the project config file
// (.lattice/config.yaml). Missing file is skipped silently.
func loadProjectConfig(v *viper.Viper) error {
	projectConfigPath := filepath.Join(".lattice", "config.yaml")
	if _, err := os.Stat(projectConfigPath); err != nil {
		return nil
	}

	v.SetConfigFile(projectConfigPath)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read project config file")
	}
	return nil
}

// latticeHome returns the lattice home directory path. If the
// LATTICE_HOME environment variable is set, it is used; otherwise the
// default is ~/.lattice.
func latticeHome() (string, error) {
	if home := os.Getenv("LATTICE_HOME"); home != "" {
		return home, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user home directory")
	}

	return filepath.Join(home, ".lattice"), nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides,
// which have the highest precedence. Only non-zero values in overrides
// are applied.
//
// Debug is a bool: the zero value cannot be distinguished from
// "explicitly false", so the CLI applies the --debug flag separately
// when the flag was changed.
func LoadWithOverrides(overrides *Config) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}

	return cfg, nil
}

// applyOverrides merges non-zero override values into the config.
func applyOverrides(cfg, overrides *Config) {
	if overrides.Image != "" {
		cfg.Image = overrides.Image
	}
	if overrides.Concurrency != 0 {
		cfg.Concurrency = overrides.Concurrency
	}
	if overrides.JobTimeout != 0 {
		cfg.JobTimeout = overrides.JobTimeout
	}
	if overrides.Workspace != "" {
		cfg.Workspace = overrides.Workspace
	}
	if overrides.Registry.Server != "" {
		cfg.Registry.Server = overrides.Registry.Server
	}
	if overrides.Registry.UsernameEnv != "" {
		cfg.Registry.UsernameEnv = overrides.Registry.UsernameEnv
	}
	if overrides.Registry.PasswordEnv != "" {
		cfg.Registry.PasswordEnv = overrides.Registry.PasswordEnv
	}
}
