// Package cli provides the command-line interface for lattice.
package cli

import (
	stderrors "errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lattice-ci/lattice/internal/errors"
)

// Exit codes for the CLI. Test failures and infrastructure failures get
// distinct codes so callers can tell "fix the tests" from "fix the CI
// environment" without parsing output.
const (
	// ExitSuccess indicates the run passed.
	ExitSuccess = 0
	// ExitTestFailures indicates the run completed but one or more jobs
	// exited non-zero.
	ExitTestFailures = 1
	// ExitInfraFailure indicates an infrastructure or configuration
	// failure occurred.
	ExitInfraFailure = 2
	// ExitInvalidInput indicates invalid user input.
	ExitInvalidInput = 3
)

// Output format constants.
const (
	// OutputText is the default human-readable output format.
	OutputText = "text"
	// OutputJSON is the machine-readable JSON output format.
	OutputJSON = "json"
	// OutputYAML is the YAML output format (expand command only).
	OutputYAML = "yaml"
)

// GlobalFlags holds flags available to all commands.
type GlobalFlags struct {
	// Output specifies the output format (text or json).
	Output string
	// Verbose enables debug-level logging.
	Verbose bool
	// Quiet suppresses non-essential output (warn level only).
	Quiet bool
}

// AddGlobalFlags adds global flags to a command.
// These flags are available to all subcommands via PersistentFlags.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	cmd.PersistentFlags().StringVarP(&flags.Output, "output", "o", OutputText, "output format (text|json)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress non-essential output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// BindGlobalFlags binds global flags to Viper for configuration file
// and environment variable support. The LATTICE_ prefix is used for
// environment variables (e.g., LATTICE_OUTPUT, LATTICE_VERBOSE).
func BindGlobalFlags(v *viper.Viper, cmd *cobra.Command) error {
	// Use Root().PersistentFlags() to find flags defined on the root
	// command, even when called from a subcommand's PersistentPreRunE.
	rootFlags := cmd.Root().PersistentFlags()

	if err := v.BindPFlag("output", rootFlags.Lookup("output")); err != nil {
		return err
	}
	if err := v.BindPFlag("verbose", rootFlags.Lookup("verbose")); err != nil {
		return err
	}
	if err := v.BindPFlag("quiet", rootFlags.Lookup("quiet")); err != nil {
		return err
	}

	v.SetEnvPrefix("LATTICE")
	v.AutomaticEnv()

	return nil
}

// ValidOutputFormats returns the list of valid output format values.
func ValidOutputFormats() []string {
	return []string{OutputText, OutputJSON, OutputYAML}
}

// IsValidOutputFormat checks if the given format is a valid output format.
func IsValidOutputFormat(format string) bool {
	for _, valid := range ValidOutputFormats() {
		if format == valid {
			return true
		}
	}
	return false
}

// ExitCodeForError returns the appropriate exit code for the given
// error. Infrastructure failures outrank test failures: when a run has
// both, the caller needs to fix the environment first.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if stderrors.Is(err, errors.ErrInfraFailed) {
		return ExitInfraFailure
	}
	if stderrors.Is(err, errors.ErrTestsFailed) {
		return ExitTestFailures
	}

	if stderrors.Is(err, errors.ErrInvalidOutputFormat) || isInvalidInputError(err.Error()) {
		return ExitInvalidInput
	}

	return ExitInfraFailure
}

// isInvalidInputError checks if an error message indicates invalid user
// input. This catches Cobra's built-in flag validation errors.
func isInvalidInputError(errMsg string) bool {
	invalidInputPatterns := []string{
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"invalid argument",
		"if any flags in the group",
		"required flag",
		"unknown command",
	}

	for _, pattern := range invalidInputPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
