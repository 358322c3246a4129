package cli

import (
	stderrors "errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-ci/lattice/internal/errors"
)

// TestExitCodeForError tests the error-to-exit-code mapping
func TestExitCodeForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil error is success", err: nil, want: ExitSuccess},
		{name: "test failures", err: errors.ErrTestsFailed, want: ExitTestFailures},
		{name: "infrastructure failure", err: errors.ErrInfraFailed, want: ExitInfraFailure},
		{name: "wrapped test failures", err: errors.Wrap(errors.ErrTestsFailed, "2 job(s)"), want: ExitTestFailures},
		{name: "invalid output format", err: errors.ErrInvalidOutputFormat, want: ExitInvalidInput},
		{name: "unknown flag", err: stderrors.New(`unknown flag: --bogus`), want: ExitInvalidInput},
		{name: "unknown command", err: stderrors.New(`unknown command "runn" for "lattice"`), want: ExitInvalidInput},
		{name: "anything else is infrastructure", err: stderrors.New("boom"), want: ExitInfraFailure},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, ExitCodeForError(tt.err))
		})
	}
}

// TestExitCodeForError_InfraOutranksTests tests that a run with both
// failure kinds reports the infrastructure code
func TestExitCodeForError_InfraOutranksTests(t *testing.T) {
	t.Parallel()

	err := errors.Wrap(errors.ErrInfraFailed, errors.ErrTestsFailed.Error())

	assert.Equal(t, ExitInfraFailure, ExitCodeForError(err))
}

// TestIsValidOutputFormat tests output format validation
func TestIsValidOutputFormat(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidOutputFormat(OutputText))
	assert.True(t, IsValidOutputFormat(OutputJSON))
	assert.True(t, IsValidOutputFormat(OutputYAML))
	assert.False(t, IsValidOutputFormat("xml"))
	assert.False(t, IsValidOutputFormat(""))
}

// TestAddGlobalFlags tests global flag registration and defaults
func TestAddGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "lattice"}
	flags := &GlobalFlags{}
	AddGlobalFlags(cmd, flags)

	require.NoError(t, cmd.PersistentFlags().Parse(nil))
	assert.Equal(t, OutputText, flags.Output)
	assert.False(t, flags.Verbose)
	assert.False(t, flags.Quiet)
}

// TestBindGlobalFlags tests that flag values surface through viper
func TestBindGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "lattice"}
	flags := &GlobalFlags{}
	AddGlobalFlags(cmd, flags)

	require.NoError(t, cmd.PersistentFlags().Parse([]string{"--output", "json", "--verbose"}))

	v := viper.New()
	require.NoError(t, BindGlobalFlags(v, cmd))

	assert.Equal(t, "json", v.GetString("output"))
	assert.True(t, v.GetBool("verbose"))
}
