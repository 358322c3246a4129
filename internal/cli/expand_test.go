package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-ci/lattice/internal/errors"
)

const samplePipeline = `
groups:
  - name: check
    axes:
      - name: env
        values: [pep8]
    command: "tox -e {env}"
  - name: test
    axes:
      - name: python
        values: [py36, py38]
      - name: backend
        values: [file, swift]
    exclude:
      - python: py36
        backend: swift
    command: "tox -e {python}-{backend}"
`

// writePipeline writes a pipeline spec to a temp dir and returns its
// path.
func writePipeline(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lattice.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// expandCmd returns a command carrying the output flag runExpand reads.
func expandCmd(t *testing.T, format string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "expand"}
	cmd.Flags().String("output", format, "")
	return cmd
}

// TestRunExpand tests expansion of every group in declaration order
func TestRunExpand(t *testing.T) {
	t.Parallel()

	path := writePipeline(t, samplePipeline)

	var buf bytes.Buffer
	require.NoError(t, runExpand(expandCmd(t, OutputText), &buf, path, ""))

	out := buf.String()
	assert.Contains(t, out, "group check: 1 job(s)")
	assert.Contains(t, out, "group test: 3 job(s)", "excluded combination is pruned")
	assert.Contains(t, out, "test(python=py38,backend=swift)")
	assert.NotContains(t, out, "test(python=py36,backend=swift)")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("group check")), bytes.Index(buf.Bytes(), []byte("group test")))
}

// TestRunExpand_GroupFilter tests expanding a single named group
func TestRunExpand_GroupFilter(t *testing.T) {
	t.Parallel()

	path := writePipeline(t, samplePipeline)

	var buf bytes.Buffer
	require.NoError(t, runExpand(expandCmd(t, OutputText), &buf, path, "check"))

	out := buf.String()
	assert.Contains(t, out, "group check")
	assert.NotContains(t, out, "group test")
}

// TestRunExpand_UnknownGroup tests the error for a group that is not in
// the pipeline
func TestRunExpand_UnknownGroup(t *testing.T) {
	t.Parallel()

	path := writePipeline(t, samplePipeline)

	err := runExpand(expandCmd(t, OutputText), &bytes.Buffer{}, path, "deploy")

	require.Error(t, err)
	require.ErrorIs(t, err, errors.ErrGroupNotFound)
}

// TestRunExpand_MissingFile tests the error for a missing spec file
func TestRunExpand_MissingFile(t *testing.T) {
	t.Parallel()

	err := runExpand(expandCmd(t, OutputText), &bytes.Buffer{}, filepath.Join(t.TempDir(), "nope.yaml"), "")

	require.Error(t, err)
	require.ErrorIs(t, err, errors.ErrSpecNotFound)
}

// TestRunExpand_BadExclusion tests that an exclusion referencing an
// unknown axis fails the expansion
func TestRunExpand_BadExclusion(t *testing.T) {
	t.Parallel()

	path := writePipeline(t, `
groups:
  - name: test
    axes:
      - name: python
        values: [py38]
    exclude:
      - runtime: py38
    command: "tox -e {python}"
`)

	err := runExpand(expandCmd(t, OutputText), &bytes.Buffer{}, path, "")

	require.Error(t, err)
	require.ErrorIs(t, err, errors.ErrUnknownAxis)
}
