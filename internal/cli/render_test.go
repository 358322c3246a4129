package cli

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-ci/lattice/internal/domain"
	"github.com/lattice-ci/lattice/internal/errors"
)

func sampleReport() *domain.RunReport {
	passJob := domain.Job{
		Group:      "test",
		AxisNames:  []string{"python", "backend"},
		Assignment: map[string]string{"python": "py38", "backend": "file"},
		Command:    "tox -e py38-file",
	}
	failJob := domain.Job{
		Group:      "test",
		AxisNames:  []string{"python", "backend"},
		Assignment: map[string]string{"python": "py36", "backend": "file"},
		Command:    "tox -e py36-file",
	}
	infraJob := domain.Job{
		Group:      "test",
		AxisNames:  []string{"python", "backend"},
		Assignment: map[string]string{"python": "py38", "backend": "swift"},
		Command:    "tox -e py38-swift",
	}

	return &domain.RunReport{
		RunID: "run-1",
		Groups: []domain.GroupReport{
			{
				Group: "test",
				Jobs:  3,
				Results: []domain.JobResult{
					{Job: passJob, Succeeded: true, Duration: 2 * time.Second},
					{Job: failJob, ExitCode: 1, Failure: domain.FailureTest, Duration: time.Second},
					{Job: infraJob, Failure: domain.FailureInfrastructure, Err: errors.ErrImagePull},
				},
			},
			{
				Group: "doc",
				Err:   errors.Wrapf(errors.ErrUnknownAxis, "%q", "runtime"),
			},
		},
	}
}

// TestRenderReport_Text tests the human-readable report: status lines
// and a summary separating test failures from infrastructure errors
func TestRenderReport_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, renderReport(&buf, OutputText, sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "group test: 3 job(s)")
	assert.Contains(t, out, "PASS  test(python=py38,backend=file)")
	assert.Contains(t, out, "FAIL  test(python=py36,backend=file)")
	assert.Contains(t, out, "ERROR test(python=py38,backend=swift)")
	assert.Contains(t, out, "group doc: configuration error:")
	assert.Contains(t, out, "FAILED: 3 job(s), 1 test failure(s), 2 infrastructure error(s)")
}

// TestRenderReport_TextPassed tests the passing summary line
func TestRenderReport_TextPassed(t *testing.T) {
	t.Parallel()

	job := domain.Job{
		Group:      "check",
		AxisNames:  []string{"env"},
		Assignment: map[string]string{"env": "pep8"},
		Command:    "tox -e pep8",
	}
	report := &domain.RunReport{
		RunID: "run-2",
		Groups: []domain.GroupReport{{
			Group:   "check",
			Jobs:    1,
			Results: []domain.JobResult{{Job: job, Succeeded: true}},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, renderReport(&buf, OutputText, report))

	assert.Contains(t, buf.String(), "PASSED: 1 job(s), 0 test failure(s), 0 infrastructure error(s)")
}

// TestRenderReport_JSON tests the machine-readable report shape
func TestRenderReport_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, renderReport(&buf, OutputJSON, sampleReport()))

	var view reportView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &view))

	assert.Equal(t, "run-1", view.RunID)
	assert.False(t, view.Passed)
	assert.Equal(t, 3, view.Jobs)
	assert.Equal(t, 1, view.TestFailures)
	assert.Equal(t, 2, view.InfraErrors, "config error counts as infrastructure")
	require.Len(t, view.Groups, 2)
	assert.Equal(t, "test(python=py38,backend=file)", view.Groups[0].Results[0].Job)
	assert.NotEmpty(t, view.Groups[1].Error)
}

// TestRenderReport_InvalidFormat tests format validation at render time
func TestRenderReport_InvalidFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := renderReport(&buf, "xml", sampleReport())

	require.Error(t, err)
	require.ErrorIs(t, err, errors.ErrInvalidOutputFormat)
}

// TestRenderMatrix_Text tests the dry-run matrix listing
func TestRenderMatrix_Text(t *testing.T) {
	t.Parallel()

	groups := []matrixGroupView{{
		Name: "test",
		Jobs: []matrixJobView{
			{Job: "test(python=py38)", Command: "tox -e py38"},
			{Job: "test(python=py36)", Command: "tox -e py36"},
		},
	}}

	var buf bytes.Buffer
	require.NoError(t, renderMatrix(&buf, OutputText, groups))

	out := buf.String()
	assert.Contains(t, out, "group test: 2 job(s)")
	assert.Contains(t, out, "test(python=py38)")
	assert.Contains(t, out, "tox -e py36")
}

// TestRenderMatrix_JSON tests matrix JSON output round-trips
func TestRenderMatrix_JSON(t *testing.T) {
	t.Parallel()

	groups := []matrixGroupView{{
		Name: "check",
		Jobs: []matrixJobView{{
			Job:        "check(env=pep8)",
			Assignment: map[string]string{"env": "pep8"},
			Command:    "tox -e pep8",
		}},
	}}

	var buf bytes.Buffer
	require.NoError(t, renderMatrix(&buf, OutputJSON, groups))

	var view matrixView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &view))
	require.Len(t, view.Groups, 1)
	assert.Equal(t, "check(env=pep8)", view.Groups[0].Jobs[0].Job)
}
