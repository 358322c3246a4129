package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// FailureKind classifies why a job did not succeed. Test failures and
// infrastructure errors require different remediation (fix the tests vs
// fix the CI environment), so the distinction is carried through to the
// final report.
type FailureKind string

const (
	// FailureNone means the job succeeded.
	FailureNone FailureKind = ""

	// FailureTest means the job's command ran to completion and exited
	// non-zero. This is an expected, aggregable outcome.
	FailureTest FailureKind = "test"

	// FailureInfrastructure means the execution environment itself
	// failed: image pull, container start, or timeout.
	FailureInfrastructure FailureKind = "infrastructure"
)

// Job is one fully-assigned, runnable unit of work derived from a
// matrix entry. Jobs are immutable once created by the expander and are
// consumed exactly once by the runner.
type Job struct {
	// Group names the job group this job was expanded from.
	Group string `json:"group"`

	// AxisNames holds the group's axis names in declaration order, so
	// consumers can render the assignment deterministically.
	AxisNames []string `json:"axis_names"`

	// Assignment maps every axis in the group's axis set to the value
	// chosen for this job.
	Assignment map[string]string `json:"assignment"`

	// Command is the group's command template with all axis
	// placeholders substituted.
	Command string `json:"command"`
}

// Name returns a deterministic human-readable identifier for the job,
// e.g. "test(python=py39,backend=file)". Axis order follows declaration
// order, so the name is stable run-to-run.
func (j Job) Name() string {
	var b strings.Builder
	b.WriteString(j.Group)
	b.WriteByte('(')
	for i, axis := range j.AxisNames {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(axis)
		b.WriteByte('=')
		b.WriteString(j.Assignment[axis])
	}
	b.WriteByte(')')
	return b.String()
}

// Slug returns a filesystem-safe identifier derived from the job's
// group and assignment, used to namespace per-job scratch directories
// so no two jobs of a run write to the same path.
func (j Job) Slug() string {
	parts := make([]string, 0, len(j.AxisNames)+1)
	parts = append(parts, j.Group)
	for _, axis := range j.AxisNames {
		parts = append(parts, sanitize(j.Assignment[axis]))
	}
	return strings.Join(parts, "-")
}

// sanitize replaces characters that are unsafe in directory names.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, s)
}

// JobResult is the outcome of running one job. Created by the runner on
// completion, immutable, and aggregated by the orchestrator.
type JobResult struct {
	// Job is the job this result belongs to.
	Job Job `json:"job"`

	// ExitCode is the exit code of the containerized command. Only
	// meaningful when Failure is FailureNone or FailureTest.
	ExitCode int `json:"exit_code"`

	// Succeeded is true iff the command exited zero.
	Succeeded bool `json:"succeeded"`

	// Failure classifies a non-success outcome.
	Failure FailureKind `json:"failure,omitempty"`

	// Err carries the infrastructure error, if any. Never set for plain
	// test failures.
	Err error `json:"-"`

	// Duration is the wall-clock time the job took.
	Duration time.Duration `json:"duration_ms"`
}

// NewRunID returns a unique identifier for one orchestration run.
func NewRunID() string {
	return uuid.NewString()
}
