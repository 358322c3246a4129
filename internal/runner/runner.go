package runner

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/lattice-ci/lattice/internal/config"
	"github.com/lattice-ci/lattice/internal/domain"
	"github.com/lattice-ci/lattice/internal/errors"
)

const (
	// WorkspaceMountPath is where the caller's workspace tree is
	// mounted read-write inside every job container. It is also the
	// working directory for the job's command.
	WorkspaceMountPath = "/workspace"

	// DebugEnvVar is the single environment variable injected into
	// every job when the run's debug flag is set. Its value is always
	// "1".
	DebugEnvVar = "LATTICE_DEBUG"

	// ScratchEnvVar names the per-job private scratch directory inside
	// the container. Scratch paths are namespaced from the job's
	// assignment so no two jobs of a run write to the same path.
	ScratchEnvVar = "LATTICE_SCRATCH_DIR"

	// scratchRoot is the workspace-relative directory holding all
	// per-job scratch directories.
	scratchRoot = ".lattice/scratch"
)

// Runner executes jobs through a container backend. It holds no mutable
// state; a single Runner is shared by all workers of a run.
type Runner struct {
	backend Backend
	logger  zerolog.Logger
}

// New creates a job runner on top of the given backend.
func New(backend Backend, logger zerolog.Logger) *Runner {
	return &Runner{
		backend: backend,
		logger:  logger.With().Str("component", "runner").Logger(),
	}
}

// Run executes one job in a fresh container and returns its result.
//
// A non-zero exit code from the contained command is a normal result
// carrying the test-failure classification, not an error. Pull
// failures, start failures, and timeouts are infrastructure results.
// Run never returns an error across the job boundary; every outcome is
// a JobResult so the orchestrator can aggregate it.
func (r *Runner) Run(ctx context.Context, job domain.Job, cfg *config.Config) domain.JobResult {
	start := time.Now()

	r.logger.Info().
		Str("job", job.Name()).
		Str("image", cfg.Image).
		Msg("starting job")

	if err := r.backend.Pull(ctx, cfg.Image); err != nil {
		return r.infraResult(job, err, start)
	}

	scratchHost := filepath.Join(cfg.Workspace, filepath.FromSlash(scratchRoot), job.Slug())
	if err := os.MkdirAll(scratchHost, 0o750); err != nil {
		return r.infraResult(job, errors.Wrapf(errors.ErrContainerStart,
			"failed to create scratch dir: %v", err), start)
	}

	workspaceHost, err := filepath.Abs(cfg.Workspace)
	if err != nil {
		return r.infraResult(job, errors.Wrapf(errors.ErrContainerStart,
			"failed to resolve workspace path: %v", err), start)
	}

	spec := ContainerSpec{
		Image:   cfg.Image,
		Env:     buildEnv(cfg, job),
		Mounts:  []Mount{{Host: workspaceHost, Container: WorkspaceMountPath}},
		Workdir: WorkspaceMountPath,
		Command: job.Command,
	}

	handle, err := r.backend.Create(ctx, spec)
	if err != nil {
		return r.infraResult(job, err, start)
	}

	exitCode, err := r.backend.Wait(ctx, handle, cfg.JobTimeout)

	// Teardown must run even when the parent context is gone, most
	// importantly after a timeout, so the container's resources are
	// always released.
	destroyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Minute)
	defer cancel()
	if derr := r.backend.Destroy(destroyCtx, handle); derr != nil {
		r.logger.Warn().Err(derr).Str("job", job.Name()).Msg("container teardown failed")
	}

	duration := time.Since(start)

	if err != nil {
		return r.infraResult(job, err, start)
	}

	result := domain.JobResult{
		Job:       job,
		ExitCode:  exitCode,
		Succeeded: exitCode == 0,
		Duration:  duration,
	}
	if exitCode != 0 {
		result.Failure = domain.FailureTest
	}

	r.logger.Info().
		Str("job", job.Name()).
		Int("exit_code", exitCode).
		Bool("succeeded", result.Succeeded).
		Int64("duration_ms", duration.Milliseconds()).
		Msg("job completed")

	return result
}

// infraResult builds the result for a job whose execution environment
// failed. These are reported distinctly from test failures because they
// need different remediation.
func (r *Runner) infraResult(job domain.Job, err error, start time.Time) domain.JobResult {
	duration := time.Since(start)

	r.logger.Error().
		Err(err).
		Str("job", job.Name()).
		Int64("duration_ms", duration.Milliseconds()).
		Msg("job infrastructure error")

	return domain.JobResult{
		Job:      job,
		Failure:  domain.FailureInfrastructure,
		Err:      err,
		Duration: duration,
	}
}

// buildEnv assembles the job's container environment: an empty base
// plus the scratch directory pointer, plus the debug variable when the
// run's debug flag is set.
func buildEnv(cfg *config.Config, job domain.Job) map[string]string {
	env := map[string]string{
		ScratchEnvVar: path.Join(WorkspaceMountPath, scratchRoot, job.Slug()),
	}
	if cfg.Debug {
		env[DebugEnvVar] = "1"
	}
	return env
}
