// Package orchestrator drives a full run: matrix expansion per job
// group, bounded-concurrency dispatch to the job runner, and
// order-independent aggregation into a run report.
package orchestrator

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lattice-ci/lattice/internal/config"
	"github.com/lattice-ci/lattice/internal/domain"
	"github.com/lattice-ci/lattice/internal/matrix"
)

// JobRunner executes a single job and classifies its outcome. Satisfied
// by runner.Runner.
type JobRunner interface {
	Run(ctx context.Context, job domain.Job, cfg *config.Config) domain.JobResult
}

// Orchestrator expands and runs every job group of a pipeline.
type Orchestrator struct {
	runner  JobRunner
	logger  zerolog.Logger
	stopped atomic.Bool
}

// New creates an orchestrator dispatching to the given runner.
func New(runner JobRunner, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		runner: runner,
		logger: logger.With().Str("component", "orchestrator").Logger(),
	}
}

// Stop requests a graceful drain: no new jobs are dispatched, but jobs
// already started run to completion and are recorded. Safe to call from
// any goroutine, e.g. a signal handler.
func (o *Orchestrator) Stop() {
	o.stopped.Store(true)
}

// RunAll processes every job group in declaration order and returns the
// aggregated run report.
//
// A configuration error (bad axis set, exclusion rule, or template)
// aborts only the affected group, before any of its jobs dispatch;
// other groups are unaffected. A job failure of either kind never stops
// sibling jobs: there is no global cancellation, so a single image-pull
// hiccup does not discard the pass/fail signal of unrelated jobs.
func (o *Orchestrator) RunAll(ctx context.Context, groups []config.GroupSpec, cfg *config.Config) *domain.RunReport {
	report := &domain.RunReport{
		RunID:  domain.NewRunID(),
		Groups: make([]domain.GroupReport, 0, len(groups)),
	}

	o.logger.Info().
		Str("run_id", report.RunID).
		Int("groups", len(groups)).
		Int("concurrency", cfg.Concurrency).
		Bool("debug", cfg.Debug).
		Msg("starting run")

	for _, group := range groups {
		report.Groups = append(report.Groups, o.runGroup(ctx, group, cfg))
	}

	o.logger.Info().
		Str("run_id", report.RunID).
		Int("jobs", report.TotalJobs()).
		Int("test_failures", report.TestFailures()).
		Int("infra_errors", report.InfraErrors()).
		Bool("passed", report.Passed()).
		Msg("run complete")

	return report
}

// runGroup expands one group's matrix and runs the resulting jobs with
// bounded concurrency. Dispatch follows the expander's deterministic
// order; completion order is whatever it is, so each worker writes to
// its own result slot.
func (o *Orchestrator) runGroup(ctx context.Context, group config.GroupSpec, cfg *config.Config) domain.GroupReport {
	jobs, err := matrix.Expand(group.Name, group.Axes, group.Exclude, group.Command)
	if err != nil {
		o.logger.Error().Err(err).Str("group", group.Name).Msg("matrix expansion failed")
		return domain.GroupReport{Group: group.Name, Err: err}
	}

	o.logger.Info().
		Str("group", group.Name).
		Int("jobs", len(jobs)).
		Msg("matrix expanded")

	results := make([]*domain.JobResult, len(jobs))

	var g errgroup.Group
	g.SetLimit(cfg.Concurrency)

	for i, job := range jobs {
		i, job := i, job
		// A requested stop prevents new dispatch but drains jobs
		// already running.
		if o.stopped.Load() {
			o.logger.Warn().
				Str("group", group.Name).
				Str("job", job.Name()).
				Msg("stop requested, job not dispatched")
			continue
		}

		g.Go(func() error {
			result := o.runner.Run(ctx, job, cfg)
			results[i] = &result
			// Failures are aggregated, never propagated: returning an
			// error here would cancel siblings.
			return nil
		})
	}

	// Workers only ever return nil; Wait is for draining.
	_ = g.Wait()

	gr := domain.GroupReport{
		Group:   group.Name,
		Jobs:    len(jobs),
		Results: make([]domain.JobResult, 0, len(jobs)),
	}
	for _, r := range results {
		if r != nil {
			gr.Results = append(gr.Results, *r)
		}
	}

	return gr
}
