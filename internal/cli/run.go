package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lattice-ci/lattice/internal/config"
	"github.com/lattice-ci/lattice/internal/docker"
	"github.com/lattice-ci/lattice/internal/errors"
	"github.com/lattice-ci/lattice/internal/orchestrator"
	"github.com/lattice-ci/lattice/internal/runner"
)

// DefaultPipelineFile is the pipeline spec file used when --file is not
// given.
const DefaultPipelineFile = "lattice.yaml"

// runFlags holds the run command's flag values.
type runFlags struct {
	file        string
	image       string
	workspace   string
	debug       bool
	concurrency int
	jobTimeout  time.Duration
}

// AddRunCommand adds the run command to the root command.
func AddRunCommand(root *cobra.Command) {
	root.AddCommand(newRunCmd())
}

func newRunCmd() *cobra.Command {
	rf := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Expand the job matrix and run every job",
		Long: `Expand each job group's axes into concrete jobs, prune excluded
combinations, and run every surviving job inside a fresh container.

The exit code is 0 when every job passed, 1 when jobs failed their
tests, and 2 when an infrastructure or configuration error occurred.

Examples:
  lattice run
  lattice run --file ci/lattice.yaml --image ghcr.io/acme/ci:latest
  lattice run --debug --concurrency 8`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRun(cmd.Context(), cmd, os.Stdout, rf)
		},
	}

	cmd.Flags().StringVarP(&rf.file, "file", "f", DefaultPipelineFile, "pipeline spec file")
	cmd.Flags().StringVar(&rf.image, "image", "", "container image to run jobs in")
	cmd.Flags().StringVar(&rf.workspace, "workspace", "", "host directory mounted into every job")
	cmd.Flags().BoolVar(&rf.debug, "debug", false, "inject "+runner.DebugEnvVar+"=1 into every job")
	cmd.Flags().IntVar(&rf.concurrency, "concurrency", 0, "maximum jobs running in parallel")
	cmd.Flags().DurationVar(&rf.jobTimeout, "job-timeout", 0, "wall-clock limit per job")

	return cmd
}

func runRun(ctx context.Context, cmd *cobra.Command, w io.Writer, rf *runFlags) error {
	logger := GetLogger()
	outputFormat := cmd.Flag("output").Value.String()

	overrides := &config.Config{
		Image:       rf.image,
		Concurrency: rf.concurrency,
		JobTimeout:  rf.jobTimeout,
		Workspace:   rf.workspace,
	}

	cfg, err := config.LoadWithOverrides(overrides)
	if err != nil {
		return err
	}

	// Debug is a bool flag: apply it only when explicitly set, so a
	// config-file value survives an invocation without --debug.
	if cmd.Flags().Changed("debug") {
		cfg.Debug = rf.debug
	}

	if cfg.Image == "" {
		return errors.Wrap(errors.ErrImageEmpty, "set --image or the image config key")
	}

	pipeline, err := config.LoadPipeline(rf.file)
	if err != nil {
		return err
	}

	client := docker.NewClient(logger)

	if err := registryLogin(ctx, client, cfg, logger); err != nil {
		return err
	}

	orch := orchestrator.New(runner.New(client, logger), logger)

	// An interrupt requests a graceful drain: in-flight jobs finish and
	// are recorded, no new jobs start. A second interrupt kills the
	// process the usual way.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		if _, ok := <-sigCh; ok {
			logger.Warn().Msg("stop requested, draining in-flight jobs")
			orch.Stop()
			signal.Stop(sigCh)
		}
	}()

	report := orch.RunAll(ctx, pipeline.Groups, cfg)

	if err := renderReport(w, outputFormat, report); err != nil {
		return err
	}

	switch {
	case report.Passed():
		return nil
	case report.InfraErrors() > 0:
		return errors.ErrInfraFailed
	default:
		return errors.ErrTestsFailed
	}
}

// registryLogin authenticates to the configured registry before the
// first pull. Skipped when no registry server is configured or the
// credential environment variables are unset; pulls then rely on
// ambient daemon credentials.
func registryLogin(ctx context.Context, client *docker.Client, cfg *config.Config, logger zerolog.Logger) error {
	if cfg.Registry.Server == "" {
		return nil
	}

	username := os.Getenv(cfg.Registry.UsernameEnv)
	password := os.Getenv(cfg.Registry.PasswordEnv)
	if username == "" || password == "" {
		logger.Debug().Str("server", cfg.Registry.Server).Msg("registry credentials not set, skipping login")
		return nil
	}

	return client.Login(ctx, cfg.Registry.Server, username, password)
}
