// Package docker implements the container execution backend and
// registry login over the docker CLI.
package docker

import (
	"bytes"
	"context"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	latticeerrors "github.com/lattice-ci/lattice/internal/errors"
	"github.com/lattice-ci/lattice/internal/runner"
)

// execFn runs a docker CLI invocation and returns its trimmed stdout.
// Injectable so tests can assert argument construction without a
// docker daemon.
type execFn func(ctx context.Context, stdin string, args ...string) (string, error)

// Client speaks to the local docker daemon through the docker CLI. It
// implements runner.Backend. The daemon serializes concurrent pulls of
// the same image internally, so Pull is safe from multiple workers.
type Client struct {
	logger zerolog.Logger
	run    execFn
}

// NewClient creates a docker CLI client.
func NewClient(logger zerolog.Logger) *Client {
	return &Client{
		logger: logger.With().Str("component", "docker").Logger(),
		run:    runDockerCommand,
	}
}

// newClientWithExec creates a client with an injected exec function.
// Used by tests.
func newClientWithExec(logger zerolog.Logger, run execFn) *Client {
	return &Client{logger: logger, run: run}
}

// runDockerCommand executes a docker command and returns its trimmed
// stdout. Stderr is folded into the error for debugging.
func runDockerCommand(ctx context.Context, stdin string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "docker", args...) //#nosec G204 -- args are constructed internally, not user input

	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if stderr.Len() > 0 {
			return "", latticeerrors.Wrapf(err, "docker %s failed: %s",
				args[0], strings.TrimSpace(stderr.String()))
		}
		return "", latticeerrors.Wrapf(err, "docker %s failed", args[0])
	}

	return strings.TrimSpace(stdout.String()), nil
}

// Login authenticates the daemon to a registry. The password travels
// over stdin, never argv.
func (c *Client) Login(ctx context.Context, server, username, password string) error {
	c.logger.Debug().Str("server", server).Str("username", username).Msg("registry login")

	_, err := c.run(ctx, password, "login", server, "--username", username, "--password-stdin")
	if err != nil {
		return latticeerrors.Wrapf(latticeerrors.ErrRegistryAuth, "%s: %v", server, err)
	}
	return nil
}

// Pull acquires the image. docker pull is idempotent; a cached image is
// refreshed, not corrupted, when several workers pull at once.
func (c *Client) Pull(ctx context.Context, image string) error {
	c.logger.Debug().Str("image", image).Msg("pulling image")

	_, err := c.run(ctx, "", "pull", image)
	if err != nil {
		return latticeerrors.Wrapf(latticeerrors.ErrImagePull, "%s: %v", image, err)
	}
	return nil
}

// Create creates and starts a fresh container for the spec, returning
// the container ID.
func (c *Client) Create(ctx context.Context, spec runner.ContainerSpec) (string, error) {
	args := createArgs(spec)

	id, err := c.run(ctx, "", args...)
	if err != nil {
		return "", latticeerrors.Wrapf(latticeerrors.ErrContainerStart, "create: %v", err)
	}

	if _, err := c.run(ctx, "", "start", id); err != nil {
		// Clean up the created-but-unstarted container before failing.
		_ = c.Destroy(ctx, id)
		return "", latticeerrors.Wrapf(latticeerrors.ErrContainerStart, "start: %v", err)
	}

	c.logger.Debug().Str("container_id", id).Str("image", spec.Image).Msg("container started")
	return id, nil
}

// createArgs builds the docker create argument list for a spec.
// Environment variables are emitted in sorted key order so the argument
// list is deterministic.
func createArgs(spec runner.ContainerSpec) []string {
	args := []string{"create"}

	if spec.Workdir != "" {
		args = append(args, "--workdir", spec.Workdir)
	}
	for _, m := range spec.Mounts {
		args = append(args, "--volume", m.Host+":"+m.Container)
	}

	keys := make([]string, 0, len(spec.Env))
	for k := range spec.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--env", k+"="+spec.Env[k])
	}

	args = append(args, spec.Image, "/bin/sh", "-c", spec.Command)
	return args
}

// Wait blocks until the container's command exits or the timeout
// elapses. The exit code comes from docker wait's stdout, so a non-zero
// contained command is a normal return here, not an error.
func (c *Client) Wait(ctx context.Context, handle string, timeout time.Duration) (int, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := c.run(waitCtx, "", "wait", handle)
	if err != nil {
		if waitCtx.Err() == context.DeadlineExceeded {
			return 0, latticeerrors.Wrapf(latticeerrors.ErrJobTimeout, "after %s", timeout)
		}
		return 0, latticeerrors.Wrapf(latticeerrors.ErrContainerWait, "%v", err)
	}

	code, err := strconv.Atoi(out)
	if err != nil {
		return 0, latticeerrors.Wrapf(latticeerrors.ErrContainerWait,
			"unparseable exit code %q", out)
	}

	return code, nil
}

// Destroy forcibly removes the container. Used both for normal teardown
// and to release resources after a timeout.
func (c *Client) Destroy(ctx context.Context, handle string) error {
	_, err := c.run(ctx, "", "rm", "--force", handle)
	if err != nil {
		return latticeerrors.Wrapf(err, "failed to remove container %s", handle)
	}
	return nil
}
