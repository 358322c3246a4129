// Package runner executes one job inside a fresh, isolated container
// and classifies the outcome. The container engine itself is an
// external collaborator reached through the Backend interface.
package runner

import (
	"context"
	"time"
)

// Mount binds a host path into the container.
type Mount struct {
	// Host is the absolute host path.
	Host string

	// Container is the mount point inside the container.
	Container string
}

// ContainerSpec describes one container to create. Containers are never
// reused across jobs: every job gets a fresh instance so no state leaks
// between test runs.
type ContainerSpec struct {
	// Image is the container image reference.
	Image string

	// Env is the complete environment for the contained command. The
	// base environment is empty; nothing leaks in from the host.
	Env map[string]string

	// Mounts lists host paths bound into the container.
	Mounts []Mount

	// Workdir is the working directory for the contained command.
	Workdir string

	// Command is the shell command to execute.
	Command string
}

// Backend is the container execution collaborator. Implementations must
// tolerate concurrent idempotent pulls of the same image by multiple
// workers without corrupting the local image cache.
type Backend interface {
	// Pull acquires the named image. Repeated pulls across jobs in the
	// same run are expected and must be safe to run concurrently.
	Pull(ctx context.Context, image string) error

	// Create creates and starts a fresh container, returning a handle.
	Create(ctx context.Context, spec ContainerSpec) (string, error)

	// Wait blocks until the contained command exits or the timeout
	// elapses, returning the command's exit code. A timeout is reported
	// via errors.ErrJobTimeout.
	Wait(ctx context.Context, handle string, timeout time.Duration) (int, error)

	// Destroy forcibly removes the container and releases its resources.
	Destroy(ctx context.Context, handle string) error
}
