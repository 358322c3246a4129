// Package errors provides centralized error handling for lattice.
//
// This package defines sentinel errors used for programmatic error
// categorization throughout the application. All error types can be
// checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrNoGroups indicates that a pipeline spec declares no job groups.
	ErrNoGroups = errors.New("pipeline has no job groups")

	// ErrNoAxes indicates that a job group declares no axes.
	ErrNoAxes = errors.New("group has no axes")

	// ErrAxisEmptyValues indicates that an axis declares no values.
	ErrAxisEmptyValues = errors.New("axis has no values")

	// ErrDuplicateAxis indicates that an axis name is declared twice
	// within the same job group.
	ErrDuplicateAxis = errors.New("duplicate axis name")

	// ErrDuplicateGroup indicates that two job groups share a name.
	ErrDuplicateGroup = errors.New("duplicate group name")

	// ErrUnknownAxis indicates that an exclusion rule or command template
	// references an axis that does not exist in the group's axis set.
	ErrUnknownAxis = errors.New("unknown axis")

	// ErrUnknownAxisValue indicates that an exclusion rule references a
	// value that is not a member of the named axis.
	ErrUnknownAxisValue = errors.New("unknown axis value")

	// ErrTemplatePlaceholder indicates that a command template contains a
	// placeholder that no axis in the assignment can satisfy.
	ErrTemplatePlaceholder = errors.New("unresolved template placeholder")

	// ErrSpecNotFound indicates that the pipeline spec file was not found.
	ErrSpecNotFound = errors.New("pipeline spec file not found")

	// ErrSpecParse indicates that the pipeline spec file has invalid YAML.
	ErrSpecParse = errors.New("pipeline spec parse error")

	// ErrGroupNotFound indicates that a requested job group does not
	// exist in the pipeline spec.
	ErrGroupNotFound = errors.New("group not found")

	// ErrInvalidConcurrency indicates a non-positive worker concurrency.
	ErrInvalidConcurrency = errors.New("concurrency must be positive")

	// ErrInvalidTimeout indicates a non-positive job timeout.
	ErrInvalidTimeout = errors.New("job timeout must be positive")

	// ErrImageEmpty indicates that no container image was configured.
	ErrImageEmpty = errors.New("container image must not be empty")

	// ErrWorkspaceEmpty indicates that no workspace path was configured.
	ErrWorkspaceEmpty = errors.New("workspace path must not be empty")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrRegistryAuth indicates that registry authentication failed.
	ErrRegistryAuth = errors.New("registry authentication failed")

	// ErrImagePull indicates that the container image could not be pulled.
	ErrImagePull = errors.New("image pull failed")

	// ErrContainerStart indicates that the container failed to start.
	ErrContainerStart = errors.New("container start failed")

	// ErrContainerWait indicates that waiting on a container failed for a
	// reason other than the contained command exiting.
	ErrContainerWait = errors.New("container wait failed")

	// ErrJobTimeout indicates that a job exceeded its wall-clock timeout.
	ErrJobTimeout = errors.New("job timed out")

	// ErrTestsFailed indicates that the run completed but one or more
	// jobs exited non-zero.
	ErrTestsFailed = errors.New("test failures occurred")

	// ErrInfraFailed indicates that one or more jobs hit an
	// infrastructure error (pull, start, or timeout).
	ErrInfraFailed = errors.New("infrastructure failures occurred")
)

// IsInfrastructure reports whether err belongs to the infrastructure
// error class: a failure of the execution environment itself, as opposed
// to a failing test command or a malformed pipeline spec.
func IsInfrastructure(err error) bool {
	return errors.Is(err, ErrRegistryAuth) ||
		errors.Is(err, ErrImagePull) ||
		errors.Is(err, ErrContainerStart) ||
		errors.Is(err, ErrContainerWait) ||
		errors.Is(err, ErrJobTimeout)
}

// IsConfig reports whether err belongs to the configuration error class:
// a malformed axis set, exclusion rule, or command template. Config
// errors surface at expansion time, before any job is dispatched.
func IsConfig(err error) bool {
	return errors.Is(err, ErrConfigNil) ||
		errors.Is(err, ErrNoGroups) ||
		errors.Is(err, ErrNoAxes) ||
		errors.Is(err, ErrAxisEmptyValues) ||
		errors.Is(err, ErrDuplicateAxis) ||
		errors.Is(err, ErrDuplicateGroup) ||
		errors.Is(err, ErrUnknownAxis) ||
		errors.Is(err, ErrUnknownAxisValue) ||
		errors.Is(err, ErrTemplatePlaceholder)
}
