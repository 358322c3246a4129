// Package matrix expands a job group's axis set into the ordered list
// of concrete jobs, applying exclusion rules and command templating.
//
// Expansion is deterministic: axes iterate in declaration order and
// values in declaration order within each axis, with the last-declared
// axis varying fastest. Two calls with identical inputs yield identical
// ordered output, which matters for log readability and for any test
// asserting job count or identity.
package matrix

import (
	"github.com/lattice-ci/lattice/internal/domain"
)

// Expand computes the cartesian product of the group's axes, drops
// every combination matched by an exclusion rule, and renders the
// command template for each surviving assignment.
//
// Malformed inputs (empty axis, duplicate axis name, rule referencing
// an unknown axis or value, template referencing an unknown axis) fail
// before any job is produced. An empty result is not an error: the
// caller decides whether a fully-excluded matrix is fatal. Inputs are
// never mutated.
func Expand(group string, axes domain.AxisSet, exclusions domain.ExclusionSet, commandTemplate string) ([]domain.Job, error) {
	if err := axes.Validate(); err != nil {
		return nil, err
	}
	if err := exclusions.Validate(axes); err != nil {
		return nil, err
	}

	names := axes.Names()

	// Odometer over value indices: indices[i] selects a value of
	// axes[i], with the last axis incrementing fastest.
	indices := make([]int, len(axes))
	capacity := 1
	for _, a := range axes {
		capacity *= len(a.Values)
	}

	jobs := make([]domain.Job, 0, capacity)
	for {
		assignment := make(map[string]string, len(axes))
		for i, a := range axes {
			assignment[a.Name] = a.Values[indices[i]]
		}

		if !exclusions.Excludes(assignment) {
			command, err := RenderCommand(commandTemplate, assignment)
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, domain.Job{
				Group:      group,
				AxisNames:  names,
				Assignment: assignment,
				Command:    command,
			})
		}

		if !advance(indices, axes) {
			return jobs, nil
		}
	}
}

// advance increments the odometer, returning false once it wraps.
func advance(indices []int, axes domain.AxisSet) bool {
	for i := len(indices) - 1; i >= 0; i-- {
		indices[i]++
		if indices[i] < len(axes[i].Values) {
			return true
		}
		indices[i] = 0
	}
	return false
}
