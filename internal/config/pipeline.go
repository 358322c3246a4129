package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lattice-ci/lattice/internal/domain"
	"github.com/lattice-ci/lattice/internal/errors"
)

// GroupSpec declares one job group: its axes, the combinations to
// exclude, and the command template run for each surviving combination.
type GroupSpec struct {
	// Name identifies the group in reports and logs.
	Name string `yaml:"name"`

	// Axes is the ordered axis set for the group.
	Axes domain.AxisSet `yaml:"axes"`

	// Exclude lists partial assignments to prune from the expanded
	// matrix. Optional.
	Exclude domain.ExclusionSet `yaml:"exclude,omitempty"`

	// Command is the command template executed inside the container.
	// {axisName} placeholders are substituted per job.
	Command string `yaml:"command"`
}

// Pipeline is the declarative run specification: an ordered list of job
// groups. Groups are independent; their declaration order only fixes
// expansion and reporting order.
type Pipeline struct {
	Groups []GroupSpec `yaml:"groups"`
}

// Group returns the group with the given name.
func (p *Pipeline) Group(name string) (GroupSpec, bool) {
	for _, g := range p.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return GroupSpec{}, false
}

// LoadPipeline reads and parses a pipeline spec file. Structural
// validation stops at the group level here; axis and exclusion rule
// validation happens at expansion time so that a bad group aborts only
// itself, not the whole run.
func LoadPipeline(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path is provided by the operator invoking the CLI
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrSpecNotFound, "%s", path)
		}
		return nil, errors.Wrapf(err, "failed to read pipeline spec %s", path)
	}

	var p Pipeline
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrapf(errors.ErrSpecParse, "%s: %v", path, err)
	}

	if err := validatePipeline(&p); err != nil {
		return nil, err
	}

	return &p, nil
}

// validatePipeline checks group-level invariants: at least one group,
// non-empty unique names, and a non-empty command template per group.
func validatePipeline(p *Pipeline) error {
	if len(p.Groups) == 0 {
		return errors.ErrNoGroups
	}

	seen := make(map[string]struct{}, len(p.Groups))
	for _, g := range p.Groups {
		if g.Name == "" {
			return errors.Wrap(errors.ErrNoGroups, "group with empty name")
		}
		if _, dup := seen[g.Name]; dup {
			return errors.Wrapf(errors.ErrDuplicateGroup, "group %q", g.Name)
		}
		seen[g.Name] = struct{}{}

		if g.Command == "" {
			return errors.Wrapf(errors.ErrSpecParse, "group %q has no command", g.Name)
		}
	}

	return nil
}
