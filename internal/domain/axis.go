// Package domain defines the core value types for lattice: axes,
// exclusion rules, jobs, results, and run reports.
//
// IMPORTANT: This package may import internal/errors but MUST NOT
// import any other internal packages.
package domain

import (
	"github.com/lattice-ci/lattice/internal/errors"
)

// Axis is a named dimension of variation with an ordered list of
// discrete values (e.g., python={py39,py311}).
type Axis struct {
	// Name identifies the axis within its group's axis set.
	Name string `yaml:"name" json:"name"`

	// Values is the ordered list of values the axis may take.
	// Declaration order is significant: it determines expansion order.
	Values []string `yaml:"values" json:"values"`
}

// HasValue reports whether v is a member of the axis's value list.
func (a Axis) HasValue(v string) bool {
	for _, val := range a.Values {
		if val == v {
			return true
		}
	}
	return false
}

// AxisSet is the ordered collection of axes for one job group.
// Axis declaration order determines the iteration order during
// matrix expansion, so expansion output is reproducible run-to-run.
type AxisSet []Axis

// Lookup returns the axis with the given name.
func (s AxisSet) Lookup(name string) (Axis, bool) {
	for _, a := range s {
		if a.Name == name {
			return a, true
		}
	}
	return Axis{}, false
}

// Names returns the axis names in declaration order.
func (s AxisSet) Names() []string {
	names := make([]string, len(s))
	for i, a := range s {
		names[i] = a.Name
	}
	return names
}

// Validate checks the structural invariants of the axis set: at least
// one axis, every axis has at least one value, and axis names are
// unique within the set.
func (s AxisSet) Validate() error {
	if len(s) == 0 {
		return errors.ErrNoAxes
	}

	seen := make(map[string]struct{}, len(s))
	for _, a := range s {
		if len(a.Values) == 0 {
			return errors.Wrapf(errors.ErrAxisEmptyValues, "axis %q", a.Name)
		}
		if _, dup := seen[a.Name]; dup {
			return errors.Wrapf(errors.ErrDuplicateAxis, "axis %q", a.Name)
		}
		seen[a.Name] = struct{}{}
	}

	return nil
}

// ExclusionRule is a partial assignment from axis names to values.
// A candidate job assignment matches the rule when it agrees with the
// rule on every axis the rule names; axes the rule does not name match
// any value. Exclusion rules are projections, not full-tuple equality
// checks, so one rule can remove an entire runtime version from one
// backend without enumerating every other axis combination.
type ExclusionRule map[string]string

// Matches reports whether the full assignment agrees with the rule on
// all axes the rule names.
func (r ExclusionRule) Matches(assignment map[string]string) bool {
	for name, want := range r {
		if assignment[name] != want {
			return false
		}
	}
	return true
}

// Validate checks that every axis the rule names exists in the axis set
// and that every referenced value is a member of that axis. A rule that
// references an unknown axis or value is a configuration bug and must
// be caught at expansion time, not silently ignored.
func (r ExclusionRule) Validate(axes AxisSet) error {
	for name, value := range r {
		axis, ok := axes.Lookup(name)
		if !ok {
			return errors.Wrapf(errors.ErrUnknownAxis, "exclusion rule references axis %q", name)
		}
		if !axis.HasValue(value) {
			return errors.Wrapf(errors.ErrUnknownAxisValue,
				"exclusion rule references value %q for axis %q", value, name)
		}
	}
	return nil
}

// ExclusionSet is the list of exclusion rules for one job group.
type ExclusionSet []ExclusionRule

// Validate checks every rule in the set against the axis set.
func (s ExclusionSet) Validate(axes AxisSet) error {
	for _, rule := range s {
		if err := rule.Validate(axes); err != nil {
			return err
		}
	}
	return nil
}

// Excludes reports whether any rule in the set matches the assignment.
func (s ExclusionSet) Excludes(assignment map[string]string) bool {
	for _, rule := range s {
		if rule.Matches(assignment) {
			return true
		}
	}
	return false
}
