package domain

// GroupReport aggregates the results of one job group. When the group's
// axis set, exclusion set, or command template is malformed, Err holds
// the configuration error and no jobs were dispatched for the group;
// other groups are unaffected.
type GroupReport struct {
	// Group is the job group name.
	Group string `json:"group"`

	// Jobs is the number of jobs the matrix expanded to after exclusion.
	// Zero is valid: a group whose combinations are all excluded simply
	// contributes nothing to the run.
	Jobs int `json:"jobs"`

	// Results holds one result per dispatched job. Completion order is
	// not dispatch order; aggregation is order-independent.
	Results []JobResult `json:"results"`

	// Err is the configuration error that aborted the group before
	// dispatch, if any.
	Err error `json:"-"`
}

// TestFailures returns the number of jobs that ran and exited non-zero.
func (g GroupReport) TestFailures() int {
	n := 0
	for _, r := range g.Results {
		if r.Failure == FailureTest {
			n++
		}
	}
	return n
}

// InfraErrors returns the number of jobs that hit an infrastructure
// error (pull failure, start failure, timeout).
func (g GroupReport) InfraErrors() int {
	n := 0
	for _, r := range g.Results {
		if r.Failure == FailureInfrastructure {
			n++
		}
	}
	return n
}

// Passed reports whether the group contributed no failures of any kind.
func (g GroupReport) Passed() bool {
	return g.Err == nil && g.TestFailures() == 0 && g.InfraErrors() == 0
}

// RunReport is the structured outcome of one orchestration run.
type RunReport struct {
	// RunID uniquely identifies the run.
	RunID string `json:"run_id"`

	// Groups holds one report per job group, in declaration order.
	Groups []GroupReport `json:"groups"`
}

// TotalJobs returns the number of jobs dispatched across all groups.
func (r RunReport) TotalJobs() int {
	n := 0
	for _, g := range r.Groups {
		n += g.Jobs
	}
	return n
}

// TestFailures returns the total test failure count across all groups.
func (r RunReport) TestFailures() int {
	n := 0
	for _, g := range r.Groups {
		n += g.TestFailures()
	}
	return n
}

// InfraErrors returns the total infrastructure error count across all
// groups. Configuration errors count here too: a group that could not
// expand is an environment problem from the caller's perspective, not a
// test failure.
func (r RunReport) InfraErrors() int {
	n := 0
	for _, g := range r.Groups {
		n += g.InfraErrors()
		if g.Err != nil {
			n++
		}
	}
	return n
}

// Passed reports whether every job across every group succeeded and no
// infrastructure or configuration error occurred.
func (r RunReport) Passed() bool {
	for _, g := range r.Groups {
		if !g.Passed() {
			return false
		}
	}
	return true
}
