package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/lattice-ci/lattice/internal/domain"
	"github.com/lattice-ci/lattice/internal/errors"
)

// reportView is the serializable projection of a run report.
type reportView struct {
	RunID        string      `json:"run_id" yaml:"run_id"`
	Passed       bool        `json:"passed" yaml:"passed"`
	Jobs         int         `json:"jobs" yaml:"jobs"`
	TestFailures int         `json:"test_failures" yaml:"test_failures"`
	InfraErrors  int         `json:"infra_errors" yaml:"infra_errors"`
	Groups       []groupView `json:"groups" yaml:"groups"`
}

type groupView struct {
	Name    string       `json:"name" yaml:"name"`
	Jobs    int          `json:"jobs" yaml:"jobs"`
	Error   string       `json:"error,omitempty" yaml:"error,omitempty"`
	Results []resultView `json:"results" yaml:"results"`
}

type resultView struct {
	Job        string            `json:"job" yaml:"job"`
	Assignment map[string]string `json:"assignment" yaml:"assignment"`
	Command    string            `json:"command" yaml:"command"`
	ExitCode   int               `json:"exit_code" yaml:"exit_code"`
	Succeeded  bool              `json:"succeeded" yaml:"succeeded"`
	Failure    string            `json:"failure,omitempty" yaml:"failure,omitempty"`
	Error      string            `json:"error,omitempty" yaml:"error,omitempty"`
	DurationMs int64             `json:"duration_ms" yaml:"duration_ms"`
}

// newReportView builds the serializable view of a report.
func newReportView(report *domain.RunReport) reportView {
	view := reportView{
		RunID:        report.RunID,
		Passed:       report.Passed(),
		Jobs:         report.TotalJobs(),
		TestFailures: report.TestFailures(),
		InfraErrors:  report.InfraErrors(),
		Groups:       make([]groupView, 0, len(report.Groups)),
	}

	for _, g := range report.Groups {
		gv := groupView{
			Name:    g.Group,
			Jobs:    g.Jobs,
			Results: make([]resultView, 0, len(g.Results)),
		}
		if g.Err != nil {
			gv.Error = g.Err.Error()
		}
		for _, r := range g.Results {
			rv := resultView{
				Job:        r.Job.Name(),
				Assignment: r.Job.Assignment,
				Command:    r.Job.Command,
				ExitCode:   r.ExitCode,
				Succeeded:  r.Succeeded,
				Failure:    string(r.Failure),
				DurationMs: r.Duration.Milliseconds(),
			}
			if r.Err != nil {
				rv.Error = r.Err.Error()
			}
			gv.Results = append(gv.Results, rv)
		}
		view.Groups = append(view.Groups, gv)
	}

	return view
}

// renderReport writes the run report in the requested format.
func renderReport(w io.Writer, format string, report *domain.RunReport) error {
	view := newReportView(report)

	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case OutputYAML:
		return yaml.NewEncoder(w).Encode(view)
	case OutputText:
		return renderReportText(w, view)
	default:
		return errors.Wrapf(errors.ErrInvalidOutputFormat, "%q", format)
	}
}

// renderReportText writes the human-readable report: per-group job
// lines, then the failure summary. The summary separates test failures
// from infrastructure errors because the two require different
// remediation.
func renderReportText(w io.Writer, view reportView) error {
	for _, g := range view.Groups {
		if g.Error != "" {
			if _, err := fmt.Fprintf(w, "group %s: configuration error: %s\n", g.Name, g.Error); err != nil {
				return err
			}
			continue
		}

		if _, err := fmt.Fprintf(w, "group %s: %d job(s)\n", g.Name, g.Jobs); err != nil {
			return err
		}
		for _, r := range g.Results {
			status := "PASS"
			switch {
			case r.Failure == string(domain.FailureInfrastructure):
				status = "ERROR"
			case !r.Succeeded:
				status = "FAIL"
			}
			if _, err := fmt.Fprintf(w, "  %-5s %s (exit %d, %dms)\n", status, r.Job, r.ExitCode, r.DurationMs); err != nil {
				return err
			}
			if r.Error != "" {
				if _, err := fmt.Fprintf(w, "        %s\n", r.Error); err != nil {
					return err
				}
			}
		}
	}

	verdict := "PASSED"
	if !view.Passed {
		verdict = "FAILED"
	}
	_, err := fmt.Fprintf(w, "\n%s: %d job(s), %d test failure(s), %d infrastructure error(s)\n",
		verdict, view.Jobs, view.TestFailures, view.InfraErrors)
	return err
}

// matrixView is the serializable projection of an expanded matrix, used
// by the expand command.
type matrixView struct {
	Groups []matrixGroupView `json:"groups" yaml:"groups"`
}

type matrixGroupView struct {
	Name string          `json:"name" yaml:"name"`
	Jobs []matrixJobView `json:"jobs" yaml:"jobs"`
}

type matrixJobView struct {
	Job        string            `json:"job" yaml:"job"`
	Assignment map[string]string `json:"assignment" yaml:"assignment"`
	Command    string            `json:"command" yaml:"command"`
}

// renderMatrix writes the expanded matrix in the requested format.
func renderMatrix(w io.Writer, format string, groups []matrixGroupView) error {
	view := matrixView{Groups: groups}

	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case OutputYAML:
		return yaml.NewEncoder(w).Encode(view)
	case OutputText:
		for _, g := range view.Groups {
			if _, err := fmt.Fprintf(w, "group %s: %d job(s)\n", g.Name, len(g.Jobs)); err != nil {
				return err
			}
			for _, j := range g.Jobs {
				if _, err := fmt.Fprintf(w, "  %s\n    %s\n", j.Job, j.Command); err != nil {
					return err
				}
			}
		}
		return nil
	default:
		return errors.Wrapf(errors.ErrInvalidOutputFormat, "%q", format)
	}
}
