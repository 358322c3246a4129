package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lattice-ci/lattice/internal/config"
	"github.com/lattice-ci/lattice/internal/errors"
	"github.com/lattice-ci/lattice/internal/matrix"
)

// AddExpandCommand adds the expand command to the root command.
func AddExpandCommand(root *cobra.Command) {
	root.AddCommand(newExpandCmd())
}

func newExpandCmd() *cobra.Command {
	var (
		file  string
		group string
	)

	cmd := &cobra.Command{
		Use:   "expand",
		Short: "Show the expanded job matrix without running anything",
		Long: `Expand each job group's axes into the concrete job list, apply the
exclusion rules, and print the result. Nothing is pulled or executed;
this is a dry run for debugging pipeline definitions.

Examples:
  lattice expand
  lattice expand --file ci/lattice.yaml --group test
  lattice expand --output yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExpand(cmd, os.Stdout, file, group)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", DefaultPipelineFile, "pipeline spec file")
	cmd.Flags().StringVarP(&group, "group", "g", "", "expand only the named group")

	return cmd
}

func runExpand(cmd *cobra.Command, w io.Writer, file, group string) error {
	outputFormat := cmd.Flag("output").Value.String()

	pipeline, err := config.LoadPipeline(file)
	if err != nil {
		return err
	}

	groups := pipeline.Groups
	if group != "" {
		g, ok := pipeline.Group(group)
		if !ok {
			return errors.Wrapf(errors.ErrGroupNotFound, "%q", group)
		}
		groups = []config.GroupSpec{g}
	}

	views := make([]matrixGroupView, 0, len(groups))
	for _, g := range groups {
		jobs, err := matrix.Expand(g.Name, g.Axes, g.Exclude, g.Command)
		if err != nil {
			return errors.Wrapf(err, "group %q", g.Name)
		}

		gv := matrixGroupView{Name: g.Name, Jobs: make([]matrixJobView, 0, len(jobs))}
		for _, j := range jobs {
			gv.Jobs = append(gv.Jobs, matrixJobView{
				Job:        j.Name(),
				Assignment: j.Assignment,
				Command:    j.Command,
			})
		}
		views = append(views, gv)
	}

	return renderMatrix(w, outputFormat, views)
}
