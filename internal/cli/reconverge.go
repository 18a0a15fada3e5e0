package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ranaumarnadeem/opentestability/pkg/errors"
	"github.com/ranaumarnadeem/opentestability/pkg/graph"
	netio "github.com/ranaumarnadeem/opentestability/pkg/io"
	"github.com/ranaumarnadeem/opentestability/pkg/pipeline"
	"github.com/ranaumarnadeem/opentestability/pkg/reconv"
	"github.com/ranaumarnadeem/opentestability/pkg/report"
)

// reconvergence is the JSON output of the reconverge command.
type reconvergence struct {
	Sites       []reconv.Site    `json:"sites"`
	BrokenEdges []graph.Edge     `json:"broken_edges,omitempty"`
	Warnings    []errors.Warning `json:"warnings,omitempty"`
}

// reconvergeCommand creates the reconvergent fan-out command.
func (c *CLI) reconvergeCommand() *cobra.Command {
	var (
		flags   analysisFlags
		fromDAG bool
		asJSON  bool
		output  string
	)

	cmd := &cobra.Command{
		Use:   "reconverge [netlist|graph.json]",
		Short: "Find reconvergent fan-out sites",
		Long: `Reconverge lists every net where signals split at a fan-out point meet again,
with the two disjoint paths that reach it. With --dag the argument is a
graph written by the dag command instead of a netlist.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.findSites(cmd.Context(), cmd, &flags, args[0], fromDAG)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, func(w io.Writer) error {
				if asJSON {
					return encodeJSON(w, out)
				}
				printSites(w, out)
				return nil
			})
		},
	}

	flags.bind(cmd)
	cmd.Flags().BoolVar(&fromDAG, "dag", false, "read a dependency graph JSON file instead of a netlist")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print sites as JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func (c *CLI) findSites(ctx context.Context, cmd *cobra.Command, flags *analysisFlags, path string, fromDAG bool) (reconvergence, error) {
	if !fromDAG {
		res, runner, err := flags.run(ctx, c, cmd, path, false)
		if err != nil {
			return reconvergence{}, err
		}
		defer runner.Close()
		return reconvergence{
			Sites:       res.Report.Sites,
			BrokenEdges: res.Report.BrokenEdges,
			Warnings:    res.Report.Warnings,
		}, nil
	}

	g, err := netio.ReadDAGFile(path)
	if err != nil {
		return reconvergence{}, err
	}
	opts := flags.options(c, cmd, designName(path))
	rc, err := pipeline.DetectReconvergence(ctx, g, opts)
	if err != nil {
		return reconvergence{}, err
	}
	return reconvergence{
		Sites:       rc.Sites,
		BrokenEdges: report.Edges(rc.BrokenEdges),
		Warnings:    rc.Warnings,
	}, nil
}

func printSites(w io.Writer, out reconvergence) {
	if len(out.Sites) == 0 {
		printInfo(w, "No reconvergent fan-out found")
	} else {
		printSuccess(w, "%d reconvergence records", len(out.Sites))
		fmt.Fprintln(w, siteTable(out.Sites))
	}
	for _, e := range out.BrokenEdges {
		printDetail(w, "broke cycle edge %s %s %s", e.From, iconArrow, e.To)
	}
	printWarnings(w, out.Warnings, maxWarningsPerCode)
}
