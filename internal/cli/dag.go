package cli

import (
	"io"

	"github.com/spf13/cobra"

	netio "github.com/ranaumarnadeem/opentestability/pkg/io"
)

// dagCommand creates the dependency graph export command.
func (c *CLI) dagCommand() *cobra.Command {
	var (
		flags  analysisFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "dag [netlist]",
		Short: "Export the net dependency graph as JSON",
		Long: `Dag writes one node per net and one edge per gate connection, annotated with
SCOAP metrics, plus the list of isolated nets. The file can be fed back to
"reconverge --dag".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, runner, err := flags.run(cmd.Context(), c, cmd, args[0], true)
			if err != nil {
				return err
			}
			defer runner.Close()

			return writeOutput(cmd.OutOrStdout(), output, func(w io.Writer) error {
				return netio.WriteDAGJSON(w, res.Graph, res.Report.Graph.Isolated)
			})
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}
