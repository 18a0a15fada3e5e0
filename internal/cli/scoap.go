package cli

import (
	"io"

	"github.com/spf13/cobra"

	netio "github.com/ranaumarnadeem/opentestability/pkg/io"
)

// scoapCommand creates the metrics-only command.
func (c *CLI) scoapCommand() *cobra.Command {
	var (
		flags  analysisFlags
		asJSON bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "scoap [netlist]",
		Short: "Print CC0, CC1 and CO for every net",
		Long: `Scoap prints the controllability and observability tables of a netlist, one
section per metric with nets sorted by name. Unbounded values print as
"unbounded".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, runner, err := flags.run(cmd.Context(), c, cmd, args[0], true)
			if err != nil {
				return err
			}
			defer runner.Close()

			return writeOutput(cmd.OutOrStdout(), output, func(w io.Writer) error {
				if asJSON {
					return encodeJSON(w, res.Report.Nets)
				}
				return netio.WriteSCOAP(w, res.Netlist)
			})
		},
	}

	flags.bind(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print metrics as JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}
