package cli

import (
	"github.com/spf13/cobra"

	"github.com/ranaumarnadeem/opentestability/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "opentestability",
		Short: "SCOAP testability and reconvergence analysis for gate-level netlists",
		Long: `opentestability computes SCOAP controllability (CC0, CC1) and observability (CO)
for every net of a gate-level netlist and finds reconvergent fan-out in its
net dependency graph.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "configuration file (TOML or YAML)")

	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.scoapCommand())
	root.AddCommand(c.dagCommand())
	root.AddCommand(c.reconvergeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}
