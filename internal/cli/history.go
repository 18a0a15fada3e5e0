package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	netio "github.com/ranaumarnadeem/opentestability/pkg/io"
	"github.com/ranaumarnadeem/opentestability/pkg/pipeline"
	"github.com/ranaumarnadeem/opentestability/pkg/report"
)

// saveRun stores a result in the history database.
func (c *CLI) saveRun(ctx context.Context, w io.Writer, path string, res *pipeline.Result) error {
	st, err := c.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.SaveRun(ctx, filepath.Base(path), res.InputHash, res.Report)
	if err != nil {
		return err
	}
	printSuccess(w, "Saved run %s", run.ID)
	return nil
}

// historyCommand creates the run history command.
func (c *CLI) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse analyses saved with analyze --save",
	}

	cmd.AddCommand(c.historyListCommand())
	cmd.AddCommand(c.historyShowCommand())

	return cmd
}

// historyListCommand creates the "history list" subcommand.
func (c *CLI) historyListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(runs) == 0 {
				printInfo(w, "No saved runs")
				return nil
			}

			t := newTable("ID", "Name", "Created", "Nets", "Sites")
			for _, r := range runs {
				t.Row(r.ID, r.Name, r.CreatedAt.Local().Format("2006-01-02 15:04"),
					strconv.Itoa(r.Summary.Nets), strconv.Itoa(r.Summary.Sites))
			}
			fmt.Fprintln(w, t.Render())
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs (0 = all)")
	return cmd
}

// historyShowCommand creates the "history show" subcommand.
func (c *CLI) historyShowCommand() *cobra.Command {
	var (
		format string
		top    int
	)

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Print a saved report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			run, err := st.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			switch format {
			case outputJSON:
				return netio.WriteReportJSON(w, run.Report)
			case outputMarkdown, "md":
				return report.WriteMarkdown(w, run.Report, report.Options{Top: top})
			}
			printText(w, &pipeline.Result{Report: run.Report}, top)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", outputText, "output format: text, json, markdown")
	cmd.Flags().IntVar(&top, "top", report.DefaultTop, "number of hardest nets to list")
	return cmd
}
