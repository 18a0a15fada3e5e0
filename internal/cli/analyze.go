package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ranaumarnadeem/opentestability/pkg/errors"
	netio "github.com/ranaumarnadeem/opentestability/pkg/io"
	"github.com/ranaumarnadeem/opentestability/pkg/pipeline"
	"github.com/ranaumarnadeem/opentestability/pkg/report"
)

// Output formats of the analyze command.
const (
	outputText     = "text"
	outputJSON     = "json"
	outputMarkdown = "markdown"
)

// maxWarningsPerCode limits warning lines in text output.
const maxWarningsPerCode = 5

// analysisFlags are the flags shared by every command that runs the
// pipeline. Unset flags fall back to the configuration file.
type analysisFlags struct {
	input            string // netlist format override: gatelist, bench, json
	rules            string
	unknown          string
	observeAllInputs bool
	maxIterations    int
	maxDepth         int
	workers          int
	noCache          bool
	refresh          bool
}

func (f *analysisFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.input, "input-format", "", "netlist format: gatelist, bench, json (default: from extension)")
	fl.StringVar(&f.rules, "rules", "", "controllability rule set: standard, legacy")
	fl.StringVar(&f.unknown, "unknown-gate", "", "unknown gate policy: buffer, invert")
	fl.BoolVar(&f.observeAllInputs, "observe-all-inputs", false, "apply observability to every gate input, not just the first two")
	fl.IntVar(&f.maxIterations, "max-iterations", 0, "sweep cap per engine (0 = 2*nets+8)")
	fl.IntVar(&f.maxDepth, "max-depth", 0, "reconvergence path length bound in edges")
	fl.IntVar(&f.workers, "workers", 0, "parallel workers (0 = GOMAXPROCS)")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	fl.BoolVar(&f.refresh, "refresh", false, "recompute and overwrite cached results")
}

// options merges the flags that were set over the configuration file.
func (f *analysisFlags) options(c *CLI, cmd *cobra.Command, name string) pipeline.Options {
	opts := pipeline.FromConfig(c.cfg.Analysis)
	opts.Name = name
	opts.Refresh = f.refresh
	opts.Logger = c.Logger

	fl := cmd.Flags()
	if fl.Changed("rules") {
		opts.Rules = f.rules
	}
	if fl.Changed("unknown-gate") {
		opts.Unknown = f.unknown
	}
	if fl.Changed("observe-all-inputs") {
		opts.ObserveAllInputs = f.observeAllInputs
	}
	if fl.Changed("max-iterations") {
		opts.MaxIterations = f.maxIterations
	}
	if fl.Changed("max-depth") {
		opts.MaxDepth = f.maxDepth
		if f.maxDepth <= 0 {
			// Zero would silently select the default.
			opts.MaxDepth = -1
		}
	}
	if fl.Changed("workers") {
		opts.Workers = f.workers
	}
	return opts
}

// run reads path and executes the pipeline on it.
func (f *analysisFlags) run(ctx context.Context, c *CLI, cmd *cobra.Command, path string, skipReconv bool) (*pipeline.Result, *pipeline.Runner, error) {
	src, err := readSource(path, f.input)
	if err != nil {
		return nil, nil, err
	}
	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return nil, nil, err
	}

	opts := f.options(c, cmd, designName(path))
	opts.SkipReconvergence = skipReconv

	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, src, opts)
	if err != nil {
		runner.Close()
		return nil, nil, err
	}
	prog.done("analyzed "+filepath.Base(path), "nets", res.Stats.Nets, "cached", res.CacheInfo.AnalysisHit)
	return res, runner, nil
}

// readSource loads a netlist file in the given or detected format.
func readSource(path, format string) (pipeline.Source, error) {
	if format == "" {
		in, warnings, err := netio.ReadNetlistFile(path)
		return pipeline.Source{Input: in, Warnings: warnings}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return pipeline.Source{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return pipeline.Source{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	in, warnings, err := netio.ReadNetlist(f, netio.Format(format))
	return pipeline.Source{Input: in, Warnings: warnings}, err
}

// designName derives a report name from a file path: "c17.bench" → "c17".
func designName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// analyzeCommand creates the full analysis command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var (
		flags  analysisFlags
		format string
		output string
		top    int
		save   bool
		skip   bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [netlist]",
		Short: "Compute SCOAP metrics and reconvergent fan-out for a netlist",
		Long: `Analyze loads a gate-level netlist, computes CC0, CC1 and CO for every net and
searches the net dependency graph for reconvergent fan-out.

The netlist format is picked from the extension: .bench for ISCAS bench,
.json for JSON and anything else for the flat gate-list format.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case outputText, outputJSON, outputMarkdown, "md":
			default:
				return errors.New(errors.ErrCodeInvalidInput, "invalid output format %q (must be one of: text, json, markdown)", format)
			}

			res, runner, err := flags.run(cmd.Context(), c, cmd, args[0], skip)
			if err != nil {
				return err
			}
			defer runner.Close()

			if save {
				if err := c.saveRun(cmd.Context(), cmd.ErrOrStderr(), args[0], res); err != nil {
					return err
				}
			}
			return writeOutput(cmd.OutOrStdout(), output, func(w io.Writer) error {
				return writeReport(w, res, format, top)
			})
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", outputText, "output format: text, json, markdown")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().IntVar(&top, "top", report.DefaultTop, "number of hardest nets to list")
	cmd.Flags().BoolVar(&save, "save", false, "store the run in the history database")
	cmd.Flags().BoolVar(&skip, "skip-reconvergence", false, "compute SCOAP metrics only")

	return cmd
}

func writeReport(w io.Writer, res *pipeline.Result, format string, top int) error {
	switch format {
	case outputJSON:
		return netio.WriteReportJSON(w, res.Report)
	case outputMarkdown, "md":
		return report.WriteMarkdown(w, res.Report, report.Options{Top: top})
	}
	printText(w, res, top)
	return nil
}

// printText prints the terminal summary of a report.
func printText(w io.Writer, res *pipeline.Result, top int) {
	rep := res.Report
	title := rep.Design
	if title == "" {
		title = "design"
	}
	fmt.Fprintln(w, StyleTitle.Render(title))
	printStats(w, rep.Summary, res.CacheInfo.AnalysisHit)
	fmt.Fprintln(w)
	fmt.Fprintln(w, summaryTable(rep.Summary))

	if top != 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, StyleTitle.Render("Hardest to control"))
		fmt.Fprintln(w, netTable(rep.Hardest(top, report.Controllability)))
		fmt.Fprintln(w, StyleTitle.Render("Hardest to observe"))
		fmt.Fprintln(w, netTable(rep.Hardest(top, report.Observability)))
	}

	if len(rep.Sites) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, StyleTitle.Render("Reconvergent fan-out"))
		fmt.Fprintln(w, siteTable(rep.Sites))
	}
	if len(rep.Warnings) > 0 {
		fmt.Fprintln(w)
		printWarnings(w, rep.Warnings, maxWarningsPerCode)
	}
}

// writeOutput writes to path, or to stdout when path is empty.
func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}
	if err := netio.WriteFile(path, write); err != nil {
		return err
	}
	printFile(stdout, path)
	return nil
}

// encodeJSON writes v as indented JSON.
func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
