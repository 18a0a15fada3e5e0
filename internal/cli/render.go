package cli

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ranaumarnadeem/opentestability/pkg/errors"
	"github.com/ranaumarnadeem/opentestability/pkg/pipeline"
	"github.com/ranaumarnadeem/opentestability/pkg/render/nodelink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string // output file path
	format    string // dot, svg or png
	detailed  bool   // add gate type and metrics to labels
	highlight bool   // outline reconvergence sites
}

// renderCommand creates the graph drawing command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags analysisFlags
	opts := renderOpts{highlight: true}

	cmd := &cobra.Command{
		Use:   "render [netlist]",
		Short: "Draw the net dependency graph as DOT, SVG or PNG",
		Long: `Render draws one box per net colored by role: primary inputs blue, primary
outputs green, gate outputs orange. Reconvergence sites get a red outline.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := opts.format
			if format == "" {
				format = formatFromPath(opts.output)
			}
			if err := pipeline.ValidateFormat(format); err != nil {
				return err
			}
			if format == pipeline.FormatPNG && opts.output == "" {
				return errors.New(errors.ErrCodeInvalidInput, "png output needs --output")
			}

			res, runner, err := flags.run(cmd.Context(), c, cmd, args[0], !opts.highlight)
			if err != nil {
				return err
			}
			defer runner.Close()

			nopts := nodelink.Options{Detailed: opts.detailed}
			if opts.highlight {
				nopts.Highlight = pipeline.SiteNodes(res.Report)
			}
			var sp *Spinner
			if format != pipeline.FormatDOT {
				// Graphviz layout of a large design takes a while.
				sp = newSpinnerWithContext(cmd.Context(), cmd.ErrOrStderr(), "Rendering "+format)
				sp.Start()
			}
			data, hit, err := runner.Render(cmd.Context(), res, format, nopts)
			if err != nil {
				if sp != nil {
					sp.StopWithError("Rendering failed")
				}
				return err
			}
			if sp != nil {
				sp.Stop()
			}
			c.Logger.Debug("rendered graph", "format", format, "bytes", len(data), "cached", hit)

			return writeOutput(cmd.OutOrStdout(), opts.output, func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			})
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: dot, svg, png (default: from --output, else dot)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show gate types and SCOAP metrics in labels")
	cmd.Flags().BoolVar(&opts.highlight, "highlight-sites", opts.highlight, "outline reconvergence sites")

	return cmd
}

// formatFromPath picks a render format from an output file extension.
func formatFromPath(path string) string {
	switch ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."); ext {
	case pipeline.FormatSVG, pipeline.FormatPNG:
		return ext
	}
	return pipeline.FormatDOT
}
