package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/ranaumarnadeem/opentestability/pkg/dag"
	"github.com/ranaumarnadeem/opentestability/pkg/errors"
	"github.com/ranaumarnadeem/opentestability/pkg/netgraph"
)

// Fill colors by net role.
const (
	ColorInput  = "#1f77b4"
	ColorOutput = "#2ca02c"
	ColorGate   = "#ff7f0e"
	ColorOther  = "gray"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the driving gate type and the CC0/CC1/CO metrics to
	// node labels. When false, only the net name is shown.
	Detailed bool

	// Highlight lists nodes drawn with a heavy red outline, typically
	// reconvergence sites.
	Highlight []string
}

// ToDOT converts a net dependency graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
//
// Primary inputs are blue, primary outputs green, gate-driven nets orange
// and anything else gray. A net that is both input and output is drawn as
// an output.
func ToDOT(g *dag.DAG, opts Options) string {
	highlight := make(map[string]bool, len(opts.Highlight))
	for _, id := range opts.Highlight {
		highlight[id] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontcolor=white, fontsize=14, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := fmtAttrs(*n, fmtLabel(*n, opts.Detailed), highlight[n.ID])
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n dag.Node, detailed bool) string {
	if !detailed {
		return n.ID
	}
	lines := []string{n.ID}
	if n.Gate != "" {
		lines = append(lines, n.Gate)
	}
	cc0, ok0 := n.Meta[netgraph.MetaCC0]
	cc1, ok1 := n.Meta[netgraph.MetaCC1]
	if ok0 && ok1 {
		lines = append(lines, fmt.Sprintf("CC0=%v CC1=%v", cc0, cc1))
	}
	if co, ok := n.Meta[netgraph.MetaCO]; ok {
		lines = append(lines, fmt.Sprintf("CO=%v", co))
	}
	return strings.Join(lines, "\n")
}

func fmtAttrs(n dag.Node, label string, highlight bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label), "fillcolor=" + strconv.Quote(fillColor(n))}
	if highlight {
		attrs = append(attrs, "color=red", "penwidth=3")
	}
	return attrs
}

func fillColor(n dag.Node) string {
	switch {
	case n.Boundary.IsOutput():
		return ColorOutput
	case n.Boundary.IsInput():
		return ColorInput
	case n.Gate != "":
		return ColorGate
	}
	return ColorOther
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized svg tag with one whose
// width and height match the viewBox, so browsers scale it cleanly.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
