// Package nodelink renders net dependency graphs as node-link diagrams.
//
// # Usage
//
// Convert a DAG to DOT format, then render to SVG or PNG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # Options
//
//   - Detailed: labels include the driving gate type and, once the graph
//     has been annotated with netgraph.Annotate, the CC0/CC1/CO metrics.
//   - Highlight: nodes outlined in red, usually reconvergence sites.
//
// Nodes are filled by role: primary inputs blue, primary outputs green,
// gate-driven nets orange, everything else gray.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz], which runs Graphviz
// in-process, so no external dot binary is required.
package nodelink
