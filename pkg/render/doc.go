// Package render groups the visualization back ends.
//
// The [nodelink] subpackage draws the net dependency graph with Graphviz.
//
// [nodelink]: github.com/ranaumarnadeem/opentestability/pkg/render/nodelink
package render
