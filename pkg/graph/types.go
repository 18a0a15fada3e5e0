package graph

import (
	"fmt"
	"strings"

	"github.com/ranaumarnadeem/opentestability/pkg/dag"
)

// =============================================================================
// Constants
// =============================================================================

// Boundary spellings used in serialized nodes.
const (
	BoundaryInput  = "input"
	BoundaryOutput = "output"
)

// =============================================================================
// Graph - Net Dependency Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for net dependency graphs.
// Used for CLI output, the reconverge command's input, API responses and
// cache entries.
//
// Nodes and edges keep the graph's insertion order, so building a graph
// from the same netlist always serializes to the same bytes.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`

	// Isolated lists nets with no edges that are not primary boundaries.
	// It is informational and ignored by ToDAG.
	Isolated []string `json:"isolated,omitempty"`
}

// PrimaryInputs returns the IDs of nodes flagged as primary inputs.
func (g Graph) PrimaryInputs() []string { return g.boundary(BoundaryInput) }

// PrimaryOutputs returns the IDs of nodes flagged as primary outputs.
func (g Graph) PrimaryOutputs() []string { return g.boundary(BoundaryOutput) }

func (g Graph) boundary(flag string) []string {
	var out []string
	for _, n := range g.Nodes {
		if strings.Contains(n.Boundary, flag) {
			out = append(out, n.ID)
		}
	}
	return out
}

// =============================================================================
// Node and Edge
// =============================================================================

// Node is a serialized net.
type Node struct {
	ID       string         `json:"id"`
	Gate     string         `json:"gate,omitempty"`     // Driving gate type label
	Boundary string         `json:"boundary,omitempty"` // "input", "output" or "input,output"
	Meta     map[string]any `json:"meta,omitempty"`
}

// Edge represents a directed edge in the dependency graph.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// =============================================================================
// DAG ↔ Graph Conversion
// =============================================================================

// FromDAG converts a DAG to its serialization format.
func FromDAG(g *dag.DAG) Graph {
	nodes := g.Nodes()
	edges := g.Edges()

	out := Graph{
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, len(edges)),
	}
	for i, n := range nodes {
		out.Nodes[i] = Node{
			ID:       n.ID,
			Gate:     n.Gate,
			Boundary: boundaryString(n.Boundary),
		}
		if len(n.Meta) > 0 {
			out.Nodes[i].Meta = n.Meta
		}
	}
	for i, e := range edges {
		out.Edges[i] = Edge{From: e.From, To: e.To}
	}
	return out
}

// ToDAG converts a serialized graph back to a DAG.
// Returns an error for duplicate nodes or edges that reference missing
// nodes. Cycles are accepted.
func ToDAG(data Graph) (*dag.DAG, error) {
	g := dag.New(nil)
	for _, n := range data.Nodes {
		node := dag.Node{
			ID:       n.ID,
			Gate:     n.Gate,
			Boundary: parseBoundary(n.Boundary),
			Meta:     n.Meta,
		}
		if err := g.AddNode(node); err != nil {
			return nil, fmt.Errorf("node %q: %w", n.ID, err)
		}
	}
	for _, e := range data.Edges {
		if err := g.AddEdge(dag.Edge{From: e.From, To: e.To}); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}
	return g, nil
}

func boundaryString(b dag.Boundary) string {
	switch {
	case b.IsInput() && b.IsOutput():
		return BoundaryInput + "," + BoundaryOutput
	case b.IsInput():
		return BoundaryInput
	case b.IsOutput():
		return BoundaryOutput
	}
	return ""
}

func parseBoundary(s string) dag.Boundary {
	var b dag.Boundary
	for _, part := range strings.Split(s, ",") {
		switch strings.TrimSpace(part) {
		case BoundaryInput:
			b |= dag.BoundaryInput
		case BoundaryOutput:
			b |= dag.BoundaryOutput
		}
	}
	return b
}
