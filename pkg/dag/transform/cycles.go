package transform

import "github.com/ranaumarnadeem/opentestability/pkg/dag"

// BreakCycles removes edges until g is acyclic and returns the removed
// edges in discovery order.
//
// A depth-first search starts from every source and then from any node not
// yet visited, in insertion order, so the result is deterministic. Every
// back edge found closes a cycle and is removed; self-loops are back edges.
// The removed edges keep their metadata.
func BreakCycles(g *dag.DAG) []dag.Edge {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, g.NodeCount())
	var backEdges []dag.Edge

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		for _, child := range g.Children(node) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				backEdges = append(backEdges, dag.Edge{From: node, To: child})
			}
		}
		color[node] = black
	}

	for _, n := range g.Sources() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}

	for _, n := range g.Nodes() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}

	if len(backEdges) == 0 {
		return nil
	}

	meta := make(map[[2]string]dag.Metadata, len(backEdges))
	for _, e := range g.Edges() {
		meta[[2]string{e.From, e.To}] = e.Meta
	}
	for i, e := range backEdges {
		backEdges[i].Meta = meta[[2]string{e.From, e.To}]
		g.RemoveEdge(e.From, e.To)
	}
	return backEdges
}
