// Package dag provides the net-level dependency graph used by structural
// analyses.
//
// # Overview
//
// Each node is a net and each edge From→To says that To is computed by a
// gate that reads From. Nodes carry the type label of their driving gate
// and a [Boundary] flag for primary inputs and outputs, which is what the
// isolation check, the reconvergence detector and the renderers need.
//
// # Basic Usage
//
// Create a new graph with [New], add nodes with [DAG.AddNode], and edges with
// [DAG.AddEdge]. Nodes must have unique IDs and the graph never holds
// parallel edges:
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "a", Boundary: dag.BoundaryInput})
//	g.AddNode(dag.Node{ID: "y", Gate: "INV_X1", Boundary: dag.BoundaryOutput})
//	g.AddEdge(dag.Edge{From: "a", To: "y"})
//
// Query the graph structure with [DAG.Children], [DAG.Parents],
// [DAG.InDegree], [DAG.OutDegree] and related methods. Iteration order is
// always insertion order.
//
// # Cycles
//
// Netlists with feedback produce cyclic graphs. Construction accepts them;
// [DAG.Validate] reports [ErrGraphHasCycle], and the [transform] subpackage
// removes the offending edges. Analyses that must not disturb the caller's
// graph work on a [DAG.Clone].
//
// # Metadata
//
// Both nodes and the graph itself support arbitrary metadata via [Metadata] maps.
// The pipeline stores SCOAP metrics and reconvergence markers there for the
// renderers. Metadata maps are never nil after creation.
//
// # Concurrency
//
// DAG instances are not safe for concurrent mutation. A graph that is no
// longer being modified can be read from many goroutines at once, which is
// how the reconvergence detector evaluates sites in parallel.
//
// [transform]: github.com/ranaumarnadeem/opentestability/pkg/dag/transform
package dag
