package graph_test

import (
	"fmt"
	"os"

	"github.com/ranaumarnadeem/opentestability/pkg/dag"
	"github.com/ranaumarnadeem/opentestability/pkg/graph"
)

func ExampleWriteGraph() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "a", Boundary: dag.BoundaryInput})
	_ = g.AddNode(dag.Node{ID: "y", Gate: "INV", Boundary: dag.BoundaryOutput})
	_ = g.AddEdge(dag.Edge{From: "a", To: "y"})

	_ = graph.WriteGraph(g, os.Stdout)
	// Output:
	// {
	//   "nodes": [
	//     {
	//       "id": "a",
	//       "boundary": "input"
	//     },
	//     {
	//       "id": "y",
	//       "gate": "INV",
	//       "boundary": "output"
	//     }
	//   ],
	//   "edges": [
	//     {
	//       "from": "a",
	//       "to": "y"
	//     }
	//   ]
	// }
}

func ExampleFromDAG() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "a", Boundary: dag.BoundaryInput})
	_ = g.AddNode(dag.Node{ID: "y", Boundary: dag.BoundaryOutput})

	out := graph.FromDAG(g)
	fmt.Println(out.PrimaryInputs(), out.PrimaryOutputs())
	// Output:
	// [a] [y]
}
