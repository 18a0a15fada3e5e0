// Package graph provides the JSON serialization of net dependency graphs.
//
// The package sits at the serialization boundary between the in-memory
// [dag.DAG] and the files exchanged between commands: `opentestability dag`
// writes a [Graph], and `opentestability reconverge` can start from one.
//
// Use [FromDAG]/[ToDAG] to convert, or the Marshal/Write/Read helpers to go
// straight to bytes, writers and files.
//
// # Format
//
//	{
//	  "nodes": [
//	    {"id": "a", "boundary": "input"},
//	    {"id": "y", "gate": "NAND2_X1", "boundary": "output"}
//	  ],
//	  "edges": [{"from": "a", "to": "y"}],
//	  "isolated": []
//	}
//
// Gate labels and boundary flags round-trip exactly. Nodes and edges keep
// insertion order.
//
// [dag.DAG]: github.com/ranaumarnadeem/opentestability/pkg/dag
package graph
