// Package netgraph derives the net-level dependency graph of a netlist.
package netgraph

import (
	stderrors "errors"

	"github.com/ranaumarnadeem/opentestability/pkg/dag"
	"github.com/ranaumarnadeem/opentestability/pkg/errors"
	"github.com/ranaumarnadeem/opentestability/pkg/netlist"
)

// Metadata keys written by Annotate.
const (
	MetaCC0 = "cc0"
	MetaCC1 = "cc1"
	MetaCO  = "co"
)

// Build returns a graph with one node per net and an edge input→output
// for every gate connection.
//
// Every net from AllNets becomes a node, even when it has no edges, except
// unconnected-output placeholders. Nodes carry the driving gate's type
// label and their boundary flags. Gates whose output is a placeholder
// contribute no edges, and a net feeding the same gate twice gives one
// edge. Build reads only names and connectivity, so it may run while the
// SCOAP engines update metrics.
//
// Net names are unique and non-empty after [netlist.Load], so any other
// graph error is reported as INTERNAL_ERROR.
func Build(nl *netlist.Netlist) (*dag.DAG, error) {
	g := dag.New(nil)

	for id, n := range nl.Nets {
		if netlist.IsPlaceholder(n.Name) {
			continue
		}
		node := dag.Node{ID: n.Name, Boundary: boundary(n.Role)}
		if gi, ok := nl.Driver(netlist.NetID(id)); ok {
			node.Gate = nl.Gates[gi].Type
		}
		if err := g.AddNode(node); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "add node %q", n.Name)
		}
	}

	for _, gate := range nl.Gates {
		out := nl.Name(gate.Output)
		if netlist.IsPlaceholder(out) {
			continue
		}
		for _, in := range gate.Inputs {
			from := nl.Name(in)
			if netlist.IsPlaceholder(from) {
				continue
			}
			err := g.AddEdge(dag.Edge{From: from, To: out, Meta: dag.Metadata{"gate": gate.Type}})
			if err != nil && !stderrors.Is(err, dag.ErrDuplicateEdge) {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "add edge %s -> %s", from, out)
			}
		}
	}
	return g, nil
}

// FindIsolated returns, in node order, the nodes with neither incoming nor
// outgoing edges that are not primary inputs or outputs.
func FindIsolated(g *dag.DAG) []string {
	var out []string
	for _, n := range g.Nodes() {
		if n.IsBoundary() || g.InDegree(n.ID) > 0 || g.OutDegree(n.ID) > 0 {
			continue
		}
		out = append(out, n.ID)
	}
	return out
}

// Annotate copies the netlist's current SCOAP metrics into node metadata
// so renderers can show them. Call it after both engines have converged.
func Annotate(g *dag.DAG, nl *netlist.Netlist) {
	for _, n := range nl.Nets {
		node, ok := g.Node(n.Name)
		if !ok {
			continue
		}
		node.Meta[MetaCC0] = n.CC0
		node.Meta[MetaCC1] = n.CC1
		node.Meta[MetaCO] = n.CO
	}
}

func boundary(r netlist.Role) dag.Boundary {
	var b dag.Boundary
	if r.IsInput() {
		b |= dag.BoundaryInput
	}
	if r.IsOutput() {
		b |= dag.BoundaryOutput
	}
	return b
}
