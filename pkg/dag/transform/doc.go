// Package transform provides structural transformations on a [dag.DAG].
//
// # Cycle Breaking
//
// Net-level dependency graphs of real designs are not always acyclic:
// sequential feedback through flip-flops and combinational loops both
// close cycles. Path-based analyses such as reconvergence detection need
// a DAG, so [BreakCycles] removes one edge per cycle found by depth-first
// search and returns the removed edges so that callers can report them.
//
// The traversal order is fixed (sources first, then insertion order), so
// the same graph always loses the same edges.
//
// [dag.DAG]: github.com/ranaumarnadeem/opentestability/pkg/dag
package transform
