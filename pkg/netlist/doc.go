// Package netlist models a gate-level design for testability analysis.
//
// # Overview
//
// A [Netlist] is the unit every analysis stage works on. It holds named
// [Net] values, each tagged with a [Role] and carrying its SCOAP metrics,
// and [Gate] values that connect ordered input nets to a single output
// net. Net names are interned once by [Load]; gates refer to nets by
// [NetID] so that repeated sweeps never do name lookups.
//
// # Loading
//
// [Load] consumes an [Input], the neutral form produced by the readers in
// pkg/io or decoded directly from JSON:
//
//	nl, err := netlist.Load(netlist.Input{
//	    PrimaryInputs:  []string{"a", "b"},
//	    PrimaryOutputs: []string{"y"},
//	    Gates: []netlist.GateRecord{
//	        {Type: "NAND2_X1", Output: "y", Inputs: []string{"a", "b"}},
//	    },
//	})
//
// Bus ranges such as "data[7:0]" are expanded with [ExpandVector]. Gate
// types are classified with [ClassifyGate] at load time and stored as a
// [GateKind], so later stages never inspect type strings.
//
// # Metrics
//
// [Metric] values are positive integers or [Unbounded]. [Add] saturates
// at Unbounded and [Min] ignores unbounded operands whenever a finite one
// exists, which is exactly the arithmetic the relaxation rules need.
//
// # Warnings
//
// A gate input that is neither a primary input, a declared wire, nor the
// output of some gate loads successfully but is recorded in
// [Netlist.Warnings] with code UNDEFINED_NET. Its metrics stay unbounded.
package netlist
