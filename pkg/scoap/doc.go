// Package scoap computes SCOAP controllability and observability metrics.
//
// # Controllability
//
// CC0 and CC1 estimate how hard it is to drive a net to 0 or 1. Primary
// inputs cost 1; every other net starts unbounded and is lowered by
// repeated sweeps over all gates until a sweep changes nothing. The
// formulas are selected by [RuleSet]: [RulesStandard] is textbook SCOAP,
// [RulesLegacy] reproduces the reference scripts' AND/NAND/OR/NOR table.
// Gates of unknown type follow [UnknownPolicy].
//
// # Observability
//
// CO estimates how hard it is to see a net's value at a primary output.
// Primary outputs cost 1. A gate input costs CO(output) plus the cost of
// holding the gate's other inputs at non-controlling values, plus one, so a
// stem feeding several gates is observed through its cheapest branch. A
// stem named in an explicit fan-out table takes the cheapest of its listed
// branch nets. Only the
// first two inputs of a gate are propagated through unless
// [Options].ObserveAllInputs is set.
//
// # Sweeps
//
// Both engines use the same discipline: within a sweep every candidate is
// computed from the values committed by the previous sweep, and only then
// are candidates that are strictly smaller committed. Values never
// increase, the result does not depend on gate order, and gates are
// evaluated on up to [Options].Workers goroutines.
//
// A run that is still lowering values after [Options].MaxIterations
// sweeps fails with a NON_CONVERGENCE error wrapping
// [errors.NonConvergenceError].
//
//	cc, err := scoap.ComputeControllability(ctx, nl, scoap.Options{})
//	co, err := scoap.ComputeObservability(ctx, nl, cc, scoap.Options{})
//
// [errors.NonConvergenceError]: github.com/ranaumarnadeem/opentestability/pkg/errors
package scoap
