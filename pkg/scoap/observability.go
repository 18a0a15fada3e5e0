package scoap

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ranaumarnadeem/opentestability/pkg/errors"
	"github.com/ranaumarnadeem/opentestability/pkg/netlist"
)

// ObservabilityResult is returned by a converged observability run.
type ObservabilityResult struct {
	Stats
	Unobservable []string         `json:"unobservable,omitempty"`
	Warnings     []errors.Warning `json:"warnings,omitempty"`
}

// Observability relaxes CO over a netlist whose controllability has
// converged. It combines two rules per sweep: a stem listed in an explicit
// fan-out table takes the minimum CO of its branch nets, and each
// considered gate input takes the cost of propagating through the gate.
type Observability struct {
	nl     *netlist.Netlist
	opts   Options
	logger *log.Logger

	// Flattened per-gate input candidates; gate i owns
	// cand[offset[i]:offset[i+1]].
	offset []int
	cand   []netlist.Metric

	stems     []netlist.NetID
	stemCand  []netlist.Metric
	stemDests [][]netlist.NetID
}

// NewObservability resets CO (1 on primary outputs, unbounded elsewhere)
// and returns an engine ready to sweep. It requires the result of a
// converged controllability run on the same netlist.
func NewObservability(nl *netlist.Netlist, cc *ControllabilityResult, opts Options) (*Observability, error) {
	if cc == nil {
		return nil, errors.New(errors.ErrCodePreconditionFail, "observability requires converged controllability")
	}

	for i := range nl.Nets {
		nl.Nets[i].CO = netlist.Unbounded
	}
	for _, id := range nl.Outputs {
		nl.Nets[id].CO = 1
	}

	o := &Observability{
		nl:     nl,
		opts:   opts,
		logger: opts.logger(),
		offset: make([]int, len(nl.Gates)+1),
	}
	for i := range nl.Gates {
		o.offset[i+1] = o.offset[i] + o.considered(&nl.Gates[i])
	}
	o.cand = make([]netlist.Metric, o.offset[len(nl.Gates)])

	// A derived table maps inputs to gate outputs, so its stem rule would
	// skip the gate cost. The backward candidates already give a stem the
	// minimum over its branches; only explicit branch nets need the rule.
	if nl.ExplicitFanout() {
		fanout := nl.Fanout()
		for id := range nl.Nets {
			dests := fanout[netlist.NetID(id)]
			if len(dests) > 1 {
				o.stems = append(o.stems, netlist.NetID(id))
				o.stemDests = append(o.stemDests, dests)
			}
		}
	}
	o.stemCand = make([]netlist.Metric, len(o.stems))
	return o, nil
}

// considered returns how many leading inputs of g receive the backward rule.
func (o *Observability) considered(g *netlist.Gate) int {
	if o.opts.ObserveAllInputs {
		return len(g.Inputs)
	}
	return min(2, len(g.Inputs))
}

// Sweep performs one read-all, compute-all, commit-all pass and returns
// the number of values lowered.
func (o *Observability) Sweep(ctx context.Context) (int, error) {
	gates := o.nl.Gates
	workers := o.opts.workers()

	err := forEachChunk(ctx, len(gates), workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			o.evaluate(&gates[i], o.cand[o.offset[i]:o.offset[i+1]])
		}
	})
	if err != nil {
		return 0, err
	}
	nets := o.nl.Nets
	err = forEachChunk(ctx, len(o.stems), workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			best := netlist.Unbounded
			for _, d := range o.stemDests[i] {
				best = min(best, nets[d].CO)
			}
			o.stemCand[i] = best
		}
	})
	if err != nil {
		return 0, err
	}

	updates := 0
	for i := range gates {
		g := &gates[i]
		for k, m := range o.cand[o.offset[i]:o.offset[i+1]] {
			if n := &nets[g.Inputs[k]]; m < n.CO {
				n.CO = m
				updates++
			}
		}
	}
	for i, id := range o.stems {
		if n := &nets[id]; o.stemCand[i] < n.CO {
			n.CO = o.stemCand[i]
			updates++
		}
	}
	return updates, nil
}

// evaluate writes the candidate CO of each considered input of g into out.
//
// By default the first two inputs are considered and a one-input gate
// treats its single input as both i1 and i2. With ObserveAllInputs the side
// cost is summed over every other input, so a one-input gate costs CO(o)+1.
func (o *Observability) evaluate(g *netlist.Gate, out []netlist.Metric) {
	nets := o.nl.Nets
	coOut := nets[g.Output].CO

	switch {
	case !sideSensitive(g.Kind), o.opts.ObserveAllInputs && len(g.Inputs) == 1:
		for k := range out {
			out[k] = inc(coOut)
		}
		return

	case g.Kind == netlist.KindXOR || g.Kind == netlist.KindXNOR:
		best := netlist.Unbounded
		for k := range out {
			n := &nets[g.Inputs[k]]
			best = min(best, netlist.Add(n.CC0, n.CC1))
		}
		for k := range out {
			out[k] = inc(netlist.Add(coOut, best))
		}
		return
	}

	nonControlling := func(id netlist.NetID) netlist.Metric {
		if g.Kind == netlist.KindAND || g.Kind == netlist.KindNAND {
			return nets[id].CC1
		}
		return nets[id].CC0
	}

	if !o.opts.ObserveAllInputs {
		i1 := g.Inputs[0]
		i2 := i1
		if len(g.Inputs) > 1 {
			i2 = g.Inputs[1]
		}
		out[0] = inc(netlist.Add(coOut, nonControlling(i2)))
		if len(out) > 1 {
			out[1] = inc(netlist.Add(coOut, nonControlling(i1)))
		}
		return
	}

	for k := range out {
		var side netlist.Metric
		for j, id := range g.Inputs {
			if j != k {
				side = netlist.Add(side, nonControlling(id))
			}
		}
		out[k] = inc(netlist.Add(coOut, side))
	}
}

// sideSensitive reports whether propagation through the gate depends on
// the values of its other inputs.
func sideSensitive(k netlist.GateKind) bool {
	switch k {
	case netlist.KindAND, netlist.KindNAND, netlist.KindOR, netlist.KindNOR, netlist.KindXOR, netlist.KindXNOR:
		return true
	}
	return false
}

// Run sweeps until nothing changes. It fails with NON_CONVERGENCE when the
// sweep cap is reached while values are still being lowered.
func (o *Observability) Run(ctx context.Context) (*ObservabilityResult, error) {
	start := time.Now()
	limit := o.opts.iterationCap(len(o.nl.Nets))
	res := &ObservabilityResult{}
	pending := 0

	for {
		if res.Sweeps >= limit {
			return nil, nonConverged("observability", res.Sweeps, pending)
		}
		n, err := o.Sweep(ctx)
		if err != nil {
			return nil, err
		}
		res.Sweeps++
		res.Updates += n
		pending = n
		o.logger.Debug("observability sweep", "sweep", res.Sweeps, "updates", n)
		if n == 0 {
			break
		}
	}

	for _, n := range o.nl.Nets {
		if n.CO.Bounded() || netlist.IsPlaceholder(n.Name) {
			continue
		}
		res.Unobservable = append(res.Unobservable, n.Name)
		res.Warnings = append(res.Warnings,
			errors.Warn(errors.ErrCodeUnobservable, n.Name, "no propagation path to a primary output"))
	}
	res.Duration = time.Since(start)
	return res, nil
}

// ComputeObservability runs a fresh observability relaxation on nl.
func ComputeObservability(ctx context.Context, nl *netlist.Netlist, cc *ControllabilityResult, opts Options) (*ObservabilityResult, error) {
	o, err := NewObservability(nl, cc, opts)
	if err != nil {
		return nil, err
	}
	return o.Run(ctx)
}

// Analyze runs controllability followed by observability.
func Analyze(ctx context.Context, nl *netlist.Netlist, opts Options) (*ControllabilityResult, *ObservabilityResult, error) {
	cc, err := ComputeControllability(ctx, nl, opts)
	if err != nil {
		return nil, nil, err
	}
	co, err := ComputeObservability(ctx, nl, cc, opts)
	if err != nil {
		return cc, nil, err
	}
	return cc, co, nil
}
