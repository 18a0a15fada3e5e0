package scoap

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ranaumarnadeem/opentestability/pkg/errors"
	"github.com/ranaumarnadeem/opentestability/pkg/netlist"
)

// Stats summarizes one relaxation run.
type Stats struct {
	Sweeps   int           `json:"sweeps"`
	Updates  int           `json:"updates"`
	Duration time.Duration `json:"duration"`
}

// ControllabilityResult is returned by a converged controllability run.
// Possessing one is the precondition for observability analysis.
type ControllabilityResult struct {
	Stats
	Uncontrollable []string         `json:"uncontrollable,omitempty"`
	Warnings       []errors.Warning `json:"warnings,omitempty"`
}

// Controllability relaxes CC0 and CC1 over a netlist.
//
// Each sweep reads every gate's inputs as committed by the previous sweep,
// computes all candidates, then commits those strictly smaller than the
// current value. Values therefore never increase, and gates can be
// evaluated in parallel within a sweep.
type Controllability struct {
	nl     *netlist.Netlist
	opts   Options
	logger *log.Logger

	cand0 []netlist.Metric
	cand1 []netlist.Metric
}

// NewControllability resets the netlist's CC0 and CC1 values (1 on primary
// inputs, unbounded elsewhere) and returns an engine ready to sweep.
func NewControllability(nl *netlist.Netlist, opts Options) *Controllability {
	for i := range nl.Nets {
		nl.Nets[i].CC0 = netlist.Unbounded
		nl.Nets[i].CC1 = netlist.Unbounded
	}
	for _, id := range nl.Inputs {
		nl.Nets[id].CC0 = 1
		nl.Nets[id].CC1 = 1
	}
	return &Controllability{
		nl:     nl,
		opts:   opts,
		logger: opts.logger(),
		cand0:  make([]netlist.Metric, len(nl.Gates)),
		cand1:  make([]netlist.Metric, len(nl.Gates)),
	}
}

// Sweep performs one read-all, compute-all, commit-all pass and returns
// the number of values lowered.
func (c *Controllability) Sweep(ctx context.Context) (int, error) {
	gates := c.nl.Gates
	err := forEachChunk(ctx, len(gates), c.opts.workers(), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			c.cand0[i], c.cand1[i] = c.evaluate(&gates[i])
		}
	})
	if err != nil {
		return 0, err
	}

	updates := 0
	nets := c.nl.Nets
	for i := range gates {
		out := &nets[gates[i].Output]
		if c.cand0[i] < out.CC0 {
			out.CC0 = c.cand0[i]
			updates++
		}
		if c.cand1[i] < out.CC1 {
			out.CC1 = c.cand1[i]
			updates++
		}
	}
	return updates, nil
}

// Run sweeps until nothing changes. It fails with NON_CONVERGENCE when the
// sweep cap is reached while values are still being lowered.
func (c *Controllability) Run(ctx context.Context) (*ControllabilityResult, error) {
	start := time.Now()
	limit := c.opts.iterationCap(len(c.nl.Nets))
	res := &ControllabilityResult{}
	pending := 0

	for {
		if res.Sweeps >= limit {
			return nil, nonConverged("controllability", res.Sweeps, pending)
		}
		n, err := c.Sweep(ctx)
		if err != nil {
			return nil, err
		}
		res.Sweeps++
		res.Updates += n
		pending = n
		c.logger.Debug("controllability sweep", "sweep", res.Sweeps, "updates", n)
		if n == 0 {
			break
		}
	}

	for _, n := range c.nl.Nets {
		if n.CC0.Bounded() && n.CC1.Bounded() {
			continue
		}
		res.Uncontrollable = append(res.Uncontrollable, n.Name)
		res.Warnings = append(res.Warnings,
			errors.Warn(errors.ErrCodeUncontrollable, n.Name, "CC0=%s CC1=%s after convergence", n.CC0, n.CC1))
	}
	res.Duration = time.Since(start)
	return res, nil
}

// evaluate computes the candidate (CC0, CC1) of a gate output.
func (c *Controllability) evaluate(g *netlist.Gate) (netlist.Metric, netlist.Metric) {
	nets := c.nl.Nets
	first := &nets[g.Inputs[0]]

	min0, min1 := netlist.Unbounded, netlist.Unbounded
	var sum0, sum1 netlist.Metric
	for _, id := range g.Inputs {
		n := &nets[id]
		min0 = min(min0, n.CC0)
		min1 = min(min1, n.CC1)
		sum0 = netlist.Add(sum0, n.CC0)
		sum1 = netlist.Add(sum1, n.CC1)
	}

	legacy := c.opts.Rules == RulesLegacy
	switch g.Kind {
	case netlist.KindAND:
		if legacy {
			return inc(sum0), inc(min1)
		}
		return inc(min0), inc(sum1)
	case netlist.KindNAND:
		if legacy {
			return inc(min0), inc(sum1)
		}
		return inc(sum1), inc(min0)
	case netlist.KindOR:
		if legacy {
			return inc(min0), inc(sum1)
		}
		return inc(sum0), inc(min1)
	case netlist.KindNOR:
		if legacy {
			return inc(sum1), inc(min0)
		}
		return inc(min1), inc(sum0)
	case netlist.KindXOR, netlist.KindXNOR:
		var cc0, cc1 netlist.Metric
		switch len(g.Inputs) {
		case 1:
			cc0, cc1 = inc(first.CC0), inc(first.CC1)
		case 2:
			a, b := first, &nets[g.Inputs[1]]
			cc0 = inc(min(netlist.Add(a.CC0, b.CC1), netlist.Add(a.CC1, b.CC0)))
			cc1 = inc(min(netlist.Add(a.CC0, b.CC0), netlist.Add(a.CC1, b.CC1)))
		default:
			cc0 = inc(netlist.Add(sum0, sum1))
			cc1 = cc0
		}
		if g.Kind == netlist.KindXNOR && len(g.Inputs) == 2 {
			return cc1, cc0
		}
		return cc0, cc1
	case netlist.KindNOT:
		return inc(first.CC1), inc(first.CC0)
	case netlist.KindBUF:
		return inc(first.CC0), inc(first.CC1)
	}

	if c.opts.Unknown == UnknownInvert {
		return inc(first.CC1), inc(first.CC0)
	}
	return inc(first.CC0), inc(first.CC1)
}

// ComputeControllability runs a fresh controllability relaxation on nl.
func ComputeControllability(ctx context.Context, nl *netlist.Netlist, opts Options) (*ControllabilityResult, error) {
	return NewControllability(nl, opts).Run(ctx)
}

func inc(m netlist.Metric) netlist.Metric { return netlist.Add(m, 1) }

func nonConverged(engine string, sweeps, pending int) error {
	return errors.Wrap(errors.ErrCodeNonConvergence,
		&errors.NonConvergenceError{Engine: engine, Sweeps: sweeps, Pending: pending},
		"%s relaxation exceeded %d sweeps", engine, sweeps)
}
