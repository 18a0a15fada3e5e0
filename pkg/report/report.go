// Package report defines the serializable result of a testability
// analysis and renders it as Markdown.
//
// A [Report] is what the pipeline caches, the API returns and the store
// persists. It holds per-net SCOAP metrics, the dependency graph with its
// isolated nets, reconvergence sites and every warning raised on the way.
package report

import (
	"slices"
	"time"

	"github.com/ranaumarnadeem/opentestability/pkg/dag"
	"github.com/ranaumarnadeem/opentestability/pkg/errors"
	"github.com/ranaumarnadeem/opentestability/pkg/graph"
	"github.com/ranaumarnadeem/opentestability/pkg/netlist"
	"github.com/ranaumarnadeem/opentestability/pkg/reconv"
)

// NetMetrics is one net's SCOAP triple.
type NetMetrics struct {
	Name string         `json:"name"`
	Role netlist.Role   `json:"role"`
	CC0  netlist.Metric `json:"cc0"`
	CC1  netlist.Metric `json:"cc1"`
	CO   netlist.Metric `json:"co"`
}

// Summary holds headline counts.
type Summary struct {
	Nets           int `json:"nets"`
	Gates          int `json:"gates"`
	Inputs         int `json:"inputs"`
	Outputs        int `json:"outputs"`
	Edges          int `json:"edges"`
	Isolated       int `json:"isolated"`
	Sites          int `json:"reconvergence_sites"`
	BrokenEdges    int `json:"broken_edges"`
	Uncontrollable int `json:"uncontrollable"`
	Unobservable   int `json:"unobservable"`

	ControllabilitySweeps int `json:"controllability_sweeps"`
	ObservabilitySweeps   int `json:"observability_sweeps"`
}

// Report is the complete, format-agnostic analysis result.
type Report struct {
	Design      string           `json:"design,omitempty"`
	GeneratedAt time.Time        `json:"generated_at"`
	Summary     Summary          `json:"summary"`
	GateKinds   map[string]int   `json:"gate_kinds,omitempty"`
	Nets        []NetMetrics     `json:"nets"`
	Graph       graph.Graph      `json:"graph"`
	Sites       []reconv.Site    `json:"reconvergence"`
	BrokenEdges []graph.Edge     `json:"broken_edges,omitempty"`
	Warnings    []errors.Warning `json:"warnings,omitempty"`
}

// Metrics copies the SCOAP values of every net in nl, in net order.
func Metrics(nl *netlist.Netlist) []NetMetrics {
	out := make([]NetMetrics, len(nl.Nets))
	for i, n := range nl.Nets {
		out[i] = NetMetrics{Name: n.Name, Role: n.Role, CC0: n.CC0, CC1: n.CC1, CO: n.CO}
	}
	return out
}

// GateKinds counts gates per classified kind.
func GateKinds(nl *netlist.Netlist) map[string]int {
	counts := make(map[string]int)
	for _, g := range nl.Gates {
		counts[g.Kind.String()]++
	}
	return counts
}

// Edges converts DAG edges to their serialized form.
func Edges(es []dag.Edge) []graph.Edge {
	if len(es) == 0 {
		return nil
	}
	out := make([]graph.Edge, len(es))
	for i, e := range es {
		out[i] = graph.Edge{From: e.From, To: e.To}
	}
	return out
}

// Summarize fills r.Summary from the other fields. Sweep counts are left
// as they are.
func (r *Report) Summarize() {
	s := &r.Summary
	s.Nets = len(r.Nets)
	s.Edges = len(r.Graph.Edges)
	s.Isolated = len(r.Graph.Isolated)
	s.Sites = len(r.Sites)
	s.BrokenEdges = len(r.BrokenEdges)
	s.Inputs, s.Outputs, s.Uncontrollable, s.Unobservable = 0, 0, 0, 0
	for _, n := range r.Nets {
		if n.Role.IsInput() {
			s.Inputs++
		}
		if n.Role.IsOutput() {
			s.Outputs++
		}
		if !n.CC0.Bounded() || !n.CC1.Bounded() {
			s.Uncontrollable++
		}
		if !n.CO.Bounded() {
			s.Unobservable++
		}
	}
	s.Gates = 0
	for _, c := range r.GateKinds {
		s.Gates += c
	}
}

// Net returns the metrics of the named net.
func (r *Report) Net(name string) (NetMetrics, bool) {
	i := slices.IndexFunc(r.Nets, func(n NetMetrics) bool { return n.Name == name })
	if i < 0 {
		return NetMetrics{}, false
	}
	return r.Nets[i], true
}

// Hardest returns up to n nets ordered by descending cost, as picked by
// key. Unbounded costs sort first; ties keep net order.
func (r *Report) Hardest(n int, key func(NetMetrics) netlist.Metric) []NetMetrics {
	out := slices.Clone(r.Nets)
	slices.SortStableFunc(out, func(a, b NetMetrics) int {
		ka, kb := key(a), key(b)
		switch {
		case ka > kb:
			return -1
		case ka < kb:
			return 1
		}
		return 0
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Controllability is the Hardest key for the costlier of CC0 and CC1.
func Controllability(m NetMetrics) netlist.Metric { return max(m.CC0, m.CC1) }

// Observability is the Hardest key for CO.
func Observability(m NetMetrics) netlist.Metric { return m.CO }
