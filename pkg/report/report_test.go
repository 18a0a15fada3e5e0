package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ranaumarnadeem/opentestability/pkg/errors"
	"github.com/ranaumarnadeem/opentestability/pkg/graph"
	"github.com/ranaumarnadeem/opentestability/pkg/netlist"
	"github.com/ranaumarnadeem/opentestability/pkg/reconv"
)

func sample() *Report {
	r := &Report{
		Design:      "c17",
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		GateKinds:   map[string]int{"NAND": 2, "NOT": 1},
		Nets: []NetMetrics{
			{Name: "a", Role: netlist.RoleInput, CC0: 1, CC1: 1, CO: 3},
			{Name: "n1", CC0: 3, CC1: 2, CO: 2},
			{Name: "dead", CC0: netlist.Unbounded, CC1: netlist.Unbounded, CO: netlist.Unbounded},
			{Name: "y", Role: netlist.RoleOutput, CC0: 3, CC1: 4, CO: 1},
		},
		Graph: graph.Graph{
			Edges:    []graph.Edge{{From: "a", To: "n1"}, {From: "n1", To: "y"}},
			Isolated: []string{"dead"},
		},
		Sites: []reconv.Site{{
			Kind: reconv.KindStem, Site: "y", Origin1: "a", Origin2: "a",
			Path1: []string{"a", "n1", "y"}, Path2: []string{"a", "y"},
		}},
		BrokenEdges: []graph.Edge{{From: "y", To: "a"}},
		Warnings: []errors.Warning{
			errors.Warn(errors.ErrCodeUndefinedNet, "dead", "net is neither a primary input nor driven by any gate"),
		},
	}
	r.Summarize()
	return r
}

func TestSummarize(t *testing.T) {
	s := sample().Summary
	want := Summary{
		Nets: 4, Gates: 3, Inputs: 1, Outputs: 1, Edges: 2, Isolated: 1,
		Sites: 1, BrokenEdges: 1, Uncontrollable: 1, Unobservable: 1,
	}
	if s != want {
		t.Errorf("Summary = %+v, want %+v", s, want)
	}
}

func TestHardest(t *testing.T) {
	r := sample()

	tests := []struct {
		name string
		key  func(NetMetrics) netlist.Metric
		n    int
		want []string
	}{
		{"controllability", Controllability, 3, []string{"dead", "y", "n1"}},
		{"observability", Observability, 2, []string{"dead", "a"}},
		{"all", Observability, -1, []string{"dead", "a", "n1", "y"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Hardest(tt.n, tt.key)
			var names []string
			for _, n := range got {
				names = append(names, n.Name)
			}
			if strings.Join(names, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Hardest(%d) = %v, want %v", tt.n, names, tt.want)
			}
		})
	}
}

func TestNet(t *testing.T) {
	r := sample()
	if n, ok := r.Net("n1"); !ok || n.CC1 != 2 {
		t.Errorf("Net(n1) = %+v, %v", n, ok)
	}
	if _, ok := r.Net("missing"); ok {
		t.Error("Net(missing) found")
	}
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMarkdown(&buf, sample(), Options{Top: 2}); err != nil {
		t.Fatalf("WriteMarkdown: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Testability Report: c17",
		"## Hardest to Control",
		"## Hardest to Observe",
		"## Reconvergent Fan-out",
		"a → n1 → y",
		"## Broken Edges",
		"## Isolated Nets",
		"UNDEFINED_NET",
		"unbounded",
		"mermaid",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestWriteMarkdownEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMarkdown(&buf, &Report{}, Options{}); err != nil {
		t.Fatalf("WriteMarkdown: %v", err)
	}
	if !strings.Contains(buf.String(), "No reconvergence sites found.") {
		t.Errorf("empty report output:\n%s", buf.String())
	}
}
