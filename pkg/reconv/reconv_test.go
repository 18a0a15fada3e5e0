package reconv

import (
	"context"
	"fmt"
	"slices"
	"testing"

	"github.com/ranaumarnadeem/opentestability/pkg/dag"
	"github.com/ranaumarnadeem/opentestability/pkg/errors"
)

// build creates a graph from "from->to" edge strings, adding nodes in
// first-seen order.
func build(t *testing.T, edges ...string) *dag.DAG {
	t.Helper()
	g := dag.New(nil)
	add := func(id string) {
		if _, ok := g.Node(id); !ok {
			if err := g.AddNode(dag.Node{ID: id}); err != nil {
				t.Fatalf("AddNode(%s): %v", id, err)
			}
		}
	}
	for _, e := range edges {
		var from, to string
		if _, err := fmt.Sscanf(e, "%s -> %s", &from, &to); err != nil {
			t.Fatalf("bad edge %q: %v", e, err)
		}
		add(from)
		add(to)
		if err := g.AddEdge(dag.Edge{From: from, To: to}); err != nil {
			t.Fatalf("AddEdge(%s): %v", e, err)
		}
	}
	return g
}

func detect(t *testing.T, g *dag.DAG, depth int) *Result {
	t.Helper()
	res, err := Detect(context.Background(), g, Options{MaxDepth: depth})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	return res
}

func TestDetectSingleStem(t *testing.T) {
	g := build(t, "X -> G1", "X -> G2", "G1 -> O", "G2 -> O")
	res := detect(t, g, DefaultMaxDepth)

	if len(res.Sites) != 1 {
		t.Fatalf("len(Sites) = %d, want 1: %+v", len(res.Sites), res.Sites)
	}
	s := res.Sites[0]
	if s.Kind != KindStem || s.Site != "O" || s.Origin1 != "X" || s.Origin2 != "X" {
		t.Errorf("Site = %+v, want stem X at O", s)
	}
	if !slices.Equal(s.Path1, []string{"X", "G1", "O"}) {
		t.Errorf("Path1 = %v, want [X G1 O]", s.Path1)
	}
	if !slices.Equal(s.Path2, []string{"X", "G2", "O"}) {
		t.Errorf("Path2 = %v, want [X G2 O]", s.Path2)
	}
	if len(res.BrokenEdges) != 0 || len(res.Warnings) != 0 {
		t.Errorf("unexpected cycle handling: %v %v", res.BrokenEdges, res.Warnings)
	}
}

func TestDetectPair(t *testing.T) {
	g := build(t,
		"A -> a1", "A -> x",
		"B -> b1", "B -> y",
		"a1 -> S", "b1 -> S",
	)
	res := detect(t, g, DefaultMaxDepth)

	if len(res.Sites) != 1 {
		t.Fatalf("len(Sites) = %d, want 1: %+v", len(res.Sites), res.Sites)
	}
	s := res.Sites[0]
	if s.Kind != KindPair || s.Site != "S" || s.Origin1 != "A" || s.Origin2 != "B" {
		t.Errorf("Site = %+v, want pair A,B at S", s)
	}
	if !slices.Equal(s.Path1, []string{"A", "a1", "S"}) || !slices.Equal(s.Path2, []string{"B", "b1", "S"}) {
		t.Errorf("paths = %v, %v", s.Path1, s.Path2)
	}
}

func TestDetectNoFanout(t *testing.T) {
	g := build(t, "a -> g", "b -> g", "g -> y")
	if res := detect(t, g, DefaultMaxDepth); len(res.Sites) != 0 {
		t.Errorf("Sites = %+v, want none", res.Sites)
	}
}

func TestDetectDepthBound(t *testing.T) {
	edges := []string{"X -> G1", "G1 -> H1", "H1 -> O", "X -> G2", "G2 -> O"}

	tests := []struct {
		depth int
		want  int
	}{
		{1, 0},
		{2, 0},
		{3, 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.depth), func(t *testing.T) {
			res := detect(t, build(t, edges...), tt.depth)
			if len(res.Sites) != tt.want {
				t.Errorf("MaxDepth %d: len(Sites) = %d, want %d", tt.depth, len(res.Sites), tt.want)
			}
		})
	}

	res := detect(t, build(t, edges...), 3)
	if got := res.Sites[0].Path1; !slices.Equal(got, []string{"X", "G1", "H1", "O"}) {
		t.Errorf("Path1 = %v, want [X G1 H1 O]", got)
	}
}

func TestDetectSharedInteriorRejected(t *testing.T) {
	// Both branches of X meet at m and share m -> n on the way to O.
	g := build(t, "X -> p", "X -> q", "p -> m", "q -> m", "m -> n", "n -> O", "k -> O")
	res := detect(t, g, DefaultMaxDepth)

	if len(res.Sites) != 1 || res.Sites[0].Site != "m" {
		t.Errorf("Sites = %+v, want one record at m", res.Sites)
	}
}

func TestDetectOriginOnOtherPath(t *testing.T) {
	// p is a fan-out point downstream of X; X reaches m only through p.
	g := build(t, "X -> p", "X -> z", "p -> m", "p -> w", "r -> m")
	res := detect(t, g, DefaultMaxDepth)

	if len(res.Sites) != 1 {
		t.Fatalf("len(Sites) = %d, want 1: %+v", len(res.Sites), res.Sites)
	}
	s := res.Sites[0]
	if s.Kind != KindPair || s.Site != "m" || s.Origin1 != "X" || s.Origin2 != "p" {
		t.Errorf("Site = %+v, want pair X,p at m", s)
	}
	if !slices.Equal(s.Path1, []string{"X", "p", "m"}) || !slices.Equal(s.Path2, []string{"p", "m"}) {
		t.Errorf("paths = %v, %v", s.Path1, s.Path2)
	}
}

func TestDetectPairThroughOtherOrigin(t *testing.T) {
	g := build(t, "A -> B", "A -> x", "B -> S", "B -> y", "x -> S")
	res := detect(t, g, DefaultMaxDepth)

	var stems, pairs []Site
	for _, s := range res.Sites {
		switch s.Kind {
		case KindStem:
			stems = append(stems, s)
		case KindPair:
			pairs = append(pairs, s)
		}
	}
	if len(stems) != 1 || stems[0].Origin1 != "A" || stems[0].Site != "S" {
		t.Errorf("stems = %+v, want one stem A at S", stems)
	}
	if len(pairs) != 1 {
		t.Fatalf("pairs = %+v, want one pair A,B at S", pairs)
	}
	p := pairs[0]
	if p.Site != "S" || p.Origin1 != "A" || p.Origin2 != "B" {
		t.Errorf("pair = %+v, want A,B at S", p)
	}
	if !slices.Equal(p.Path1, []string{"A", "B", "S"}) || !slices.Equal(p.Path2, []string{"B", "S"}) {
		t.Errorf("paths = %v, %v", p.Path1, p.Path2)
	}
}

func TestDetectBreaksCycles(t *testing.T) {
	g := build(t, "X -> G1", "X -> G2", "G1 -> O", "G2 -> O", "O -> X")
	res := detect(t, g, DefaultMaxDepth)

	want := []dag.Edge{{From: "O", To: "X"}}
	if len(res.BrokenEdges) != 1 || res.BrokenEdges[0].From != want[0].From || res.BrokenEdges[0].To != want[0].To {
		t.Errorf("BrokenEdges = %v, want %v", res.BrokenEdges, want)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Code != errors.ErrCodeCycleDetected {
		t.Errorf("Warnings = %v, want one CYCLE_DETECTED", res.Warnings)
	}
	if len(res.Sites) != 1 {
		t.Errorf("len(Sites) = %d, want 1", len(res.Sites))
	}
	if !g.HasEdge("O", "X") {
		t.Error("Detect modified the caller's graph")
	}
}

func TestDetectInvalidDepth(t *testing.T) {
	g := build(t, "a -> b")
	for _, d := range []int{0, -1} {
		_, err := Detect(context.Background(), g, Options{MaxDepth: d})
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Detect(MaxDepth=%d) error = %v, want INVALID_INPUT", d, err)
		}
	}
}

func TestDetectDeterministic(t *testing.T) {
	var edges []string
	for i := range 12 {
		edges = append(edges,
			fmt.Sprintf("s%d -> g%d", i, i),
			fmt.Sprintf("s%d -> g%d", i, i+1),
			fmt.Sprintf("g%d -> o", i),
		)
	}
	first := detect(t, build(t, edges...), DefaultMaxDepth)
	for _, workers := range []int{1, 3, 8} {
		res, err := Detect(context.Background(), build(t, edges...), Options{MaxDepth: DefaultMaxDepth, Workers: workers})
		if err != nil {
			t.Fatalf("Detect: %v", err)
		}
		if len(res.Sites) != len(first.Sites) {
			t.Fatalf("workers=%d: len(Sites) = %d, want %d", workers, len(res.Sites), len(first.Sites))
		}
		for i := range res.Sites {
			a, b := res.Sites[i], first.Sites[i]
			if a.Site != b.Site || a.Origin1 != b.Origin1 || a.Origin2 != b.Origin2 || !slices.Equal(a.Path1, b.Path1) {
				t.Errorf("workers=%d: Sites[%d] = %+v, want %+v", workers, i, a, b)
			}
		}
	}
}

func TestDetectCanceled(t *testing.T) {
	g := build(t, "X -> G1", "X -> G2", "G1 -> O", "G2 -> O")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Detect(ctx, g, Options{MaxDepth: 4}); err == nil {
		t.Error("Detect(canceled) succeeded, want error")
	}
}

func TestDisjoint(t *testing.T) {
	tests := []struct {
		p1, p2 []string
		want   bool
	}{
		{[]string{"a", "x", "s"}, []string{"b", "y", "s"}, true},
		{[]string{"a", "m", "s"}, []string{"b", "m", "s"}, false},
		{[]string{"a", "s"}, []string{"b", "s"}, true},
		{[]string{"a", "b", "s"}, []string{"b", "s"}, true},
	}
	for _, tt := range tests {
		if got := disjoint(tt.p1, tt.p2, tt.p1[0], tt.p2[0], "s"); got != tt.want {
			t.Errorf("disjoint(%v, %v) = %v, want %v", tt.p1, tt.p2, got, tt.want)
		}
	}
}
