package netlist

import (
	"slices"
	"testing"

	"github.com/ranaumarnadeem/opentestability/pkg/errors"
)

func andDesign() Input {
	return Input{
		PrimaryInputs:  []string{"a", "b"},
		PrimaryOutputs: []string{"o"},
		Gates: []GateRecord{
			{Type: "AND2", Output: "o", Inputs: []string{"a", "b"}},
		},
	}
}

func TestLoad_Basic(t *testing.T) {
	nl, err := Load(andDesign())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := nl.AllNets(); !slices.Equal(got, []string{"a", "b", "o"}) {
		t.Errorf("AllNets() = %v, want [a b o]", got)
	}
	if len(nl.Gates) != 1 || nl.Gates[0].Kind != KindAND {
		t.Fatalf("Gates = %+v, want one AND gate", nl.Gates)
	}
	if !nl.Net("a").Role.IsInput() || !nl.Net("o").Role.IsOutput() {
		t.Error("boundary roles not assigned")
	}
	if nl.Net("o").CC0 != Unbounded || nl.Net("a").CO != Unbounded {
		t.Error("metrics should start unbounded")
	}
	if len(nl.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", nl.Warnings)
	}
	if g, ok := nl.Driver(nl.index["o"]); !ok || g != 0 {
		t.Errorf("Driver(o) = %d, %v, want 0, true", g, ok)
	}
}

func TestLoad_ExpandsVectors(t *testing.T) {
	nl, err := Load(Input{
		PrimaryInputs:  []string{"d[1:0]"},
		PrimaryOutputs: []string{"y"},
		Gates: []GateRecord{
			{Type: "OR", Output: "y", Inputs: []string{"d[1:0]"}},
		},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := nl.Names(nl.Inputs); !slices.Equal(got, []string{"d[1]", "d[0]"}) {
		t.Errorf("Inputs = %v, want [d[1] d[0]]", got)
	}
	if n := len(nl.Gates[0].Inputs); n != 2 {
		t.Errorf("gate inputs = %d, want 2", n)
	}
}

func TestLoad_FormatErrors(t *testing.T) {
	tests := []struct {
		name string
		in   Input
	}{
		{
			name: "missing output",
			in:   Input{Gates: []GateRecord{{Type: "AND", Inputs: []string{"a"}}}},
		},
		{
			name: "missing inputs",
			in:   Input{Gates: []GateRecord{{Type: "AND", Output: "o"}}},
		},
		{
			name: "bad range",
			in:   Input{PrimaryInputs: []string{"a[3:x]"}},
		},
		{
			name: "multi-bit output",
			in:   Input{Gates: []GateRecord{{Type: "BUF", Output: "o[1:0]", Inputs: []string{"a"}}}},
		},
		{
			name: "output collision",
			in: Input{Gates: []GateRecord{
				{Type: "BUF", Output: "o", Inputs: []string{"a"}},
				{Type: "INV", Output: "o", Inputs: []string{"b"}},
			}},
		},
		{
			name: "bad gate type",
			in:   Input{Gates: []GateRecord{{Type: "", Output: "o", Inputs: []string{"a"}}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.in)
			if !errors.Is(err, errors.ErrCodeFormat) {
				t.Errorf("Load() error = %v, want FORMAT_ERROR", err)
			}
		})
	}
}

func TestLoad_PlaceholderCollisionAllowed(t *testing.T) {
	_, err := Load(Input{
		PrimaryInputs: []string{"a"},
		Gates: []GateRecord{
			{Type: "BUF", Output: "UNCONNECTED0", Inputs: []string{"a"}},
			{Type: "BUF", Output: "UNCONNECTED0", Inputs: []string{"a"}},
		},
	})
	if err != nil {
		t.Errorf("Load() error = %v, want nil", err)
	}
}

func TestLoad_UndefinedNetWarning(t *testing.T) {
	nl, err := Load(Input{
		PrimaryInputs:  []string{"a"},
		PrimaryOutputs: []string{"o"},
		Wires:          []string{"w"},
		Gates: []GateRecord{
			{Type: "AND", Output: "o", Inputs: []string{"a", "ghost", "w", "ghost"}},
		},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(nl.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want 1", nl.Warnings)
	}
	w := nl.Warnings[0]
	if w.Code != errors.ErrCodeUndefinedNet || w.Subject != "ghost" {
		t.Errorf("Warning = %v, want UNDEFINED_NET for ghost", w)
	}
	if nl.Net("ghost").CC1 != Unbounded {
		t.Error("undefined net should stay unbounded")
	}
}

func TestFanoutMap_Derived(t *testing.T) {
	nl, err := Load(Input{
		PrimaryInputs:  []string{"x", "a"},
		PrimaryOutputs: []string{"o"},
		Gates: []GateRecord{
			{Type: "AND", Output: "g1", Inputs: []string{"x", "a"}},
			{Type: "OR", Output: "g2", Inputs: []string{"x", "x"}},
			{Type: "NAND", Output: "o", Inputs: []string{"g1", "g2"}},
		},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	fo := nl.FanoutMap()
	if got := fo["x"]; !slices.Equal(got, []string{"g1", "g2"}) {
		t.Errorf("FanoutMap()[x] = %v, want [g1 g2]", got)
	}
	if got := fo["g1"]; !slices.Equal(got, []string{"o"}) {
		t.Errorf("FanoutMap()[g1] = %v, want [o]", got)
	}
	if nl.ExplicitFanout() {
		t.Error("ExplicitFanout() = true, want false")
	}
}

func TestFanoutMap_Explicit(t *testing.T) {
	in := andDesign()
	in.Fanout = map[string][]string{"a": {"o", "spare"}}
	nl, err := Load(in)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !nl.ExplicitFanout() {
		t.Error("ExplicitFanout() = false, want true")
	}
	fo := nl.FanoutMap()
	if got := fo["a"]; !slices.Equal(got, []string{"o", "spare"}) {
		t.Errorf("FanoutMap()[a] = %v, want [o spare]", got)
	}
	if _, ok := fo["b"]; ok {
		t.Error("explicit table should not be extended with derived entries")
	}
	if !slices.Contains(nl.AllNets(), "spare") {
		t.Error("AllNets() should include fan-out table nets")
	}
}

func TestIsPlaceholder(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"UNCONNECTED", true},
		{"UNCONNECTED12", true},
		{"n12", false},
		{"unconnected", false},
	}
	for _, tt := range tests {
		if got := IsPlaceholder(tt.name); got != tt.want {
			t.Errorf("IsPlaceholder(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
