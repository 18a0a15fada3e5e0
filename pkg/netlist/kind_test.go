package netlist

import "testing"

func TestClassifyGate(t *testing.T) {
	tests := []struct {
		typ  string
		want GateKind
	}{
		{"NAND", KindNAND},
		{"NAND2_X1", KindNAND},
		{"sky130_fd_sc_hd__nand3_1", KindNAND},
		{"AND", KindAND},
		{"AND4", KindAND},
		{"and2", KindAND},
		{"NOR", KindNOR},
		{"NOR2_X2", KindNOR},
		{"OR", KindOR},
		{"OR3", KindOR},
		{"XNOR", KindXNOR},
		{"XNOR2_X1", KindXNOR},
		{"XOR", KindXOR},
		{"xor2", KindXOR},
		{"INV", KindNOT},
		{"INV_X1", KindNOT},
		{"NOT", KindNOT},
		{"BUF", KindBUF},
		{"CLKBUF_X2", KindBUF},
		{"DFF", KindUnknown},
		{"MUX2", KindUnknown},
		{"AOI21", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			if got := ClassifyGate(tt.typ); got != tt.want {
				t.Errorf("ClassifyGate(%q) = %v, want %v", tt.typ, got, tt.want)
			}
		})
	}
}

func TestClassifyGate_Priority(t *testing.T) {
	// Independent tokens resolve by priority order, not position.
	tests := []struct {
		typ  string
		want GateKind
	}{
		{"OR_NAND", KindNAND},
		{"BUF_AND", KindAND},
		{"XOR_NOR", KindNOR},
		{"INV_XOR", KindXOR},
	}

	for _, tt := range tests {
		if got := ClassifyGate(tt.typ); got != tt.want {
			t.Errorf("ClassifyGate(%q) = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestClassifyGate_Idempotent(t *testing.T) {
	for k := KindUnknown; k <= KindBUF; k++ {
		if got := ClassifyGate(k.String()); got != k {
			t.Errorf("ClassifyGate(%q) = %v, want %v", k.String(), got, k)
		}
		if ClassifyGate(k.String()) != ClassifyGate(k.String()) {
			t.Errorf("ClassifyGate(%q) is not stable", k.String())
		}
	}
}

func TestGateKind_Inverting(t *testing.T) {
	inverting := map[GateKind]bool{KindNAND: true, KindNOR: true, KindXNOR: true, KindNOT: true}
	for k := KindUnknown; k <= KindBUF; k++ {
		if got := k.Inverting(); got != inverting[k] {
			t.Errorf("%v.Inverting() = %v, want %v", k, got, inverting[k])
		}
	}
}
