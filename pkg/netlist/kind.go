package netlist

import "strings"

// GateKind is the logic function of a gate, derived from its type label
// once at load time.
type GateKind uint8

const (
	KindUnknown GateKind = iota
	KindNAND
	KindAND
	KindNOR
	KindOR
	KindXNOR
	KindXOR
	KindNOT
	KindBUF
)

var kindNames = [...]string{
	KindUnknown: "UNKNOWN",
	KindNAND:    "NAND",
	KindAND:     "AND",
	KindNOR:     "NOR",
	KindOR:      "OR",
	KindXNOR:    "XNOR",
	KindXOR:     "XOR",
	KindNOT:     "NOT",
	KindBUF:     "BUF",
}

// String returns the canonical upper-case name of the kind.
func (k GateKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindUnknown]
}

// Inverting reports whether the gate output is the complement of its
// non-inverted counterpart (NAND, NOR, XNOR, NOT).
func (k GateKind) Inverting() bool {
	switch k {
	case KindNAND, KindNOR, KindXNOR, KindNOT:
		return true
	}
	return false
}

type gateToken struct {
	text string
	kind GateKind
}

// classifyOrder is the match priority. NAND precedes AND and NOR precedes
// OR because the shorter token is a substring of the longer one.
var classifyOrder = []gateToken{
	{"NAND", KindNAND},
	{"AND", KindAND},
	{"NOR", KindNOR},
	{"OR", KindOR},
	{"XNOR", KindXNOR},
	{"XOR", KindXOR},
	{"INV", KindNOT},
	{"NOT", KindNOT},
	{"BUF", KindBUF},
}

// ClassifyGate maps a cell type label to its GateKind.
//
// The label is upper-cased and searched for gate tokens in priority order
// NAND, AND, NOR, OR, XNOR, XOR, INV/NOT, BUF. An occurrence that lies
// inside a longer gate token does not count, so "OR" inside "XOR" and
// "NOR" inside "XNOR" are skipped. Labels matching nothing are
// KindUnknown.
func ClassifyGate(typ string) GateKind {
	upper := strings.ToUpper(typ)
	for _, tok := range classifyOrder {
		for from := 0; ; {
			i := strings.Index(upper[from:], tok.text)
			if i < 0 {
				break
			}
			i += from
			if !embedded(upper, i, tok.text) {
				return tok.kind
			}
			from = i + 1
		}
	}
	return KindUnknown
}

// embedded reports whether the occurrence of tok at s[i:] is part of a
// longer gate token.
func embedded(s string, i int, tok string) bool {
	for _, other := range classifyOrder {
		n := len(other.text)
		if n <= len(tok) || !strings.Contains(other.text, tok) {
			continue
		}
		for j := max(0, i+len(tok)-n); j <= i; j++ {
			if j+n <= len(s) && s[j:j+n] == other.text {
				return true
			}
		}
	}
	return false
}
