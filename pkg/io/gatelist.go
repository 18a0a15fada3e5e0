package io

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ranaumarnadeem/opentestability/pkg/errors"
	"github.com/ranaumarnadeem/opentestability/pkg/netlist"
)

// gateListLexer tokenizes one line of the gate-list format.
var gateListLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Name", Pattern: `[^\s()#]+`},
})

type gateListLine struct {
	Decl *declLine `  @@`
	Gate *gateLine `| @@`
	Bare []string  `| @Name+`
}

// declLine is INPUT, OUTPUT, WIRE or FANOUT followed by names.
type declLine struct {
	Keyword string   `@("INPUT" | "OUTPUT" | "WIRE" | "FANOUT")`
	Names   []string `@Name*`
}

// gateLine is "TYPE out(o ...) in(a b ...)".
type gateLine struct {
	Type    string   `@Name`
	Outputs []string `"out" "(" @Name* ")"`
	Inputs  []string `"in" "(" @Name* ")"`
}

var gateListParser = participle.MustBuild[gateListLine](
	participle.Lexer(gateListLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.UseLookahead(2),
)

// noneNet is written by netlist extractors for an empty port list.
const noneNet = "NONE"

type section int

const (
	sectionNone section = iota
	sectionInputs
	sectionOutputs
)

// ReadGateList reads the line-oriented gate-list format:
//
//	# Primary Inputs
//	a b
//	# Primary Outputs
//	y
//	NAND2_X1 out(n1) in(a b)
//	INV_X1 out(y UNCONNECTED3) in(n1)
//	INPUT c
//	OUTPUT z
//	WIRE spare
//	FANOUT a n1 n2
//
// Lines starting with # are comments, except the "Primary Inputs" and
// "Primary Outputs" headers, which make the following bare name lines
// declare boundary nets. Any other header ends such a section.
//
// A gate listing several outputs drops its placeholder outputs and becomes
// one record per remaining output. A gate with no usable output is kept
// with a placeholder output. The name NONE in a port list means empty.
//
// Malformed lines are skipped with a FORMAT_ERROR warning. The returned
// error reports read failures only.
func ReadGateList(r io.Reader) (netlist.Input, []errors.Warning, error) {
	var (
		in       netlist.Input
		warnings []errors.Warning
		sect     section
		unnamed  int
	)

	err := eachLine(r, func(n int, text string) {
		if strings.HasPrefix(text, "#") {
			sect = parseHeader(text)
			return
		}

		line, err := gateListParser.ParseString("", text)
		if err != nil {
			warnings = append(warnings, lineWarning(n, err))
			return
		}

		switch {
		case line.Decl != nil:
			warnings = append(warnings, applyDecl(&in, n, line.Decl)...)
		case line.Gate != nil:
			recs, w := gateRecords(n, line.Gate, &unnamed)
			in.Gates = append(in.Gates, recs...)
			warnings = append(warnings, w...)
		default:
			switch sect {
			case sectionInputs:
				in.PrimaryInputs = append(in.PrimaryInputs, line.Bare...)
			case sectionOutputs:
				in.PrimaryOutputs = append(in.PrimaryOutputs, line.Bare...)
			default:
				warnings = append(warnings,
					errors.Warn(errors.ErrCodeFormat, lineSubject(n), "bare names outside a Primary Inputs or Primary Outputs section"))
			}
		}
	})
	if err != nil {
		return netlist.Input{}, nil, err
	}
	return in, warnings, nil
}

func parseHeader(text string) section {
	h := strings.ToLower(strings.TrimSpace(strings.TrimLeft(text, "#")))
	switch h {
	case "primary inputs":
		return sectionInputs
	case "primary outputs":
		return sectionOutputs
	}
	return sectionNone
}

func applyDecl(in *netlist.Input, n int, d *declLine) []errors.Warning {
	names := withoutNone(d.Names)
	switch d.Keyword {
	case "INPUT":
		in.PrimaryInputs = append(in.PrimaryInputs, names...)
	case "OUTPUT":
		in.PrimaryOutputs = append(in.PrimaryOutputs, names...)
	case "WIRE":
		in.Wires = append(in.Wires, names...)
	case "FANOUT":
		if len(names) < 2 {
			return []errors.Warning{errors.Warn(errors.ErrCodeFormat, lineSubject(n), "FANOUT needs a net and at least one destination")}
		}
		if in.Fanout == nil {
			in.Fanout = make(map[string][]string)
		}
		in.Fanout[names[0]] = append(in.Fanout[names[0]], names[1:]...)
	}
	return nil
}

func gateRecords(n int, g *gateLine, unnamed *int) ([]netlist.GateRecord, []errors.Warning) {
	inputs := withoutNone(g.Inputs)
	if len(inputs) == 0 {
		return nil, []errors.Warning{errors.Warn(errors.ErrCodeFormat, lineSubject(n), "gate %s has no inputs", g.Type)}
	}

	var outs, placeholders []string
	for _, o := range withoutNone(g.Outputs) {
		if netlist.IsPlaceholder(o) {
			placeholders = append(placeholders, o)
		} else {
			outs = append(outs, o)
		}
	}
	if len(outs) == 0 {
		if len(placeholders) > 0 {
			outs = placeholders[:1]
		} else {
			outs = []string{fmt.Sprintf("%s_L%d_%d", netlist.PlaceholderPrefix, n, *unnamed)}
			*unnamed++
		}
	}

	recs := make([]netlist.GateRecord, len(outs))
	for i, o := range outs {
		recs[i] = netlist.GateRecord{Type: g.Type, Output: o, Inputs: inputs}
	}
	return recs, nil
}

func withoutNone(names []string) []string {
	out := names[:0:0]
	for _, s := range names {
		if s != noneNet {
			out = append(out, s)
		}
	}
	return out
}
