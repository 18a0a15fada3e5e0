package io

import (
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ranaumarnadeem/opentestability/pkg/errors"
	"github.com/ranaumarnadeem/opentestability/pkg/netlist"
)

// benchLexer tokenizes one line of an ISCAS .bench file.
var benchLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "Punct", Pattern: `[(),=]`},
	{Name: "Ident", Pattern: `[^\s(),=#]+`},
})

type benchLine struct {
	Decl *benchDecl `  @@`
	Gate *benchGate `| @@`
}

// benchDecl is INPUT(net) or OUTPUT(net).
type benchDecl struct {
	Keyword string `@("INPUT" | "OUTPUT")`
	Net     string `"(" @Ident ")"`
}

// benchGate is "out = TYPE(a, b, ...)".
type benchGate struct {
	Output string   `@Ident "="`
	Type   string   `@Ident`
	Inputs []string `"(" (@Ident ("," @Ident)*)? ")"`
}

var benchParser = participle.MustBuild[benchLine](
	participle.Lexer(benchLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.CaseInsensitive("Ident"),
	participle.UseLookahead(2),
)

// ReadBench reads an ISCAS-85/89 .bench netlist.
//
// Sequential elements such as DFF load as gates of unknown kind, so a
// flip-flop feedback loop shows up as a cycle in the dependency graph.
// Malformed lines are skipped with a FORMAT_ERROR warning.
func ReadBench(r io.Reader) (netlist.Input, []errors.Warning, error) {
	var (
		in       netlist.Input
		warnings []errors.Warning
	)
	err := eachLine(r, func(n int, text string) {
		if text[0] == '#' {
			return
		}
		line, err := benchParser.ParseString("", text)
		if err != nil {
			warnings = append(warnings, lineWarning(n, err))
			return
		}
		switch {
		case line.Decl != nil && strings.EqualFold(line.Decl.Keyword, "OUTPUT"):
			in.PrimaryOutputs = append(in.PrimaryOutputs, line.Decl.Net)
		case line.Decl != nil:
			in.PrimaryInputs = append(in.PrimaryInputs, line.Decl.Net)
		case len(line.Gate.Inputs) == 0:
			warnings = append(warnings,
				errors.Warn(errors.ErrCodeFormat, lineSubject(n), "gate %s has no inputs", line.Gate.Output))
		default:
			in.Gates = append(in.Gates, netlist.GateRecord{
				Type:   line.Gate.Type,
				Output: line.Gate.Output,
				Inputs: line.Gate.Inputs,
			})
		}
	})
	if err != nil {
		return netlist.Input{}, nil, err
	}
	return in, warnings, nil
}
