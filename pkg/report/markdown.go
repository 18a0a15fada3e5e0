package report

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/ranaumarnadeem/opentestability/pkg/errors"
)

// DefaultTop is the number of nets listed in each "hardest" table.
const DefaultTop = 10

// Options configures WriteMarkdown.
type Options struct {
	Top int // Rows in the hardest-net tables; zero means DefaultTop
}

// WriteMarkdown writes r as a Markdown document.
func WriteMarkdown(w io.Writer, r *Report, opts Options) error {
	top := opts.Top
	if top <= 0 {
		top = DefaultTop
	}

	md := markdown.NewMarkdown(w)
	writeHeader(md, r)
	writeGateKinds(md, r)
	writeHardest(md, "Hardest to Control", r.Hardest(top, Controllability))
	writeHardest(md, "Hardest to Observe", r.Hardest(top, Observability))
	writeSites(md, r)
	writeStructure(md, r)
	writeWarnings(md, r)

	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated %s*", r.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	return md.Build()
}

func writeHeader(md *markdown.Markdown, r *Report) {
	title := "Testability Report"
	if r.Design != "" {
		title += ": " + r.Design
	}
	md.H1(title)
	md.PlainText("")

	s := r.Summary
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Nets", strconv.Itoa(s.Nets)},
			{"Gates", strconv.Itoa(s.Gates)},
			{"Primary inputs", strconv.Itoa(s.Inputs)},
			{"Primary outputs", strconv.Itoa(s.Outputs)},
			{"Graph edges", strconv.Itoa(s.Edges)},
			{"Isolated nets", strconv.Itoa(s.Isolated)},
			{"Reconvergence sites", strconv.Itoa(s.Sites)},
			{"Uncontrollable nets", strconv.Itoa(s.Uncontrollable)},
			{"Unobservable nets", strconv.Itoa(s.Unobservable)},
			{"Sweeps (CC / CO)", fmt.Sprintf("%d / %d", s.ControllabilitySweeps, s.ObservabilitySweeps)},
		},
	})
	md.PlainText("")

	switch {
	case s.Uncontrollable > 0 || s.Unobservable > 0:
		md.Warningf("%d nets cannot be controlled and %d cannot be observed.", s.Uncontrollable, s.Unobservable)
	case s.BrokenEdges > 0:
		md.Note("The dependency graph contained cycles; see Broken Edges.")
	default:
		md.Tip("Every net is controllable and observable.")
	}
	md.PlainText("")
}

func writeGateKinds(md *markdown.Markdown, r *Report) {
	if len(r.GateKinds) == 0 {
		return
	}
	kinds := make([]string, 0, len(r.GateKinds))
	for k := range r.GateKinds {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)

	chart := piechart.NewPieChart(io.Discard, piechart.WithTitle("Gate Kinds"), piechart.WithShowData(true))
	for _, k := range kinds {
		chart.LabelAndIntValue(k, uint64(r.GateKinds[k]))
	}
	md.H2("Gate Kinds")
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func writeHardest(md *markdown.Markdown, title string, nets []NetMetrics) {
	md.H2(title)
	md.PlainText("")
	if len(nets) == 0 {
		md.PlainText("No nets.")
		md.PlainText("")
		return
	}
	rows := make([][]string, len(nets))
	for i, n := range nets {
		rows[i] = []string{code(n.Name), n.Role.String(), n.CC0.String(), n.CC1.String(), n.CO.String()}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Net", "Role", "CC0", "CC1", "CO"},
		Rows:   rows,
	})
	md.PlainText("")
}

func writeSites(md *markdown.Markdown, r *Report) {
	md.H2("Reconvergent Fan-out")
	md.PlainText("")
	if len(r.Sites) == 0 {
		md.PlainText("No reconvergence sites found.")
		md.PlainText("")
		return
	}
	rows := make([][]string, len(r.Sites))
	for i, s := range r.Sites {
		origins := code(s.Origin1)
		if s.Origin2 != s.Origin1 {
			origins += ", " + code(s.Origin2)
		}
		rows[i] = []string{
			code(s.Site),
			string(s.Kind),
			origins,
			path(s.Path1),
			path(s.Path2),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Site", "Kind", "Origins", "Path 1", "Path 2"},
		Rows:   rows,
	})
	md.PlainText("")
}

func writeStructure(md *markdown.Markdown, r *Report) {
	if len(r.BrokenEdges) > 0 {
		md.H2("Broken Edges")
		md.PlainText("")
		items := make([]string, len(r.BrokenEdges))
		for i, e := range r.BrokenEdges {
			items[i] = code(e.From) + " → " + code(e.To)
		}
		md.BulletList(items...)
		md.PlainText("")
	}
	if len(r.Graph.Isolated) > 0 {
		md.H2("Isolated Nets")
		md.PlainText("")
		items := make([]string, len(r.Graph.Isolated))
		for i, n := range r.Graph.Isolated {
			items[i] = code(n)
		}
		md.BulletList(items...)
		md.PlainText("")
	}
}

func writeWarnings(md *markdown.Markdown, r *Report) {
	if len(r.Warnings) == 0 {
		return
	}
	md.H2("Warnings")
	md.PlainText("")

	counts := errors.CountByCode(r.Warnings)
	codes := make([]string, 0, len(counts))
	for c := range counts {
		codes = append(codes, string(c))
	}
	slices.Sort(codes)
	rows := make([][]string, len(codes))
	for i, c := range codes {
		rows[i] = []string{c, strconv.Itoa(counts[errors.Code(c)])}
	}
	md.Table(markdown.TableSet{Header: []string{"Code", "Count"}, Rows: rows})
	md.PlainText("")

	items := make([]string, len(r.Warnings))
	for i, w := range r.Warnings {
		items[i] = w.String()
	}
	md.BulletList(items...)
	md.PlainText("")
}

func code(s string) string { return "`" + s + "`" }

func path(p []string) string { return strings.Join(p, " → ") }
