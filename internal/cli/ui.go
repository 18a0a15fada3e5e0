package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ranaumarnadeem/opentestability/pkg/errors"
	"github.com/ranaumarnadeem/opentestability/pkg/netlist"
	"github.com/ranaumarnadeem/opentestability/pkg/reconv"
	"github.com/ranaumarnadeem/opentestability/pkg/report"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleUnbounded for metrics that never converged to a finite value.
	StyleUnbounded = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleBorder = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

// printError prints an error message.
func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

// printWarning prints a warning message.
func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printInfo prints an info/status message.
func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints a detail line (indented).
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printStats prints design statistics on a single line.
func printStats(w io.Writer, s report.Summary, cached bool) {
	parts := []string{
		fmt.Sprintf("%d nets", s.Nets),
		fmt.Sprintf("%d gates", s.Gates),
		fmt.Sprintf("%d edges", s.Edges),
	}

	status := styleComputed.Render(iconFresh)
	if cached {
		status = styleCached.Render(iconCached)
	}

	var line strings.Builder
	line.WriteString("  ")
	for i, part := range parts {
		if i > 0 {
			line.WriteString(StyleDim.Render(" · "))
		}
		line.WriteString(StyleDim.Render(part))
	}
	line.WriteString(StyleDim.Render(" · ") + status)
	fmt.Fprintln(w, line.String())
}

// printWarnings prints one line per warning, collapsing repeats beyond
// limit per code.
func printWarnings(w io.Writer, ws []errors.Warning, limit int) {
	shown := make(map[errors.Code]int)
	var codes []errors.Code
	for _, wr := range ws {
		if shown[wr.Code] == 0 {
			codes = append(codes, wr.Code)
		}
		shown[wr.Code]++
		if shown[wr.Code] <= limit {
			printWarning(w, "%s", wr)
		}
	}
	for _, code := range codes {
		if n := shown[code]; n > limit {
			printDetail(w, "%d more %s warnings", n-limit, code)
		}
	}
}

// =============================================================================
// Tables
// =============================================================================

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if col > 0 {
				return lipgloss.NewStyle().Align(lipgloss.Right)
			}
			return lipgloss.NewStyle()
		})
}

// summaryTable renders the headline counts of a report.
func summaryTable(s report.Summary) string {
	rows := [][]string{
		{"Nets", strconv.Itoa(s.Nets)},
		{"Gates", strconv.Itoa(s.Gates)},
		{"Primary inputs", strconv.Itoa(s.Inputs)},
		{"Primary outputs", strconv.Itoa(s.Outputs)},
		{"Graph edges", strconv.Itoa(s.Edges)},
		{"Isolated nets", strconv.Itoa(s.Isolated)},
		{"Reconvergence sites", strconv.Itoa(s.Sites)},
		{"Broken edges", strconv.Itoa(s.BrokenEdges)},
		{"Uncontrollable", strconv.Itoa(s.Uncontrollable)},
		{"Unobservable", strconv.Itoa(s.Unobservable)},
	}
	return newTable("Metric", "Value").Rows(rows...).Render()
}

// netTable renders SCOAP metrics of the given nets.
func netTable(nets []report.NetMetrics) string {
	t := newTable("Net", "Role", "CC0", "CC1", "CO")
	for _, n := range nets {
		t.Row(n.Name, n.Role.String(), metric(n.CC0), metric(n.CC1), metric(n.CO))
	}
	return t.Render()
}

// siteTable renders reconvergence records.
func siteTable(sites []reconv.Site) string {
	t := newTable("Site", "Kind", "Origins", "Path 1", "Path 2")
	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return styleHeader
		}
		return lipgloss.NewStyle()
	})
	for _, s := range sites {
		origins := s.Origin1
		if s.Kind == reconv.KindPair {
			origins += ", " + s.Origin2
		}
		t.Row(s.Site, string(s.Kind), origins, strings.Join(s.Path1, " "+iconArrow+" "), strings.Join(s.Path2, " "+iconArrow+" "))
	}
	return t.Render()
}

func metric(m netlist.Metric) string {
	if !m.Bounded() {
		return StyleUnbounded.Render(m.String())
	}
	return m.String()
}
