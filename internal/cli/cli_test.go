package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ranaumarnadeem/opentestability/pkg/errors"
	"github.com/ranaumarnadeem/opentestability/pkg/reconv"
	"github.com/ranaumarnadeem/opentestability/pkg/report"
)

// testEnv isolates the cache and history of one test.
type testEnv struct {
	dir    string
	config string
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf("[cache]\nbackend = \"file\"\ndir = %q\n\n[store]\npath = %q\n",
		filepath.Join(dir, "cache"), filepath.Join(dir, "history.db"))
	if err := os.WriteFile(cfg, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return &testEnv{dir: dir, config: cfg}
}

// run executes the CLI and returns stdout and stderr.
func (e *testEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", e.config}, args...))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, _, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out
}

func TestAnalyzeJSON(t *testing.T) {
	env := newEnv(t)
	out := env.mustRun(t, "analyze", "testdata/c17.bench", "-f", "json")

	var rep report.Report
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	s := rep.Summary
	if rep.Design != "c17" || s.Nets != 11 || s.Gates != 6 || s.Inputs != 5 || s.Outputs != 2 {
		t.Errorf("summary = %+v", s)
	}
	if s.Sites == 0 {
		t.Error("c17 has reconvergent fan-out")
	}
	if n, ok := rep.Net("1"); !ok || n.CC0 != 1 || n.CC1 != 1 {
		t.Errorf("net 1 = %+v", n)
	}
}

func TestAnalyzeText(t *testing.T) {
	env := newEnv(t)
	out := env.mustRun(t, "analyze", "testdata/c17.bench", "--top", "3")
	for _, want := range []string{"c17", "Reconvergence sites", "Hardest to observe", "Reconvergent fan-out", "fresh"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}

	out = env.mustRun(t, "analyze", "testdata/c17.bench")
	if !strings.Contains(out, "cached") {
		t.Errorf("second run should be served from cache:\n%s", out)
	}
}

func TestAnalyzeMarkdownFile(t *testing.T) {
	env := newEnv(t)
	path := filepath.Join(env.dir, "report.md")
	out := env.mustRun(t, "analyze", "testdata/half_adder.txt", "-f", "markdown", "-o", path)
	if !strings.Contains(out, path) {
		t.Errorf("output should name the file: %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# ") || !strings.Contains(string(data), "carry") {
		t.Errorf("markdown report:\n%s", data)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	env := newEnv(t)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing file", []string{"analyze", "testdata/missing.bench"}, errors.ErrCodeFileNotFound},
		{"output format", []string{"analyze", "testdata/c17.bench", "-f", "xml"}, errors.ErrCodeInvalidInput},
		{"rules", []string{"analyze", "testdata/c17.bench", "--rules", "fast"}, errors.ErrCodeInvalidInput},
		{"depth", []string{"analyze", "testdata/c17.bench", "--max-depth", "0"}, errors.ErrCodeInvalidInput},
		{"png to stdout", []string{"render", "testdata/c17.bench", "-f", "png"}, errors.ErrCodeInvalidInput},
		{"render format", []string{"render", "testdata/c17.bench", "-f", "gif"}, errors.ErrCodeInvalidInput},
		{"config", []string{"--config", "missing.toml", "analyze", "testdata/c17.bench"}, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := env.run(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("%v: error = %v, want %s", tt.args, err, tt.code)
			}
		})
	}
}

func TestSCOAP(t *testing.T) {
	env := newEnv(t)
	out := env.mustRun(t, "scoap", "testdata/c17.bench")
	if !strings.HasPrefix(out, "--- SCOAP CONTROLLABILITY (CC0) ---\n") {
		t.Errorf("scoap output:\n%s", out)
	}
	for _, want := range []string{"CC0_1: 1", "CC0_10: 3", "CC1_10: 2", "CO_22: 1"} {
		if !strings.Contains(out, want+"\n") {
			t.Errorf("scoap output missing %q", want)
		}
	}
}

func TestSCOAPLegacyRules(t *testing.T) {
	env := newEnv(t)
	out := env.mustRun(t, "scoap", "testdata/c17.bench", "--json", "--rules", "legacy")

	var nets []report.NetMetrics
	if err := json.Unmarshal([]byte(out), &nets); err != nil {
		t.Fatal(err)
	}
	for _, n := range nets {
		if n.Name == "10" && (n.CC0 != 2 || n.CC1 != 3) {
			t.Errorf("legacy NAND 10 = %+v, want CC0=2 CC1=3", n)
		}
	}
}

func TestReconvergeFromDAG(t *testing.T) {
	env := newEnv(t)
	graphPath := filepath.Join(env.dir, "c17.json")
	env.mustRun(t, "dag", "testdata/c17.bench", "-o", graphPath)

	var fromNetlist, fromDAG reconvergence
	decode := func(out string, v *reconvergence) {
		t.Helper()
		if err := json.Unmarshal([]byte(out), v); err != nil {
			t.Fatalf("decode sites: %v\n%s", err, out)
		}
	}
	decode(env.mustRun(t, "reconverge", "testdata/c17.bench", "--json"), &fromNetlist)
	decode(env.mustRun(t, "reconverge", "--dag", graphPath, "--json"), &fromDAG)

	if len(fromNetlist.Sites) == 0 {
		t.Fatal("no sites found")
	}
	if got, want := siteKeys(fromDAG.Sites), siteKeys(fromNetlist.Sites); !slices.Equal(got, want) {
		t.Errorf("sites from graph file = %v, want %v", got, want)
	}

	text := env.mustRun(t, "reconverge", "testdata/c17.bench")
	if !strings.Contains(text, "reconvergence records") {
		t.Errorf("text output:\n%s", text)
	}
}

func siteKeys(sites []reconv.Site) []string {
	keys := make([]string, len(sites))
	for i, s := range sites {
		keys[i] = fmt.Sprintf("%s:%s<%s,%s>", s.Kind, s.Site, s.Origin1, s.Origin2)
	}
	slices.Sort(keys)
	return keys
}

func TestRenderDOT(t *testing.T) {
	env := newEnv(t)
	out := env.mustRun(t, "render", "testdata/c17.bench", "--detailed")
	for _, want := range []string{"digraph G {", `"10" -> "22";`, "penwidth=3", "NAND"} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT missing %q", want)
		}
	}
}

func TestHistory(t *testing.T) {
	env := newEnv(t)
	_, stderr, err := env.run(t, "analyze", "testdata/c17.bench", "--save", "-f", "json")
	if err != nil {
		t.Fatal(err)
	}
	fields := strings.Fields(stderr)
	if len(fields) < 3 {
		t.Fatalf("no run ID in %q", stderr)
	}
	id := fields[len(fields)-1]

	list := env.mustRun(t, "history", "list")
	if !strings.Contains(list, "c17.bench") {
		t.Errorf("history list:\n%s", list)
	}

	show := env.mustRun(t, "history", "show", id, "-f", "json")
	var rep report.Report
	if err := json.Unmarshal([]byte(show), &rep); err != nil {
		t.Fatal(err)
	}
	if rep.Design != "c17" {
		t.Errorf("history show design = %q", rep.Design)
	}

	if _, _, err := env.run(t, "history", "show", "nope"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("unknown run: error = %v", err)
	}
}

func TestCacheCommands(t *testing.T) {
	env := newEnv(t)

	path := strings.TrimSpace(env.mustRun(t, "cache", "path"))
	if path != filepath.Join(env.dir, "cache") {
		t.Errorf("cache path = %q", path)
	}

	if out := env.mustRun(t, "cache", "clear"); !strings.Contains(out, "Cache is empty") {
		t.Errorf("clear on empty cache: %q", out)
	}
	env.mustRun(t, "analyze", "testdata/c17.bench")
	if out := env.mustRun(t, "cache", "clear"); !strings.Contains(out, "Cleared 1 cached entries") {
		t.Errorf("clear: %q", out)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"", "dot"},
		{"g.svg", "svg"},
		{"G.PNG", "png"},
		{"g.gv", "dot"},
	}
	for _, tt := range tests {
		if got := formatFromPath(tt.path); got != tt.want {
			t.Errorf("formatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestDesignName(t *testing.T) {
	if got := designName("path/to/c432.bench"); got != "c432" {
		t.Errorf("designName = %q, want c432", got)
	}
}

func TestCompletion(t *testing.T) {
	env := newEnv(t)
	out := env.mustRun(t, "completion", "bash")
	if !strings.Contains(out, "opentestability") {
		t.Error("bash completion should mention the command name")
	}
}

func TestVersion(t *testing.T) {
	env := newEnv(t)
	out := env.mustRun(t, "--version")
	if !strings.HasPrefix(out, "opentestability version ") {
		t.Errorf("version output = %q", out)
	}
}
