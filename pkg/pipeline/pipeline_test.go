package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/ranaumarnadeem/opentestability/pkg/cache"
	"github.com/ranaumarnadeem/opentestability/pkg/config"
	"github.com/ranaumarnadeem/opentestability/pkg/errors"
	"github.com/ranaumarnadeem/opentestability/pkg/netlist"
	"github.com/ranaumarnadeem/opentestability/pkg/render/nodelink"
)

// sample fans a out to n1 and n2, which reconverge at y.
func sample() Source {
	return Source{Input: netlist.Input{
		PrimaryInputs:  []string{"a", "b"},
		PrimaryOutputs: []string{"y"},
		Gates: []netlist.GateRecord{
			{Type: "NAND", Output: "n1", Inputs: []string{"a", "b"}},
			{Type: "NOT", Output: "n2", Inputs: []string{"a"}},
			{Type: "AND", Output: "y", Inputs: []string{"n1", "n2"}},
		},
	}}
}

func newRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	return NewRunner(c, nil, nil)
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Rules != "standard" || opts.Unknown != "buffer" || opts.MaxDepth != 20 || opts.Logger == nil {
		t.Errorf("defaults = %+v", opts)
	}

	tests := []struct {
		name string
		opts Options
	}{
		{"rules", Options{Rules: "fast"}},
		{"unknown", Options{Unknown: "xor"}},
		{"depth", Options{MaxDepth: -1}},
		{"iterations", Options{MaxIterations: -3}},
		{"workers", Options{Workers: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestFromConfig(t *testing.T) {
	a := config.Default().Analysis
	a.Rules = "legacy"
	a.ObserveAllInputs = true
	opts := FromConfig(a)
	if opts.Rules != "legacy" || !opts.ObserveAllInputs || opts.MaxDepth != 20 {
		t.Errorf("FromConfig = %+v", opts)
	}
}

func TestAnalysisKeyOpts(t *testing.T) {
	a := Options{}
	b := Options{SkipReconvergence: true}
	c := Options{Workers: 8}
	for _, o := range []*Options{&a, &b, &c} {
		if err := o.ValidateAndSetDefaults(); err != nil {
			t.Fatal(err)
		}
	}
	if a.AnalysisKeyOpts() == b.AnalysisKeyOpts() {
		t.Error("skipping reconvergence should change the key")
	}
	if a.AnalysisKeyOpts() != c.AnalysisKeyOpts() {
		t.Error("worker count should not change the key")
	}
}

func TestExecute(t *testing.T) {
	r := newRunner(t)
	res, err := r.Execute(context.Background(), sample(), Options{Name: "sample"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	s := res.Report.Summary
	if s.Nets != 5 || s.Gates != 3 || s.Inputs != 2 || s.Outputs != 1 || s.Edges != 5 || s.Sites != 1 {
		t.Errorf("summary = %+v", s)
	}
	if s.ControllabilitySweeps == 0 || s.ObservabilitySweeps == 0 {
		t.Errorf("sweeps not recorded: %+v", s)
	}
	if res.CacheInfo.AnalysisHit {
		t.Error("first run should miss the cache")
	}
	if res.Report.Design != "sample" {
		t.Errorf("Design = %q", res.Report.Design)
	}

	y, ok := res.Report.Net("y")
	if !ok || y.CC0 != 3 || y.CC1 != 5 || y.CO != 1 {
		t.Errorf("y = %+v", y)
	}
	site := res.Report.Sites[0]
	if site.Site != "y" || site.Origin1 != "a" {
		t.Errorf("site = %+v", site)
	}
	if got := res.Stats.Edges; got != 5 {
		t.Errorf("Stats.Edges = %d, want 5", got)
	}
}

func TestExecuteCached(t *testing.T) {
	ctx := context.Background()
	r := newRunner(t)

	first, err := r.Execute(ctx, sample(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Execute(ctx, sample(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.AnalysisHit {
		t.Fatal("second run should hit the cache")
	}
	if second.Key != first.Key {
		t.Errorf("keys differ: %s vs %s", first.Key, second.Key)
	}
	if got := second.Netlist.Net("n1").CC0; got != 3 {
		t.Errorf("restored n1 CC0 = %v, want 3", got)
	}
	if len(second.Report.Sites) != 1 || second.Graph.EdgeCount() != 5 {
		t.Errorf("cached report = %+v", second.Report.Summary)
	}

	third, err := r.Execute(ctx, sample(), Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.AnalysisHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestExecuteSourceWarnings(t *testing.T) {
	ctx := context.Background()
	r := newRunner(t)

	src := sample()
	src.Warnings = []errors.Warning{errors.Warn(errors.ErrCodeFormat, "line 3", "skipped")}
	res, err := r.Execute(ctx, src, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Report.Warnings) != 1 || res.Report.Warnings[0].Subject != "line 3" {
		t.Errorf("warnings = %v", res.Report.Warnings)
	}

	res, err = r.Execute(ctx, sample(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.CacheInfo.AnalysisHit || len(res.Report.Warnings) != 0 {
		t.Errorf("reader warnings leaked into the cache: %v", res.Report.Warnings)
	}
}

func TestExecuteSkipReconvergence(t *testing.T) {
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), sample(), Options{SkipReconvergence: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Report.Sites) != 0 {
		t.Errorf("sites = %v, want none", res.Report.Sites)
	}
	if _, ok := res.Report.Net("y"); !ok {
		t.Error("metrics missing")
	}
}

func TestExecuteErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil)

	bad := Source{Input: netlist.Input{
		PrimaryInputs: []string{"a"},
		Gates:         []netlist.GateRecord{{Type: "AND", Output: "y"}},
	}}
	if _, err := r.Execute(context.Background(), bad, Options{}); !errors.Is(err, errors.ErrCodeFormat) {
		t.Errorf("gate without inputs: error = %v, want FORMAT_ERROR", err)
	}

	if _, err := r.Execute(context.Background(), sample(), Options{Rules: "bogus"}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad rules: error = %v, want INVALID_INPUT", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Execute(ctx, sample(), Options{}); err == nil {
		t.Error("canceled context should fail")
	}
}

func TestRenderDOT(t *testing.T) {
	ctx := context.Background()
	r := newRunner(t)
	res, err := r.Execute(ctx, sample(), Options{})
	if err != nil {
		t.Fatal(err)
	}

	opts := nodelink.Options{Detailed: true, Highlight: SiteNodes(res.Report)}
	dot, hit, err := r.Render(ctx, res, FormatDOT, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if hit {
		t.Error("first render should miss the cache")
	}
	for _, want := range []string{`"a" -> "n1";`, "CC0=3 CC1=5", "penwidth=3"} {
		if !strings.Contains(string(dot), want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}

	again, hit, err := r.Render(ctx, res, FormatDOT, opts)
	if err != nil || !hit || string(again) != string(dot) {
		t.Errorf("second render: hit=%v err=%v", hit, err)
	}

	if _, _, err := r.Render(ctx, res, "gif", opts); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad format: error = %v", err)
	}
}

func TestSiteNodes(t *testing.T) {
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), sample(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := SiteNodes(res.Report); len(got) != 1 || got[0] != "y" {
		t.Errorf("SiteNodes = %v", got)
	}
}
