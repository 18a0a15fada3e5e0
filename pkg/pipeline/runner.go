package pipeline

import (
	"bytes"
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/ranaumarnadeem/opentestability/pkg/cache"
	"github.com/ranaumarnadeem/opentestability/pkg/dag"
	"github.com/ranaumarnadeem/opentestability/pkg/errors"
	"github.com/ranaumarnadeem/opentestability/pkg/graph"
	netio "github.com/ranaumarnadeem/opentestability/pkg/io"
	"github.com/ranaumarnadeem/opentestability/pkg/netgraph"
	"github.com/ranaumarnadeem/opentestability/pkg/netlist"
	"github.com/ranaumarnadeem/opentestability/pkg/observability"
	"github.com/ranaumarnadeem/opentestability/pkg/reconv"
	"github.com/ranaumarnadeem/opentestability/pkg/render/nodelink"
	"github.com/ranaumarnadeem/opentestability/pkg/report"
	"github.com/ranaumarnadeem/opentestability/pkg/scoap"
)

// Cache key types reported to observability hooks.
const (
	keyTypeAnalysis = "analysis"
	keyTypeRender   = "render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger: it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL applies to every cache write. Zero selects cache.DefaultTTL.
	TTL time.Duration

	now func() time.Time
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		now:    time.Now,
	}
}

// Execute loads src and runs the full analysis, serving the report from
// cache when an identical input was analyzed with the same options.
//
// Reader warnings in src are prepended to the report's warnings and are
// never cached.
func (r *Runner) Execute(ctx context.Context, src Source, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	start := time.Now()

	inputHash, err := cache.HashJSON(src.Input)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash input")
	}
	res := &Result{
		InputHash: inputHash,
		Key:       r.Keyer.AnalysisKey(inputHash, opts.AnalysisKeyOpts()),
	}

	loadStart := time.Now()
	nl, err := netlist.Load(src.Input)
	res.Stats.LoadTime = time.Since(loadStart)
	if err != nil {
		observability.Analysis().OnLoad(ctx, 0, 0, res.Stats.LoadTime, err)
		return nil, err
	}
	observability.Analysis().OnLoad(ctx, nl.NetCount(), len(nl.Gates), res.Stats.LoadTime, nil)
	res.Netlist = nl
	res.Stats.Nets, res.Stats.Gates = nl.NetCount(), len(nl.Gates)
	opts.Logger.Debug("loaded netlist", "nets", res.Stats.Nets, "gates", res.Stats.Gates, "duration", res.Stats.LoadTime)

	if rep, ok := r.cachedReport(ctx, res.Key, opts); ok {
		restoreMetrics(nl, rep)
		g, err := netgraph.Build(nl)
		if err != nil {
			return nil, err
		}
		netgraph.Annotate(g, nl)
		res.Graph = g
		res.Report = rep
		res.CacheInfo.AnalysisHit = true
	} else {
		if err := r.analyze(ctx, res, opts); err != nil {
			return nil, err
		}
		r.store(ctx, keyTypeAnalysis, res.Key, res.Report)
	}

	if len(src.Warnings) > 0 {
		res.Report.Warnings = append(slices.Clone(src.Warnings), res.Report.Warnings...)
	}
	res.Stats.Edges = res.Graph.EdgeCount()
	res.Stats.TotalTime = time.Since(start)

	opts.Logger.Info("analyzed netlist",
		"nets", res.Stats.Nets,
		"sites", len(res.Report.Sites),
		"cached", res.CacheInfo.AnalysisHit,
		"duration", res.Stats.TotalTime)
	return res, nil
}

// analyze runs SCOAP and reconvergence detection concurrently. Detection
// works on a clone of the graph and the engines only touch netlist
// metrics, so the two chains share nothing mutable.
func (r *Runner) analyze(ctx context.Context, res *Result, opts Options) error {
	nl := res.Netlist
	g, err := netgraph.Build(nl)
	if err != nil {
		return err
	}
	isolated := netgraph.FindIsolated(g)

	var (
		cc *scoap.ControllabilityResult
		co *scoap.ObservabilityResult
		rc = &reconv.Result{}
	)
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var err error
		sopts := opts.SCOAPOptions()

		t := time.Now()
		cc, err = scoap.ComputeControllability(ctx, nl, sopts)
		res.Stats.ControllabilityTime = time.Since(t)
		observability.Analysis().OnControllability(ctx, ccSweeps(cc), res.Stats.ControllabilityTime, err)
		if err != nil {
			return err
		}

		t = time.Now()
		co, err = scoap.ComputeObservability(ctx, nl, cc, sopts)
		res.Stats.ObservabilityTime = time.Since(t)
		observability.Analysis().OnObservability(ctx, coSweeps(co), res.Stats.ObservabilityTime, err)
		return err
	})

	if !opts.SkipReconvergence {
		eg.Go(func() error {
			var err error
			t := time.Now()
			rc, err = reconv.Detect(ctx, g, opts.ReconvOptions())
			res.Stats.ReconvergenceTime = time.Since(t)
			if err != nil {
				observability.Analysis().OnReconvergence(ctx, 0, 0, res.Stats.ReconvergenceTime, err)
				return err
			}
			observability.Analysis().OnReconvergence(ctx, len(rc.Sites), len(rc.BrokenEdges), res.Stats.ReconvergenceTime, nil)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	netgraph.Annotate(g, nl)
	out := graph.FromDAG(g)
	out.Isolated = isolated

	rep := &report.Report{
		Design:      opts.Name,
		GeneratedAt: r.now().UTC(),
		GateKinds:   report.GateKinds(nl),
		Nets:        report.Metrics(nl),
		Graph:       out,
		Sites:       rc.Sites,
		BrokenEdges: report.Edges(rc.BrokenEdges),
	}
	rep.Warnings = slices.Concat(nl.Warnings, cc.Warnings, co.Warnings, rc.Warnings)
	rep.Summary.ControllabilitySweeps = cc.Sweeps
	rep.Summary.ObservabilitySweeps = co.Sweeps
	rep.Summarize()

	res.Graph = g
	res.Report = rep
	return nil
}

// Render draws the annotated graph of res. Images are cached under a key
// derived from the analysis key, so a cached report renders from cache
// too.
func (r *Runner) Render(ctx context.Context, res *Result, format string, opts nodelink.Options) ([]byte, bool, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, false, err
	}
	key := r.Keyer.RenderKey(res.Key, cache.RenderKeyOpts{
		Format:    format,
		Detailed:  opts.Detailed,
		Highlight: opts.Highlight,
	})
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, keyTypeRender)
		res.CacheInfo.RenderHit = true
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeRender)

	dot := nodelink.ToDOT(res.Graph, opts)
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatSVG:
		data, err = nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		data, err = nodelink.RenderPNG(ctx, dot)
	default:
		data = []byte(dot)
	}
	if err != nil {
		return nil, false, err
	}
	r.set(ctx, keyTypeRender, key, data)
	return data, false, nil
}

// SiteNodes returns the distinct reconvergence site nodes of a report, in
// report order. It is the usual highlight list for Render.
func SiteNodes(rep *report.Report) []string {
	var out []string
	for _, s := range rep.Sites {
		if !slices.Contains(out, s.Site) {
			out = append(out, s.Site)
		}
	}
	return out
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) cachedReport(ctx context.Context, key string, opts Options) (*report.Report, bool) {
	if opts.Refresh {
		return nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		opts.Logger.Warn("cache read failed", "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeAnalysis)
		return nil, false
	}
	rep, err := netio.ReadReportJSON(bytes.NewReader(data))
	if err != nil {
		// A corrupt entry is recomputed and overwritten.
		opts.Logger.Debug("discarding cached report", "error", err)
		observability.Cache().OnCacheMiss(ctx, keyTypeAnalysis)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeAnalysis)
	return rep, true
}

func (r *Runner) store(ctx context.Context, keyType, key string, rep *report.Report) {
	var buf bytes.Buffer
	if err := netio.WriteReportJSON(&buf, rep); err != nil {
		r.Logger.Warn("encode report for cache", "error", err)
		return
	}
	r.set(ctx, keyType, key, buf.Bytes())
}

func (r *Runner) set(ctx context.Context, keyType, key string, data []byte) {
	ttl := r.TTL
	if ttl == 0 {
		ttl = cache.DefaultTTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func restoreMetrics(nl *netlist.Netlist, rep *report.Report) {
	for _, m := range rep.Nets {
		if n := nl.Net(m.Name); n != nil {
			n.CC0, n.CC1, n.CO = m.CC0, m.CC1, m.CO
		}
	}
}

func ccSweeps(cc *scoap.ControllabilityResult) int {
	if cc == nil {
		return 0
	}
	return cc.Sweeps
}

func coSweeps(co *scoap.ObservabilityResult) int {
	if co == nil {
		return 0
	}
	return co.Sweeps
}

// DetectReconvergence searches a standalone graph, such as one read from a
// DAG JSON file, with the detector options of opts.
func DetectReconvergence(ctx context.Context, g *dag.DAG, opts Options) (*reconv.Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return reconv.Detect(ctx, g, opts.ReconvOptions())
}
