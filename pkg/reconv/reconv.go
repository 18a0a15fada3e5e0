// Package reconv detects reconvergent fan-out in a net dependency graph.
//
// Reconvergence happens when signals that split at a fan-out point meet
// again downstream. Such sites correlate the values on their inputs, which
// is why SCOAP estimates are optimistic there and why test generation
// tools care about them.
//
// Two shapes are reported. A stem site is one fan-out point whose branches
// rejoin at the site along disjoint paths. A pair site is two distinct
// fan-out points that both reach the site along disjoint paths.
package reconv

import (
	"context"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/ranaumarnadeem/opentestability/pkg/dag"
	"github.com/ranaumarnadeem/opentestability/pkg/dag/transform"
	"github.com/ranaumarnadeem/opentestability/pkg/errors"
)

// DefaultMaxDepth is the path length bound used by the pipeline when none
// is configured.
const DefaultMaxDepth = 20

// Kind distinguishes the two reconvergence shapes.
type Kind string

const (
	KindStem Kind = "stem" // One fan-out point, two of its branches
	KindPair Kind = "pair" // Two distinct fan-out points
)

// Site is one reconvergence record.
//
// Path1 and Path2 list node IDs from their origin to Site inclusive. For a
// stem site Origin1 and Origin2 are the same node and the paths diverge
// immediately after it. The interiors of the two paths share no node.
type Site struct {
	Kind    Kind     `json:"kind"`
	Site    string   `json:"site"`
	Origin1 string   `json:"origin1"`
	Origin2 string   `json:"origin2"`
	Path1   []string `json:"path1"`
	Path2   []string `json:"path2"`
}

// Options configures Detect.
type Options struct {
	// MaxDepth bounds each path, in edges. It must be positive.
	MaxDepth int

	// Workers bounds the number of sites evaluated concurrently. Zero
	// selects GOMAXPROCS.
	Workers int

	Logger *log.Logger
}

// Result holds the records found and the edges removed to break cycles.
type Result struct {
	Sites       []Site           `json:"sites"`
	BrokenEdges []dag.Edge       `json:"broken_edges,omitempty"`
	Warnings    []errors.Warning `json:"warnings,omitempty"`
	Duration    time.Duration    `json:"duration"`
}

// Detect finds reconvergence sites in g.
//
// The caller's graph is not modified: Detect clones it, breaks cycles on
// the clone and reports the removed edges in Result.BrokenEdges with a
// CYCLE_DETECTED warning. Candidate sites are nodes with in-degree above
// one; origins are fan-out points (out-degree above one) within MaxDepth
// edges upstream of the site. Sites are evaluated in parallel and the
// records come back in node order, then origin order.
func Detect(ctx context.Context, g *dag.DAG, opts Options) (*Result, error) {
	if opts.MaxDepth <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "reconvergence max depth must be positive, got %d", opts.MaxDepth)
	}
	start := time.Now()
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	work := g.Clone()
	res := &Result{BrokenEdges: transform.BreakCycles(work)}
	if n := len(res.BrokenEdges); n > 0 {
		res.Warnings = append(res.Warnings,
			errors.Warn(errors.ErrCodeCycleDetected, "", "removed %d edges to break cycles", n))
		logger.Warn("dependency graph has cycles", "broken_edges", n)
	}

	d := newDetector(work, opts.MaxDepth)
	perSite := make([][]Site, len(d.sites))

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, s := range d.sites {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			perSite[i] = d.evaluate(s)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	for _, sites := range perSite {
		res.Sites = append(res.Sites, sites...)
	}
	res.Duration = time.Since(start)
	logger.Debug("reconvergence detection complete",
		"candidates", len(d.sites), "sites", len(res.Sites), "duration", res.Duration)
	return res, nil
}
