// Package pipeline runs the complete testability analysis.
//
// The pipeline is shared by the CLI and the HTTP API so both apply the
// same defaults, cache keys and stage ordering:
//
//  1. Load: intern nets and validate the gate records
//  2. Analyze: SCOAP controllability then observability, while the net
//     graph is searched for reconvergent fan-out in parallel
//  3. Report: annotate the graph and assemble a [report.Report]
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Source{Input: in}, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Report.Summary.Sites)
//
// Rendering reuses the analysis cache key:
//
//	svg, hit, err := runner.Render(ctx, result, pipeline.FormatSVG, nodelink.Options{})
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ranaumarnadeem/opentestability/pkg/buildinfo"
	"github.com/ranaumarnadeem/opentestability/pkg/cache"
	"github.com/ranaumarnadeem/opentestability/pkg/config"
	"github.com/ranaumarnadeem/opentestability/pkg/dag"
	"github.com/ranaumarnadeem/opentestability/pkg/errors"
	"github.com/ranaumarnadeem/opentestability/pkg/netlist"
	"github.com/ranaumarnadeem/opentestability/pkg/reconv"
	"github.com/ranaumarnadeem/opentestability/pkg/report"
	"github.com/ranaumarnadeem/opentestability/pkg/scoap"
)

// Render formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ValidFormats is the set of supported render formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
	FormatPNG: true,
}

// ValidateFormat checks that a render format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: dot, svg, png)", format)
	}
	return nil
}

// Options contains all configuration for one analysis.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Name labels the design in the report.
	Name string `json:"name,omitempty"`

	Rules            string `json:"rules,omitempty"`   // "standard" or "legacy"
	Unknown          string `json:"unknown,omitempty"` // "buffer" or "invert"
	ObserveAllInputs bool   `json:"observe_all_inputs,omitempty"`
	MaxIterations    int    `json:"max_iterations,omitempty"`
	MaxDepth         int    `json:"max_depth,omitempty"`
	Workers          int    `json:"workers,omitempty"`

	// SkipReconvergence leaves Report.Sites empty.
	SkipReconvergence bool `json:"skip_reconvergence,omitempty"`

	// Refresh recomputes the analysis even when a cached report exists.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	rules     scoap.RuleSet
	unknown   scoap.UnknownPolicy
	validated bool
}

// FromConfig returns options carrying the analysis section of a
// configuration file.
func FromConfig(a config.Analysis) Options {
	return Options{
		Rules:            a.Rules,
		Unknown:          a.UnknownGate,
		ObserveAllInputs: a.ObserveAllInputs,
		MaxIterations:    a.MaxIterations,
		MaxDepth:         a.MaxDepth,
		Workers:          a.Workers,
	}
}

// ValidateAndSetDefaults checks option values and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	rules, err := scoap.ParseRuleSet(o.Rules)
	if err != nil {
		return err
	}
	unknown, err := scoap.ParseUnknownPolicy(o.Unknown)
	if err != nil {
		return err
	}
	o.rules, o.unknown = rules, unknown
	o.Rules, o.Unknown = rules.String(), unknown.String()

	if o.MaxDepth == 0 {
		o.MaxDepth = reconv.DefaultMaxDepth
	}
	if o.MaxDepth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_depth must be positive, got %d", o.MaxDepth)
	}
	if o.MaxIterations < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_iterations must not be negative, got %d", o.MaxIterations)
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers must not be negative, got %d", o.Workers)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// SCOAPOptions returns the engine options. Call ValidateAndSetDefaults first.
func (o *Options) SCOAPOptions() scoap.Options {
	return scoap.Options{
		Rules:            o.rules,
		Unknown:          o.unknown,
		ObserveAllInputs: o.ObserveAllInputs,
		MaxIterations:    o.MaxIterations,
		Workers:          o.Workers,
		Logger:           o.Logger,
	}
}

// ReconvOptions returns the detector options.
func (o *Options) ReconvOptions() reconv.Options {
	return reconv.Options{MaxDepth: o.MaxDepth, Workers: o.Workers, Logger: o.Logger}
}

// AnalysisKeyOpts returns cache key options. Workers is excluded because it
// never changes a result.
func (o *Options) AnalysisKeyOpts() cache.AnalysisKeyOpts {
	depth := o.MaxDepth
	if o.SkipReconvergence {
		depth = -1
	}
	return cache.AnalysisKeyOpts{
		Rules:            o.Rules,
		Unknown:          o.Unknown,
		ObserveAllInputs: o.ObserveAllInputs,
		MaxIterations:    o.MaxIterations,
		MaxDepth:         depth,
		Version:          buildinfo.AnalysisVersion,
	}
}

// Source is a netlist to analyze with the warnings its reader raised.
type Source struct {
	Input    netlist.Input
	Warnings []errors.Warning
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Report is the serializable analysis result.
	Report *report.Report

	// Netlist holds the loaded design with its final metrics. On a cache
	// hit the metrics are restored from the report.
	Netlist *netlist.Netlist

	// Graph is the net dependency graph annotated with metrics.
	Graph *dag.DAG

	// InputHash is the content hash of the input netlist.
	InputHash string

	// Key is the analysis cache key, also the base of render keys.
	Key string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Nets                int
	Gates               int
	Edges               int
	LoadTime            time.Duration
	ControllabilityTime time.Duration
	ObservabilityTime   time.Duration
	ReconvergenceTime   time.Duration
	TotalTime           time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	AnalysisHit bool // Report came from cache
	RenderHit   bool // Set by Render
}

// String summarizes the stats on one line.
func (s Stats) String() string {
	return fmt.Sprintf("%d nets, %d gates, %d edges in %v", s.Nets, s.Gates, s.Edges, s.TotalTime.Round(time.Microsecond))
}
