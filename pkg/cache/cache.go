// Package cache stores analysis results between runs.
//
// [Cache] is a byte-level key/value store with TTLs. [FileCache] backs the
// CLI, [RedisCache] backs a shared deployment of the HTTP API and
// [NullCache] disables caching. Keys come from a [Keyer] so every caller
// derives the same key from the same input and options.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long analysis results stay cached.
const DefaultTTL = 24 * time.Hour

// Cache is a key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and whether it was found. A missing or
	// expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
	Close() error
}

// AnalysisKeyOpts holds every option that changes an analysis result.
type AnalysisKeyOpts struct {
	Rules            string `json:"rules"`
	Unknown          string `json:"unknown"`
	ObserveAllInputs bool   `json:"observe_all_inputs"`
	MaxIterations    int    `json:"max_iterations"`
	MaxDepth         int    `json:"max_depth"`
	Version          string `json:"version"`
}

// RenderKeyOpts holds the options of a rendered graph image.
type RenderKeyOpts struct {
	Format    string   `json:"format"`
	Detailed  bool     `json:"detailed"`
	Highlight []string `json:"highlight,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// AnalysisKey keys a full report by the hash of its input netlist.
	AnalysisKey(inputHash string, opts AnalysisKeyOpts) string

	// RenderKey keys a rendered image by the key of the analysis it shows.
	RenderKey(analysisKey string, opts RenderKeyOpts) string
}

// DefaultKeyer derives keys by hashing the input hash with the options.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// AnalysisKey returns "analysis:<sha256>".
func (DefaultKeyer) AnalysisKey(inputHash string, opts AnalysisKeyOpts) string {
	return hashKey("analysis", inputHash, opts)
}

// RenderKey returns "render:<sha256>".
func (DefaultKeyer) RenderKey(analysisKey string, opts RenderKeyOpts) string {
	return hashKey("render", analysisKey, opts)
}
