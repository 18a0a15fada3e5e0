// Package cli implements the opentestability command-line interface.
//
// Commands load a netlist, run the shared analysis pipeline and print or
// write its results. The CLI is built using cobra, logs through
// charmbracelet/log and styles terminal output with lipgloss.
//
// # Commands
//
//   - analyze: full SCOAP and reconvergence report as text, JSON or Markdown
//   - scoap: CC0, CC1 and CO tables only
//   - dag: the net dependency graph as JSON
//   - reconverge: reconvergent fan-out sites, from a netlist or a saved graph
//   - render: DOT, SVG or PNG drawing of the graph
//   - cache, history: manage the result cache and the run history
//   - serve: the HTTP API
//
// # Configuration
//
// The configuration file is found as described in package config or named
// with --config. Flags override file values.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/ranaumarnadeem/opentestability/pkg/cache"
	"github.com/ranaumarnadeem/opentestability/pkg/config"
	"github.com/ranaumarnadeem/opentestability/pkg/pipeline"
	"github.com/ranaumarnadeem/opentestability/pkg/store"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is the --config flag; cfg is loaded before each command.
	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the configuration file, if any.
func (c *CLI) loadConfig() error {
	cfg, path, err := config.LoadDefault(c.configPath)
	if err != nil {
		return err
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	c.cfg = cfg
	return nil
}

// newRunner creates a pipeline runner on the configured cache backend.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cc, nil, c.Logger)
	r.TTL = c.cfg.Cache.TTL
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.cfg.Cache
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	fc, err := cache.NewFileCache(c.cacheDir())
	if err != nil {
		// An unusable cache directory only disables caching.
		c.Logger.Warn("file cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// cacheDir returns the file cache directory.
func (c *CLI) cacheDir() string {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir
	}
	return config.CacheDir()
}

// openStore opens the run history database.
func (c *CLI) openStore() (*store.Store, error) {
	return store.Open(c.cfg.Store.Path)
}
