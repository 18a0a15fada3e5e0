// Package config loads the opentestability configuration file.
//
// The file is TOML or YAML, chosen by extension:
//
//	[analysis]
//	rules = "standard"        # or "legacy"
//	unknown_gate = "buffer"   # or "invert"
//	observe_all_inputs = false
//	max_iterations = 0        # 0 derives the cap from the net count
//	max_depth = 20
//	workers = 0               # 0 uses GOMAXPROCS
//
//	[cache]
//	backend = "file"          # "file", "redis" or "none"
//	ttl = "24h"
//	dir = ""                  # defaults to the XDG cache directory
//	redis_addr = "localhost:6379"
//
//	[store]
//	path = ""                 # defaults to the XDG data directory
//
// CLI flags override file values.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/ranaumarnadeem/opentestability/pkg/errors"
)

// AppName names the XDG subdirectories.
const AppName = "opentestability"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Analysis holds the analysis defaults.
type Analysis struct {
	Rules            string `toml:"rules" yaml:"rules"`
	UnknownGate      string `toml:"unknown_gate" yaml:"unknown_gate"`
	ObserveAllInputs bool   `toml:"observe_all_inputs" yaml:"observe_all_inputs"`
	MaxIterations    int    `toml:"max_iterations" yaml:"max_iterations"`
	MaxDepth         int    `toml:"max_depth" yaml:"max_depth"`
	Workers          int    `toml:"workers" yaml:"workers"`
}

// Cache selects and configures the result cache.
type Cache struct {
	Backend       string        `toml:"backend" yaml:"backend"`
	TTL           time.Duration `toml:"ttl" yaml:"ttl"`
	Dir           string        `toml:"dir" yaml:"dir"`
	RedisAddr     string        `toml:"redis_addr" yaml:"redis_addr"`
	RedisPassword string        `toml:"redis_password" yaml:"redis_password"`
	RedisDB       int           `toml:"redis_db" yaml:"redis_db"`
}

// Store configures the run history database.
type Store struct {
	Path string `toml:"path" yaml:"path"`
}

// Config is the whole configuration file.
type Config struct {
	Analysis Analysis `toml:"analysis" yaml:"analysis"`
	Cache    Cache    `toml:"cache" yaml:"cache"`
	Store    Store    `toml:"store" yaml:"store"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Analysis: Analysis{
			Rules:       "standard",
			UnknownGate: "buffer",
			MaxDepth:    20,
		},
		Cache: Cache{
			Backend:   BackendFile,
			TTL:       24 * time.Hour,
			Dir:       CacheDir(),
			RedisAddr: "localhost:6379",
		},
		Store: Store{Path: filepath.Join(DataDir(), "history.db")},
	}
}

// CacheDir returns the XDG cache directory, e.g. ~/.cache/opentestability.
func CacheDir() string { return filepath.Join(xdg.CacheHome, AppName) }

// DataDir returns the XDG data directory, e.g. ~/.local/share/opentestability.
func DataDir() string { return filepath.Join(xdg.DataHome, AppName) }

// ConfigDir returns the XDG config directory, e.g. ~/.config/opentestability.
func ConfigDir() string { return filepath.Join(xdg.ConfigHome, AppName) }

// Load reads path over the defaults, so keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "config %s", path)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "config %s: unknown extension, want .toml, .yaml or .yml", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFormat, err, "config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Find returns the first existing config file, searching
// ./.opentestability.{toml,yaml,yml} and then the XDG config directory.
// It returns "" when there is none.
func Find() string {
	var candidates []string
	for _, ext := range []string{".toml", ".yaml", ".yml"} {
		candidates = append(candidates, ".opentestability"+ext)
	}
	for _, ext := range []string{".toml", ".yaml", ".yml"} {
		candidates = append(candidates, filepath.Join(ConfigDir(), "config"+ext))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}

// LoadDefault loads the file named by explicit, or the one Find locates,
// or the defaults when neither exists. An explicit path that does not
// exist is an error.
func LoadDefault(explicit string) (*Config, string, error) {
	path := explicit
	if path == "" {
		path = Find()
	}
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// Validate checks option ranges and enumerations.
func (c *Config) Validate() error {
	a := c.Analysis
	switch a.Rules {
	case "standard", "legacy":
	default:
		return errors.New(errors.ErrCodeInvalidInput, "analysis.rules must be standard or legacy, got %q", a.Rules)
	}
	switch strings.ToLower(a.UnknownGate) {
	case "buffer", "buf", "invert", "inv", "not":
	default:
		return errors.New(errors.ErrCodeInvalidInput, "analysis.unknown_gate must be buffer or invert, got %q", a.UnknownGate)
	}
	if a.MaxDepth <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "analysis.max_depth must be positive, got %d", a.MaxDepth)
	}
	if a.MaxIterations < 0 || a.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "analysis.max_iterations and analysis.workers must not be negative")
	}

	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	return nil
}
