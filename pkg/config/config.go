// Package config resolves docgraph's configuration.
//
// Values come from three layers, each overriding the last: built-in
// defaults ([Default]), the project file .docgraph.toml, and command-line
// flags. The project file is TOML:
//
//	entrypoint = "README.md"
//	entrypoints = ["docs/index.md"]
//	max_depth = -1
//	scope_limit = true
//	external_links = "warn"
//	exclude = ["*.draft.md", "!important.draft.md"]
//	respect_gitignore = true
//	concurrency = 10
//
// Relative paths in the file resolve against the file's directory.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/docgraph/pkg/check"
	"github.com/matzehuels/docgraph/pkg/errors"
	"github.com/matzehuels/docgraph/pkg/exclude"
	"github.com/matzehuels/docgraph/pkg/fsutil"
)

// FileName is the project config file discovered in the working directory.
const FileName = ".docgraph.toml"

// Defaults.
const (
	DefaultEntrypoint  = "README.md"
	DefaultMaxDepth    = -1
	DefaultConcurrency = check.DefaultConcurrency
)

// Config is the resolved configuration.
type Config struct {
	Entrypoint         string   `toml:"entrypoint"`
	Entrypoints        []string `toml:"entrypoints"` // Additional entry points
	MaxDepth           int      `toml:"max_depth"`   // Negative means unlimited
	ScopeLimit         bool     `toml:"scope_limit"`
	ScopeRoot          string   `toml:"scope_root"`
	ExternalLinks      string   `toml:"external_links"`
	Exclude            []string `toml:"exclude"`
	RespectGitignore   bool     `toml:"respect_gitignore"`
	ExcludeHidden      bool     `toml:"exclude_hidden"`
	ExcludeNodeModules bool     `toml:"exclude_node_modules"`
	IgnoreFile         string   `toml:"ignore_file"`
	Concurrency        int      `toml:"concurrency"`
	StrictAnchors      bool     `toml:"strict_anchors"`

	// Dir is the directory relative paths resolve against: the config
	// file's directory, or the working directory without one.
	Dir string `toml:"-"`

	// Source is the config file path, empty when none was loaded.
	Source string `toml:"-"`
}

// Default returns the built-in defaults rooted at dir.
func Default(dir string) Config {
	return Config{
		Entrypoint:         DefaultEntrypoint,
		MaxDepth:           DefaultMaxDepth,
		ScopeLimit:         true,
		ExternalLinks:      string(check.DefaultPolicy),
		ExcludeHidden:      true,
		ExcludeNodeModules: true,
		Concurrency:        DefaultConcurrency,
		Dir:                fsutil.Abs(dir),
	}
}

// Load reads the config file at path on top of the defaults. Unknown keys
// are rejected so typos do not silently fall back to defaults.
func Load(path string) (Config, error) {
	path = fsutil.Abs(path)
	cfg := Default(filepath.Dir(path))
	cfg.Source = path

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig,
			"%s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// Discover loads FileName from dir if present, otherwise returns defaults
// rooted at dir.
func Discover(dir string) (Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Default(dir), nil
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "stat %s", path)
	}
	return Load(path)
}

// Validate checks the configuration for contradictions.
func (c Config) Validate() error {
	if len(c.AllEntrypoints()) == 0 {
		return errors.New(errors.ErrCodeNoEntrypoints, "no entrypoint configured")
	}
	for _, e := range append([]string{c.Entrypoint}, c.Entrypoints...) {
		if e == "" {
			continue
		}
		if err := errors.ValidateEntrypoint(e); err != nil {
			return err
		}
	}
	if _, err := check.ParsePolicy(c.ExternalLinks); err != nil {
		return err
	}
	if err := errors.ValidateConcurrency(c.Concurrency); err != nil {
		return err
	}
	for _, p := range c.Exclude {
		if err := errors.ValidatePattern(p); err != nil {
			return err
		}
	}
	if len(c.IgnoreFile) > errors.MaxPathLength {
		return errors.New(errors.ErrCodeInvalidConfig, "ignore_file too long (max %d characters)", errors.MaxPathLength)
	}
	return nil
}

// Policy returns the parsed external link policy.
func (c Config) Policy() check.Policy {
	p, err := check.ParsePolicy(c.ExternalLinks)
	if err != nil {
		return check.DefaultPolicy
	}
	return p
}

// AllEntrypoints returns the primary and additional entry points as
// absolute paths, deduplicated, primary first.
func (c Config) AllEntrypoints() []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range append([]string{c.Entrypoint}, c.Entrypoints...) {
		if e == "" {
			continue
		}
		abs := c.Resolve(e)
		if !seen[abs] {
			seen[abs] = true
			out = append(out, abs)
		}
	}
	return out
}

// Resolve makes path absolute against Dir.
func (c Config) Resolve(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return fsutil.Abs(path)
	}
	return fsutil.Abs(filepath.Join(c.Dir, path))
}

// ResolvedScopeRoot returns the configured scope root as an absolute path,
// or "" when none is configured or scope limiting is off.
func (c Config) ResolvedScopeRoot() string {
	if !c.ScopeLimit || c.ScopeRoot == "" {
		return ""
	}
	return c.Resolve(c.ScopeRoot)
}

// ExcludeOptions returns matcher options for base with the given
// command-line patterns appended.
func (c Config) ExcludeOptions(base string, cliPatterns []string) exclude.Options {
	opts := exclude.Options{
		BaseDir:             base,
		ExcludeHidden:       c.ExcludeHidden,
		ExcludeNodeModules:  c.ExcludeNodeModules,
		RespectGitignore:    c.RespectGitignore,
		ConfigPatterns:      c.Exclude,
		CommandLinePatterns: cliPatterns,
	}
	if c.IgnoreFile != "" {
		opts.IgnoreFile = c.Resolve(c.IgnoreFile)
	}
	return opts
}
