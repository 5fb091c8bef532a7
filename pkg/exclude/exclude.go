// Package exclude decides which paths docgraph ignores.
//
// A [Matcher] merges gitignore-style patterns from five sources, in
// ascending priority:
//
//  1. builtin: hidden paths (".*") and "node_modules/", each toggleable
//  2. gitignore: the base directory's .gitignore, only when enabled
//  3. ignore-file: .docgraphignore in the base directory, or an explicit file
//  4. config: patterns from the project config file
//  5. cli: patterns passed on the command line
//
// All patterns are compiled in that order into one gitignore matcher, so the
// last matching pattern wins and a negation ("!keep.md") from a later source
// re-includes a path an earlier source excluded.
//
// Candidates are matched relative to the base directory with forward
// slashes. A path outside the base directory is never excluded.
package exclude

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/matzehuels/docgraph/pkg/errors"
	"github.com/matzehuels/docgraph/pkg/fsutil"
)

// IgnoreFileName is the dedicated ignore file discovered in the base
// directory when no explicit ignore file is configured.
const IgnoreFileName = ".docgraphignore"

// Builtin patterns.
const (
	HiddenPattern      = ".*"
	NodeModulesPattern = "node_modules/"
)

// Source identifies where a pattern came from.
type Source string

// Pattern sources in ascending priority.
const (
	SourceBuiltin    Source = "builtin"
	SourceGitignore  Source = "gitignore"
	SourceIgnoreFile Source = "ignore-file"
	SourceConfig     Source = "config"
	SourceCLI        Source = "cli"
)

// Sources lists every source in priority order.
var Sources = []Source{SourceBuiltin, SourceGitignore, SourceIgnoreFile, SourceConfig, SourceCLI}

// Pattern is one exclusion rule and its origin.
type Pattern struct {
	Pattern string
	Source  Source
}

// Excluder is what traversal components need from a matcher.
type Excluder interface {
	ShouldExclude(path string) bool
	ShouldExcludeDir(path string) bool
}

type none struct{}

func (none) ShouldExclude(string) bool    { return false }
func (none) ShouldExcludeDir(string) bool { return false }

// None excludes nothing. Components use it when the caller supplies no
// matcher.
var None Excluder = none{}

// Options configures a Matcher.
type Options struct {
	// BaseDir is the directory patterns are relative to. Defaults to the
	// working directory.
	BaseDir string

	ExcludeHidden       bool
	ExcludeNodeModules  bool
	RespectGitignore    bool
	IgnoreFile          string // Explicit ignore file; must exist when set
	DisableIgnoreFile   bool   // Skip .docgraphignore discovery
	ConfigPatterns      []string
	CommandLinePatterns []string
}

// DefaultOptions returns options with both builtin patterns enabled.
func DefaultOptions(base string) Options {
	return Options{
		BaseDir:            base,
		ExcludeHidden:      true,
		ExcludeNodeModules: true,
	}
}

// Matcher answers exclusion queries against a merged pattern set.
// A Matcher is safe for concurrent use.
type Matcher struct {
	base     string
	patterns []Pattern
	gi       *ignore.GitIgnore

	mu      sync.Mutex
	results map[string]bool
}

// New builds a Matcher from opts. It fails when an explicit ignore file
// cannot be read or a config or CLI pattern is malformed.
func New(opts Options) (*Matcher, error) {
	base := opts.BaseDir
	if base == "" {
		base = "."
	}
	m := &Matcher{
		base:    fsutil.Abs(base),
		results: make(map[string]bool),
	}

	if opts.ExcludeHidden {
		m.add(SourceBuiltin, HiddenPattern)
	}
	if opts.ExcludeNodeModules {
		m.add(SourceBuiltin, NodeModulesPattern)
	}

	if opts.RespectGitignore {
		lines, err := readPatternFile(filepath.Join(m.base, ".gitignore"), false)
		if err != nil {
			return nil, err
		}
		m.add(SourceGitignore, lines...)
	}

	switch {
	case opts.IgnoreFile != "":
		path := opts.IgnoreFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(m.base, path)
		}
		lines, err := readPatternFile(path, true)
		if err != nil {
			return nil, err
		}
		m.add(SourceIgnoreFile, lines...)
	case !opts.DisableIgnoreFile:
		lines, err := readPatternFile(filepath.Join(m.base, IgnoreFileName), false)
		if err != nil {
			return nil, err
		}
		m.add(SourceIgnoreFile, lines...)
	}

	for _, p := range opts.ConfigPatterns {
		if err := errors.ValidatePattern(p); err != nil {
			return nil, err
		}
		m.add(SourceConfig, strings.TrimSpace(p))
	}
	for _, p := range opts.CommandLinePatterns {
		if err := errors.ValidatePattern(p); err != nil {
			return nil, err
		}
		m.add(SourceCLI, strings.TrimSpace(p))
	}

	lines := make([]string, len(m.patterns))
	for i, p := range m.patterns {
		lines[i] = p.Pattern
	}
	m.gi = ignore.CompileIgnoreLines(lines...)
	return m, nil
}

func (m *Matcher) add(src Source, patterns ...string) {
	for _, p := range patterns {
		m.patterns = append(m.patterns, Pattern{Pattern: p, Source: src})
	}
}

// Base returns the directory patterns are matched against.
func (m *Matcher) Base() string { return m.base }

// ShouldExclude reports whether path is excluded.
func (m *Matcher) ShouldExclude(path string) bool {
	return m.match(fsutil.Abs(path), false)
}

// ShouldExcludeDir reports whether the directory at path is excluded,
// testing both its plain and trailing-slash forms so directory-only patterns
// ("drafts/") prune the whole subtree.
func (m *Matcher) ShouldExcludeDir(path string) bool {
	return m.match(fsutil.Abs(path), true)
}

func (m *Matcher) match(abs string, dir bool) bool {
	key := abs
	if dir {
		key += "/"
	}
	m.mu.Lock()
	v, ok := m.results[key]
	m.mu.Unlock()
	if ok {
		return v
	}

	v = m.compute(abs, dir)

	m.mu.Lock()
	m.results[key] = v
	m.mu.Unlock()
	return v
}

func (m *Matcher) compute(abs string, dir bool) bool {
	if len(m.patterns) == 0 {
		return false
	}
	rel := fsutil.Rel(m.base, abs)
	if rel == "." || fsutil.Escapes(rel) || filepath.IsAbs(rel) {
		return false
	}
	if dir {
		return m.gi.MatchesPath(rel) || m.gi.MatchesPath(rel+"/")
	}
	return m.gi.MatchesPath(rel)
}

// Patterns returns every pattern in match order.
func (m *Matcher) Patterns() []Pattern {
	out := make([]Pattern, len(m.patterns))
	copy(out, m.patterns)
	return out
}

// Stats returns the number of patterns contributed by each source.
// Every source is present, possibly with zero.
func (m *Matcher) Stats() map[Source]int {
	stats := make(map[Source]int, len(Sources))
	for _, s := range Sources {
		stats[s] = 0
	}
	for _, p := range m.patterns {
		stats[p.Source]++
	}
	return stats
}

// readPatternFile returns the pattern lines of an ignore file, dropping
// blanks and comments. A missing file yields no patterns unless required.
func readPatternFile(path string, required bool) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read ignore file %s", path)
	}
	return ParsePatterns(data), nil
}

// ParsePatterns splits ignore-file content into patterns, dropping blank
// lines and comments.
func ParsePatterns(data []byte) []string {
	var out []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
