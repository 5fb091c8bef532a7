// Package builder constructs the document graph by following relative
// markdown links from one or more entry points.
//
// Traversal is depth-first. A node is committed to the graph before its own
// links are expanded, so link cycles terminate: the second visit finds the
// node already present and stops.
//
// For each candidate file the builder, in order:
//
//   - stops if the file is already a node
//   - stops if its depth exceeds the depth limit
//   - records it as external and stops if it lies outside the scope root
//   - stops if the exclusion matcher rejects it
//   - stops if it does not exist (dead links are reported by the validator)
//
// Otherwise the file becomes a node. A node at exactly the depth limit is
// not expanded. For every other node each outgoing link becomes an edge,
// except links to excluded files, which are dropped. Links to out-of-scope
// files keep their edge but are never followed.
//
// # Multiple Entry Points
//
// [Builder.BuildFromMultiple] traverses each entry point into its own
// subgraph and merges them: a node keeps the smallest depth any subgraph
// assigned it and edges are unioned. Unless a scope root is configured, the
// scope root is the common ancestor directory of the entry points.
//
// # Errors
//
// A missing entry point is not an error: a single-entry build returns an
// empty graph and a multi-entry build skips it. An existing entry point
// outside a configured scope root fails with
// [errors.ErrCodeEntryOutOfScope]. Read and parse failures on files the
// builder committed as nodes fail the whole build.
package builder

import (
	"context"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/docgraph/pkg/cache"
	"github.com/matzehuels/docgraph/pkg/errors"
	"github.com/matzehuels/docgraph/pkg/exclude"
	"github.com/matzehuels/docgraph/pkg/fsutil"
	"github.com/matzehuels/docgraph/pkg/graph"
	"github.com/matzehuels/docgraph/pkg/observability"
)

// Unlimited disables the depth limit.
const Unlimited = -1

// Options configures a Builder.
type Options struct {
	// ScopeRoot overrides the scope boundary. Empty means the entry point's
	// directory (or the common ancestor of several entry points).
	ScopeRoot string

	// NoScope disables the scope boundary entirely.
	NoScope bool

	// Exclude filters candidate files. Nil excludes nothing.
	Exclude exclude.Excluder

	// Logger receives debug output for skipped files. Nil reports warnings only.
	Logger *log.Logger
}

// WithDefaults returns a copy of o with nil fields filled in.
func (o Options) WithDefaults() Options {
	if o.Exclude == nil {
		o.Exclude = exclude.None
	}
	o.Logger = observability.Logger(o.Logger)
	return o
}

// Builder builds document graphs. A Builder holds the external targets of
// its most recent build and must not run two builds concurrently.
type Builder struct {
	cache *cache.Cache
	opts  Options

	scope    string
	external []string
}

// New creates a Builder that reads files through c.
func New(c *cache.Cache, opts Options) *Builder {
	return &Builder{cache: c, opts: opts.WithDefaults()}
}

// Build traverses from entry up to maxDepth link hops. A negative maxDepth
// means unlimited.
func (b *Builder) Build(ctx context.Context, entry string, maxDepth int) (g *graph.Graph, err error) {
	entry = fsutil.Abs(entry)
	start := time.Now()
	observability.Build().OnBuildStart(ctx, []string{entry})
	defer func() { b.complete(ctx, g, start, err) }()

	scope := b.opts.ScopeRoot
	if scope == "" {
		scope = filepath.Dir(entry)
	}
	b.reset(scope)

	if !fsutil.IsFile(entry) {
		b.opts.Logger.Debug("entrypoint not found", "path", entry)
		return graph.New(), nil
	}
	if err := b.checkEntry(entry); err != nil {
		return nil, err
	}

	t := b.traversal(ctx, maxDepth)
	if err := t.visit(entry, 0); err != nil {
		return nil, err
	}
	b.finish(t)
	return t.g, nil
}

// BuildFromMultiple traverses from every entry point and merges the results.
// Entry points missing on disk are skipped.
func (b *Builder) BuildFromMultiple(ctx context.Context, entries []string, maxDepth int) (g *graph.Graph, err error) {
	abs := make([]string, len(entries))
	for i, e := range entries {
		abs[i] = fsutil.Abs(e)
	}
	start := time.Now()
	observability.Build().OnBuildStart(ctx, abs)
	defer func() { b.complete(ctx, g, start, err) }()

	var present []string
	for _, e := range abs {
		if !fsutil.IsFile(e) {
			b.opts.Logger.Debug("entrypoint not found, skipping", "path", e)
			continue
		}
		present = append(present, e)
	}

	scope := b.opts.ScopeRoot
	if scope == "" {
		scope = fsutil.CommonAncestor(present)
	}
	b.reset(scope)

	merged := graph.New()
	found := make(map[string]bool)
	var external []string
	for _, e := range present {
		if err := b.checkEntry(e); err != nil {
			return nil, err
		}
		t := b.traversal(ctx, maxDepth)
		if err := t.visit(e, 0); err != nil {
			return nil, err
		}
		merged.Merge(t.g)
		for _, x := range t.external {
			if !found[x] {
				found[x] = true
				external = append(external, x)
			}
		}
	}
	slices.Sort(external)
	b.external = external
	return merged, nil
}

// External returns the sorted out-of-scope link targets seen by the most
// recent build.
func (b *Builder) External() []string { return slices.Clone(b.external) }

// ScopeRoot returns the scope root used by the most recent build, or "" when
// scope limiting is disabled.
func (b *Builder) ScopeRoot() string {
	if b.opts.NoScope {
		return ""
	}
	return b.scope
}

func (b *Builder) reset(scope string) {
	if scope != "" {
		scope = fsutil.Abs(scope)
	}
	b.scope = scope
	b.external = nil
}

// checkEntry rejects an existing entry point outside an explicitly
// configured scope root. A derived scope root always contains its entries.
func (b *Builder) checkEntry(entry string) error {
	if b.opts.NoScope || b.opts.ScopeRoot == "" {
		return nil
	}
	if !fsutil.Within(b.scope, entry) {
		return errors.New(errors.ErrCodeEntryOutOfScope,
			"entrypoint %s is outside scope root %s", entry, b.scope)
	}
	return nil
}

func (b *Builder) traversal(ctx context.Context, maxDepth int) *traversal {
	return &traversal{
		ctx:      ctx,
		cache:    b.cache,
		exclude:  b.opts.Exclude,
		logger:   b.opts.Logger,
		scope:    b.ScopeRoot(),
		maxDepth: maxDepth,
		g:        graph.New(),
		seen:     make(map[string]bool),
	}
}

func (b *Builder) finish(t *traversal) {
	ext := slices.Clone(t.external)
	slices.Sort(ext)
	b.external = ext
}

func (b *Builder) complete(ctx context.Context, g *graph.Graph, start time.Time, err error) {
	var nodes, edges int
	if g != nil {
		nodes, edges = g.NodeCount(), g.EdgeCount()
	}
	observability.Build().OnBuildComplete(ctx, nodes, edges, time.Since(start), err)
	if err == nil {
		b.opts.Logger.Debug("built graph", "nodes", nodes, "edges", edges, "external", len(b.external))
	}
}

// traversal is one depth-first walk from a single entry point into its own
// graph.
type traversal struct {
	ctx      context.Context
	cache    *cache.Cache
	exclude  exclude.Excluder
	logger   *log.Logger
	scope    string
	maxDepth int

	g        *graph.Graph
	seen     map[string]bool // external targets already recorded
	external []string
}

func (t *traversal) inScope(path string) bool {
	return t.scope == "" || fsutil.Within(t.scope, path)
}

func (t *traversal) recordExternal(path string) {
	if !t.seen[path] {
		t.seen[path] = true
		t.external = append(t.external, path)
	}
}

func (t *traversal) visit(path string, depth int) error {
	if err := t.ctx.Err(); err != nil {
		return err
	}
	if t.g.HasFile(path) {
		return nil
	}
	if t.maxDepth >= 0 && depth > t.maxDepth {
		return nil
	}
	if !t.inScope(path) {
		t.recordExternal(path)
		return nil
	}
	if t.exclude.ShouldExclude(path) {
		t.logger.Debug("excluded", "path", path)
		return nil
	}
	if !fsutil.IsFile(path) {
		return nil
	}

	t.g.AddFile(path, depth)
	if depth == t.maxDepth {
		return nil
	}

	links, err := t.cache.LinkTargets(t.ctx, path)
	if err != nil {
		return err
	}
	for _, link := range links {
		linkPath, _ := fsutil.SplitFragment(link)
		target := fsutil.Resolve(path, linkPath)
		if !t.inScope(target) {
			t.recordExternal(target)
			t.g.AddEdge(path, target)
			continue
		}
		if t.exclude.ShouldExclude(target) {
			continue
		}
		t.g.AddEdge(path, target)
		if err := t.visit(target, depth+1); err != nil {
			return err
		}
	}
	return nil
}
