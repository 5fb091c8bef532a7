package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/docgraph/pkg/builder"
	"github.com/matzehuels/docgraph/pkg/cache"
	"github.com/matzehuels/docgraph/pkg/check"
	"github.com/matzehuels/docgraph/pkg/exclude"
	"github.com/matzehuels/docgraph/pkg/fsutil"
	"github.com/matzehuels/docgraph/pkg/graph"
	"github.com/matzehuels/docgraph/pkg/observability"
	"github.com/matzehuels/docgraph/pkg/walk"
)

// Runner executes the pipeline against a content cache.
//
// The Runner holds no per-run state besides the cache, so sequential runs
// over unchanged files reuse parsed documents. Call [Runner.Reset] when
// files may have changed between runs.
type Runner struct {
	Cache  *cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache gets a fresh one; a nil logger
// reports warnings only.
func NewRunner(c *cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.New()
	}
	return &Runner{Cache: c, Logger: observability.Logger(logger)}
}

// Reset drops every cached file.
func (r *Runner) Reset() { r.Cache.Clear() }

// Build is the output of the build stage.
type Build struct {
	Graph     *graph.Graph
	ScopeRoot string
	BaseDir   string
	External  []string
	Matcher   *exclude.Matcher
}

// Build runs only the build stage.
func (r *Runner) Build(ctx context.Context, opts Options) (*Build, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = r.withDefaults(opts)

	matcher, err := exclude.New(opts.Exclude)
	if err != nil {
		return nil, err
	}

	b := builder.New(r.Cache, builder.Options{
		ScopeRoot: opts.ScopeRoot,
		NoScope:   opts.NoScope,
		Exclude:   matcher,
		Logger:    opts.Logger,
	})

	entries := make([]string, len(opts.Entrypoints))
	for i, e := range opts.Entrypoints {
		entries[i] = resolve(opts.BaseDir, e)
	}

	var g *graph.Graph
	if len(entries) == 1 {
		g, err = b.Build(ctx, entries[0], opts.MaxDepth)
	} else {
		g, err = b.BuildFromMultiple(ctx, entries, opts.MaxDepth)
	}
	if err != nil {
		return nil, err
	}

	return &Build{
		Graph:     g,
		ScopeRoot: b.ScopeRoot(),
		BaseDir:   opts.BaseDir,
		External:  b.External(),
		Matcher:   matcher,
	}, nil
}

// Execute runs the complete build → orphans → validate pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	opts = r.withDefaults(opts)
	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID[:8])

	// Stage 1: Build
	buildStart := time.Now()
	built, err := r.Build(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Graph = built.Graph
	result.ScopeRoot = built.ScopeRoot
	result.BaseDir = built.BaseDir
	result.External = built.External
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = built.Graph.NodeCount()
	result.Stats.EdgeCount = built.Graph.EdgeCount()

	logger.Info("built graph",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"external", len(result.External),
		"duration", result.Stats.BuildTime)

	// Stage 2: Orphans
	if !opts.SkipOrphans {
		orphanStart := time.Now()
		files, err := walk.Markdown(ctx, result.Root(), built.Matcher)
		if err != nil {
			return nil, fmt.Errorf("orphans: %w", err)
		}
		result.Files = files
		orphans := check.Orphans(built.Graph, files, opts.BaseDir)
		result.Findings = append(result.Findings, orphans...)
		result.Stats.OrphanTime = time.Since(orphanStart)

		logger.Info("scanned for orphans",
			"files", len(files),
			"orphans", len(orphans),
			"duration", result.Stats.OrphanTime)
	}

	// Stage 3: Validate
	if !opts.SkipValidation {
		validateStart := time.Now()
		v := check.NewValidator(r.Cache, check.Options{
			Concurrency:    opts.Concurrency,
			ExternalPolicy: opts.ExternalPolicy,
			ScopeRoot:      built.ScopeRoot,
			BaseDir:        opts.BaseDir,
			StrictAnchors:  opts.StrictAnchors,
			Logger:         opts.Logger,
		})
		findings, err := v.Validate(ctx, built.Graph)
		if err != nil {
			return nil, fmt.Errorf("validate: %w", err)
		}
		result.Findings = append(result.Findings, findings...)
		result.Stats.ValidateTime = time.Since(validateStart)

		logger.Info("validated links",
			"files", built.Graph.NodeCount(),
			"findings", len(findings),
			"duration", result.Stats.ValidateTime)
	}

	result.Summary = check.Summarize(result.Findings)
	stats := r.Cache.Stats()
	result.Stats.CachedFiles = stats.Files
	result.Stats.CachedBytes = stats.Bytes
	return result, nil
}

// withDefaults fills in the runner's logger and the working directory.
func (r *Runner) withDefaults(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if opts.BaseDir == "" {
		opts.BaseDir = "."
	}
	opts.BaseDir = fsutil.Abs(opts.BaseDir)
	if opts.Exclude.BaseDir == "" {
		opts.Exclude.BaseDir = opts.BaseDir
	}
	if opts.ExternalPolicy == "" {
		opts.ExternalPolicy = check.DefaultPolicy
	}
	return opts
}

func resolve(base, path string) string {
	if filepath.IsAbs(path) {
		return fsutil.Abs(path)
	}
	return fsutil.Abs(filepath.Join(base, path))
}
