// Package pipeline runs the docgraph check pipeline shared by every CLI
// command.
//
// A run has three stages:
//
//  1. Build: traverse the document graph from the entry points
//  2. Orphans: walk the scope root and report markdown files the build
//     never reached
//  3. Validate: resolve every link and anchor of every graph node
//
// Every run builds a fresh graph and reads files through the runner's
// content cache. Stages can be skipped through [Options].
//
// # Usage
//
//	cfg, _ := config.Discover(".")
//	runner := pipeline.NewRunner(nil, logger)
//	result, err := runner.Execute(ctx, pipeline.FromConfig(cfg, nil))
//	if err != nil {
//	    return err
//	}
//	if check.HasErrors(result.Findings) {
//	    os.Exit(1)
//	}
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/docgraph/pkg/check"
	"github.com/matzehuels/docgraph/pkg/config"
	"github.com/matzehuels/docgraph/pkg/errors"
	"github.com/matzehuels/docgraph/pkg/exclude"
	"github.com/matzehuels/docgraph/pkg/graph"
)

// Options configures one pipeline run.
type Options struct {
	// Entrypoints are the traversal roots. Relative paths resolve against
	// BaseDir.
	Entrypoints []string

	// MaxDepth bounds link hops from an entry point. Negative means
	// unlimited.
	MaxDepth int

	// ScopeRoot overrides the derived scope root.
	ScopeRoot string

	// NoScope disables the scope boundary.
	NoScope bool

	// BaseDir anchors relative paths in findings and output.
	BaseDir string

	// Exclude configures the exclusion matcher. Its BaseDir defaults to
	// BaseDir.
	Exclude exclude.Options

	ExternalPolicy check.Policy
	Concurrency    int
	StrictAnchors  bool

	SkipOrphans    bool
	SkipValidation bool

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger
}

// FromConfig derives run options from a resolved configuration.
// cliPatterns are appended as the highest-priority exclusion source.
func FromConfig(cfg config.Config, cliPatterns []string) Options {
	return Options{
		Entrypoints:    cfg.AllEntrypoints(),
		MaxDepth:       cfg.MaxDepth,
		ScopeRoot:      cfg.ResolvedScopeRoot(),
		NoScope:        !cfg.ScopeLimit,
		BaseDir:        cfg.Dir,
		Exclude:        cfg.ExcludeOptions(cfg.Dir, cliPatterns),
		ExternalPolicy: cfg.Policy(),
		Concurrency:    cfg.Concurrency,
		StrictAnchors:  cfg.StrictAnchors,
	}
}

// Validate checks the options before a run.
func (o Options) Validate() error {
	if len(o.Entrypoints) == 0 {
		return errors.New(errors.ErrCodeNoEntrypoints, "no entrypoints given")
	}
	for _, e := range o.Entrypoints {
		if err := errors.ValidateEntrypoint(e); err != nil {
			return err
		}
	}
	if o.ExternalPolicy != "" {
		if _, err := check.ParsePolicy(string(o.ExternalPolicy)); err != nil {
			return err
		}
	}
	return nil
}

// Result holds the output of one run.
type Result struct {
	// RunID identifies the run in JSON reports and logs.
	RunID string

	Graph *graph.Graph

	// ScopeRoot is the scope boundary the build used, "" when unbounded.
	ScopeRoot string

	// BaseDir is the directory relative paths are reported against.
	BaseDir string

	// Files lists every markdown file the orphan scan saw.
	Files []string

	// External lists out-of-scope link targets seen during the build.
	External []string

	Findings []check.Finding
	Summary  check.Summary
	Stats    Stats
}

// Root returns the directory the run covers: the scope root, or the base
// directory when the build was unbounded. Orphan scans and watchers use it.
func (r *Result) Root() string {
	if r.ScopeRoot != "" {
		return r.ScopeRoot
	}
	return r.BaseDir
}

// Stats reports timings and sizes for a run.
type Stats struct {
	BuildTime    time.Duration
	OrphanTime   time.Duration
	ValidateTime time.Duration
	NodeCount    int
	EdgeCount    int
	CachedFiles  int
	CachedBytes  int64
}

// Report is the JSON form of a run's findings.
type Report struct {
	RunID    string          `json:"runId"`
	Findings []check.Finding `json:"findings"`
	Summary  check.Summary   `json:"summary"`
}

// Report returns the serializable findings report.
func (r *Result) Report() Report {
	findings := r.Findings
	if findings == nil {
		findings = []check.Finding{}
	}
	return Report{RunID: r.RunID, Findings: findings, Summary: r.Summary}
}
