package check

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/docgraph/pkg/cache"
	"github.com/matzehuels/docgraph/pkg/errors"
	"github.com/matzehuels/docgraph/pkg/fsutil"
	"github.com/matzehuels/docgraph/pkg/graph"
	"github.com/matzehuels/docgraph/pkg/markdown"
	"github.com/matzehuels/docgraph/pkg/observability"
)

// DefaultConcurrency is the number of files validated at once.
const DefaultConcurrency = 10

// Options configures a Validator.
type Options struct {
	// Concurrency bounds the files validated at once. Zero means
	// DefaultConcurrency; other values are clamped to
	// [errors.MinConcurrency, errors.MaxConcurrency].
	Concurrency int

	// ExternalPolicy applies to links whose target lies outside ScopeRoot.
	// Empty means DefaultPolicy.
	ExternalPolicy Policy

	// ScopeRoot is the scope boundary. Empty disables the external policy.
	ScopeRoot string

	// BaseDir is the directory finding paths are relative to. Empty means
	// ScopeRoot, or the working directory without one.
	BaseDir string

	// StrictAnchors reports an anchor whose target headings cannot be read
	// as a dead anchor instead of passing it.
	StrictAnchors bool

	Logger *log.Logger
}

// WithDefaults returns a copy of o with zero fields filled in and
// Concurrency clamped.
func (o Options) WithDefaults() Options {
	switch {
	case o.Concurrency == 0:
		o.Concurrency = DefaultConcurrency
	case o.Concurrency < errors.MinConcurrency:
		o.Concurrency = errors.MinConcurrency
	case o.Concurrency > errors.MaxConcurrency:
		o.Concurrency = errors.MaxConcurrency
	}
	if o.ExternalPolicy == "" {
		o.ExternalPolicy = DefaultPolicy
	}
	if o.ScopeRoot != "" {
		o.ScopeRoot = fsutil.Abs(o.ScopeRoot)
	}
	if o.BaseDir == "" {
		o.BaseDir = o.ScopeRoot
	}
	o.BaseDir = fsutil.Abs(o.BaseDir)
	o.Logger = observability.Logger(o.Logger)
	return o
}

// Validator checks every link of every file in a graph.
type Validator struct {
	cache *cache.Cache
	opts  Options
}

// NewValidator creates a Validator reading files through c.
func NewValidator(c *cache.Cache, opts Options) *Validator {
	return &Validator{cache: c, opts: opts.WithDefaults()}
}

// Options returns the effective options.
func (v *Validator) Options() Options { return v.opts }

// Validate checks the links of every file in g. Only files in the graph are
// validated; link targets are checked against the filesystem.
//
// At most Options.Concurrency files are in flight. If a file cannot be read
// or parsed, the first such error is returned once in-flight files finish.
func (v *Validator) Validate(ctx context.Context, g *graph.Graph) (findings []Finding, err error) {
	files := g.Files()
	start := time.Now()
	observability.Validate().OnValidateStart(ctx, len(files))
	defer func() {
		observability.Validate().OnValidateComplete(ctx, len(findings), time.Since(start), err)
	}()

	results := make([][]Finding, len(files))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(v.opts.Concurrency)

	for i, file := range files {
		if egCtx.Err() != nil {
			break
		}
		eg.Go(func() error {
			fileStart := time.Now()
			res, err := v.validateFile(egCtx, file)
			if err != nil {
				return err
			}
			results[i] = res
			observability.Validate().OnFileValidated(egCtx, file, len(res), time.Since(fileStart))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, res := range results {
		findings = append(findings, res...)
	}
	v.opts.Logger.Debug("validated links", "files", len(files), "findings", len(findings))
	return findings, nil
}

// validateFile checks each link of file concurrently and returns the
// findings in document order.
func (v *Validator) validateFile(ctx context.Context, file string) ([]Finding, error) {
	doc, err := v.cache.Document(ctx, file)
	if err != nil {
		return nil, err
	}

	slots := make([][]Finding, len(doc.Links))
	var eg errgroup.Group
	for i, link := range doc.Links {
		eg.Go(func() error {
			slots[i] = v.checkLink(ctx, file, link)
			return nil
		})
	}
	_ = eg.Wait()

	var out []Finding
	for _, s := range slots {
		out = append(out, s...)
	}
	return out, nil
}

// checkLink classifies one link and returns its findings.
func (v *Validator) checkLink(ctx context.Context, file string, link markdown.Link) []Finding {
	dest := link.URL
	if dest == "" || fsutil.HasScheme(dest) || fsutil.IsRootRelative(dest) {
		return nil
	}

	linkPath, fragment := fsutil.SplitFragment(dest)
	if linkPath == "" {
		if fragment == "" {
			return nil
		}
		if f, ok := v.checkAnchor(ctx, file, link, file, fragment); !ok {
			return []Finding{f}
		}
		return nil
	}

	target := fsutil.Resolve(file, linkPath)
	external := v.opts.ScopeRoot != "" && !fsutil.Within(v.opts.ScopeRoot, target)
	if external && v.opts.ExternalPolicy == PolicyIgnore {
		return nil
	}

	var out []Finding
	exists := fsutil.Exists(target)
	if !exists {
		out = append(out, v.finding(RuleDeadLink, SeverityError, file, link, target,
			fmt.Sprintf("link target not found: %s", linkPath)))
	}
	if external {
		switch {
		case v.opts.ExternalPolicy == PolicyError:
			out = append(out, v.finding(RuleExternalLink, SeverityError, file, link, target,
				fmt.Sprintf("link target is outside the scope root: %s", linkPath)))
		case v.opts.ExternalPolicy == PolicyWarn && exists:
			out = append(out, v.finding(RuleExternalLink, SeverityWarning, file, link, target,
				fmt.Sprintf("link target is outside the scope root: %s", linkPath)))
		}
	}

	if exists && fragment != "" && fsutil.IsMarkdown(target) {
		if f, ok := v.checkAnchor(ctx, file, link, target, fragment); !ok {
			out = append(out, f)
		}
	}
	return out
}

// checkAnchor reports whether fragment names a heading of target. When it
// does not, the returned finding describes the problem.
func (v *Validator) checkAnchor(ctx context.Context, file string, link markdown.Link, target, fragment string) (Finding, bool) {
	slugs, err := v.cache.HeadingSlugs(ctx, target)
	if err != nil {
		if !v.opts.StrictAnchors {
			v.opts.Logger.Debug("anchor check skipped", "target", target, "err", err)
			return Finding{}, true
		}
		return v.finding(RuleDeadAnchor, SeverityError, file, link, target,
			fmt.Sprintf("cannot read headings for #%s in %s: %s",
				fragment, v.rel(target), errors.UserMessage(err))), false
	}

	want := v.cache.Slugger().Slugify(fsutil.Unescape(fragment))
	if slices.Contains(slugs, want) {
		return Finding{}, true
	}
	return v.finding(RuleDeadAnchor, SeverityError, file, link, target,
		fmt.Sprintf("anchor not found: #%s in %s", fragment, v.rel(target))), false
}

func (v *Validator) finding(rule Rule, sev Severity, file string, link markdown.Link, target, msg string) Finding {
	return Finding{
		Rule:         rule,
		Severity:     sev,
		File:         v.rel(file),
		Line:         link.Line,
		Column:       link.Column,
		EndColumn:    link.EndColumn,
		Message:      msg,
		Literal:      link.Literal,
		ResolvedPath: v.rel(target),
	}
}

func (v *Validator) rel(path string) string {
	return fsutil.Rel(v.opts.BaseDir, path)
}
