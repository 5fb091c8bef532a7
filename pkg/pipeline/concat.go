package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/docgraph/pkg/cache"
	"github.com/matzehuels/docgraph/pkg/fsutil"
	"github.com/matzehuels/docgraph/pkg/graph"
)

// Order returns the graph's files leaves first, relative to base.
func Order(g *graph.Graph, base string) []string {
	base = fsutil.Abs(base)
	files := g.DependencyOrder()
	for i, f := range files {
		files[i] = fsutil.Rel(base, f)
	}
	return files
}

// ConcatOptions configures Concat.
type ConcatOptions struct {
	// Base anchors the relative paths written in file headers.
	Base string

	// Headers precedes each file with an HTML comment naming it.
	Headers bool

	// Separator is written between files. Empty means a blank line.
	Separator string
}

// Concat writes the content of every graph file to w in dependency order,
// so each document follows the documents it links to.
func Concat(ctx context.Context, c *cache.Cache, g *graph.Graph, w io.Writer, opts ConcatOptions) error {
	base := fsutil.Abs(opts.Base)
	sep := opts.Separator
	if sep == "" {
		sep = "\n"
	}

	for i, f := range g.DependencyOrder() {
		if err := ctx.Err(); err != nil {
			return err
		}
		content, err := c.Content(ctx, f)
		if err != nil {
			return err
		}
		if i > 0 {
			if _, err := io.WriteString(w, sep); err != nil {
				return err
			}
		}
		if opts.Headers {
			if _, err := fmt.Fprintf(w, "<!-- %s -->\n", fsutil.Rel(base, f)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, content); err != nil {
			return err
		}
		if !strings.HasSuffix(content, "\n") {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}
