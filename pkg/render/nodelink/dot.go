package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/docgraph/pkg/fsutil"
	"github.com/matzehuels/docgraph/pkg/graph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Base is the directory node labels are relative to.
	Base string

	// Detailed adds each node's depth to its label.
	Detailed bool

	// HideExternal drops edges to files that are not nodes.
	HideExternal bool
}

// ToDOT converts a document graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Link targets that are not nodes (out-of-scope or missing files) are drawn
// with dashed grey outlines.
func ToDOT(g *graph.Graph, opts Options) string {
	base := fsutil.Abs(opts.Base)
	label := func(p string) string {
		r := fsutil.Rel(base, p)
		if fsutil.Escapes(r) {
			return p
		}
		return r
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		l := label(n.Path)
		if opts.Detailed {
			l = fmt.Sprintf("%s\ndepth: %d", l, n.Depth)
		}
		attrs := []string{fmt.Sprintf("label=%q", l)}
		if n.Depth == 0 {
			attrs = append(attrs, "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", label(n.Path), strings.Join(attrs, ", "))
	}

	var dangling []string
	seen := make(map[string]bool)
	for _, e := range g.Edges() {
		if !g.HasFile(e.To) && !seen[e.To] {
			seen[e.To] = true
			dangling = append(dangling, e.To)
		}
	}
	if !opts.HideExternal {
		for _, p := range dangling {
			fmt.Fprintf(&buf, "  %q [label=%q, style=\"rounded,filled,dashed\", fillcolor=lightgrey, fontcolor=black];\n",
				label(p), label(p))
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if opts.HideExternal && seen[e.To] {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", label(e.From), label(e.To))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one whose
// width and height match the viewBox, so the image scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
