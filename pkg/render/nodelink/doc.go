// Package nodelink renders document graphs as node-link diagrams.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Base: root})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Nodes are labeled with their path relative to Options.Base. Entry points
// (depth 0) get a heavier outline; link targets that never became nodes are
// dashed and grey.
//
// The generated DOT uses left-to-right layout (rankdir=LR) so long link
// chains read like a table of contents. It can also be saved and processed
// with external Graphviz tools.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
