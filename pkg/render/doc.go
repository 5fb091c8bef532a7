// Package render groups the document graph renderers.
//
// The [nodelink] subpackage renders the graph as a directed node-link
// diagram using Graphviz:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Base: root})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// JSON export lives with the graph itself in the graph package.
package render
