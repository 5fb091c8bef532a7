package graph

import (
	"slices"

	"github.com/matzehuels/docgraph/pkg/fsutil"
)

// Node is a document reached during traversal.
type Node struct {
	Path  string // Canonical absolute path
	Depth int    // Minimum link distance from any entry point
}

// Edge is a directed link: the file at From links to the file at To.
type Edge struct {
	From string
	To   string
}

// Graph is a directed document graph with forward and reverse adjacency.
//
// The zero value is not usable; use [New].
type Graph struct {
	nodes    map[string]*Node
	order    []string
	edges    []Edge
	edgeSet  map[Edge]struct{}
	outgoing map[string][]string // path -> link targets
	incoming map[string][]string // path -> linking files
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		edgeSet:  make(map[Edge]struct{}),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddFile adds path as a node at the given depth. If the node already
// exists this is a no-op and the original depth is kept; use [Graph.SetDepth]
// to lower it.
func (g *Graph) AddFile(path string, depth int) {
	path = fsutil.Abs(path)
	if _, ok := g.nodes[path]; ok {
		return
	}
	g.nodes[path] = &Node{Path: path, Depth: depth}
	g.order = append(g.order, path)
}

// AddEdge records that from links to to. Adding the same edge twice is a
// no-op. Neither endpoint needs to be a node.
func (g *Graph) AddEdge(from, to string) {
	e := Edge{From: fsutil.Abs(from), To: fsutil.Abs(to)}
	if _, ok := g.edgeSet[e]; ok {
		return
	}
	g.edgeSet[e] = struct{}{}
	g.edges = append(g.edges, e)
	g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
	g.incoming[e.To] = append(g.incoming[e.To], e.From)
}

// SetDepth lowers the depth of an existing node. Larger depths and unknown
// paths are ignored.
func (g *Graph) SetDepth(path string, depth int) {
	if n, ok := g.nodes[fsutil.Abs(path)]; ok && depth < n.Depth {
		n.Depth = depth
	}
}

// HasFile reports whether path is a node.
func (g *Graph) HasFile(path string) bool {
	_, ok := g.nodes[fsutil.Abs(path)]
	return ok
}

// HasEdge reports whether the edge from→to exists.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.edgeSet[Edge{From: fsutil.Abs(from), To: fsutil.Abs(to)}]
	return ok
}

// Files returns every node path in insertion order.
func (g *Graph) Files() []string { return slices.Clone(g.order) }

// Nodes returns every node in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.order))
	for i, p := range g.order {
		out[i] = *g.nodes[p]
	}
	return out
}

// Outgoing returns the link targets of path in the order they were added.
// Returns nil for an unknown path.
func (g *Graph) Outgoing(path string) []string {
	return slices.Clone(g.outgoing[fsutil.Abs(path)])
}

// Incoming returns the files linking to path in the order they were added.
// Returns nil for an unknown path.
func (g *Graph) Incoming(path string) []string {
	return slices.Clone(g.incoming[fsutil.Abs(path)])
}

// Depth returns the depth of path and true, or 0 and false if path is not
// a node.
func (g *Graph) Depth(path string) (int, bool) {
	n, ok := g.nodes[fsutil.Abs(path)]
	if !ok {
		return 0, false
	}
	return n.Depth, true
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// DependencyOrder returns every node leaves first: a file follows the files
// it links to. Within a cycle the file reached first from the insertion
// order is emitted last. Edges to non-node paths are ignored.
func (g *Graph) DependencyOrder() []string {
	const (
		unvisited = iota
		inProgress
		emitted
	)
	state := make(map[string]int, len(g.nodes))
	out := make([]string, 0, len(g.nodes))

	// Iterative post-order so deep link chains cannot exhaust the stack.
	type frame struct {
		path string
		next int
	}
	for _, root := range g.order {
		if state[root] != unvisited {
			continue
		}
		state[root] = inProgress
		stack := []frame{{path: root}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			targets := g.outgoing[top.path]
			if top.next < len(targets) {
				t := targets[top.next]
				top.next++
				if _, ok := g.nodes[t]; ok && state[t] == unvisited {
					state[t] = inProgress
					stack = append(stack, frame{path: t})
				}
				continue
			}
			state[top.path] = emitted
			out = append(out, top.path)
			stack = stack[:len(stack)-1]
		}
	}
	return out
}

// Merge folds other into g: nodes missing from g are appended in other's
// order, shared nodes keep the smaller depth, and edges are unioned.
func (g *Graph) Merge(other *Graph) {
	for _, p := range other.order {
		n := other.nodes[p]
		if _, ok := g.nodes[p]; ok {
			g.SetDepth(p, n.Depth)
			continue
		}
		g.AddFile(p, n.Depth)
	}
	for _, e := range other.edges {
		g.AddEdge(e.From, e.To)
	}
}
