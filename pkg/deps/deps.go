// Package deps answers "what does this file depend on, and what depends on
// it" for one file of a built document graph.
//
// [Analyze] walks the outgoing links (dependencies) and incoming links
// (dependents) of a file and returns them as trees. A file reachable by two
// branches appears in both. Cycles are cut with an ancestor stack scoped to
// the current branch: a neighbor that is already an ancestor becomes a
// terminal node marked IsCycle, and the looping edge is recorded once in
// [Report.Cycles] regardless of direction.
package deps

import (
	"github.com/matzehuels/docgraph/pkg/fsutil"
	"github.com/matzehuels/docgraph/pkg/graph"
)

// Options configures Analyze.
type Options struct {
	IncludeIncoming bool
	IncludeOutgoing bool

	// MaxDepth bounds the tree depth. Zero or negative means unlimited.
	MaxDepth int
}

// DefaultOptions includes both directions without a depth limit.
func DefaultOptions() Options {
	return Options{IncludeIncoming: true, IncludeOutgoing: true}
}

// Node is one entry of a dependency tree.
type Node struct {
	Path        string  `json:"path"`
	Depth       int     `json:"depth"`
	Children    []*Node `json:"children,omitempty"`
	IsCycle     bool    `json:"isCycle,omitempty"`
	CycleTarget string  `json:"cycleTarget,omitempty"`
}

// Cycle is an edge that closes a loop back to an ancestor.
type Cycle struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Stats counts tree nodes, not unique paths.
type Stats struct {
	IncomingCount int `json:"incomingCount"`
	OutgoingCount int `json:"outgoingCount"`
}

// Report is the result of one Analyze call.
type Report struct {
	Path     string  `json:"path"`
	Incoming []*Node `json:"incoming"`
	Outgoing []*Node `json:"outgoing"`
	Cycles   []Cycle `json:"cycles"`
	Stats    Stats   `json:"stats"`
}

// Analyze builds the dependency report for path. A path that is not a node
// of g yields an empty report. When neither direction is requested both
// are included.
func Analyze(g *graph.Graph, path string, opts Options) *Report {
	path = fsutil.Abs(path)
	r := &Report{
		Path:     path,
		Incoming: []*Node{},
		Outgoing: []*Node{},
		Cycles:   []Cycle{},
	}
	if !g.HasFile(path) {
		return r
	}
	if !opts.IncludeIncoming && !opts.IncludeOutgoing {
		opts.IncludeIncoming, opts.IncludeOutgoing = true, true
	}

	a := &analyzer{maxDepth: opts.MaxDepth, seen: make(map[Cycle]bool)}
	if opts.IncludeOutgoing {
		r.Outgoing, r.Stats.OutgoingCount = a.tree(path, g.Outgoing)
	}
	if opts.IncludeIncoming {
		r.Incoming, r.Stats.IncomingCount = a.tree(path, g.Incoming)
	}
	if a.cycles != nil {
		r.Cycles = a.cycles
	}
	return r
}

type analyzer struct {
	maxDepth int

	ancestors map[string]bool
	count     int
	cycles    []Cycle
	seen      map[Cycle]bool
}

// tree returns the children of root along next, and the number of tree
// nodes produced.
func (a *analyzer) tree(root string, next func(string) []string) ([]*Node, int) {
	a.ancestors = map[string]bool{root: true}
	a.count = 0
	children := a.expand(root, 1, next)
	return children, a.count
}

func (a *analyzer) expand(path string, depth int, next func(string) []string) []*Node {
	if a.maxDepth > 0 && depth > a.maxDepth {
		return nil
	}
	neighbors := next(path)
	out := make([]*Node, 0, len(neighbors))
	for _, n := range neighbors {
		a.count++
		if a.ancestors[n] {
			out = append(out, &Node{Path: n, Depth: depth, IsCycle: true, CycleTarget: n})
			a.recordCycle(path, n)
			continue
		}
		a.ancestors[n] = true
		out = append(out, &Node{Path: n, Depth: depth, Children: a.expand(n, depth+1, next)})
		delete(a.ancestors, n)
	}
	return out
}

func (a *analyzer) recordCycle(from, to string) {
	c := Cycle{From: from, To: to}
	if a.seen[c] || a.seen[Cycle{From: to, To: from}] {
		return
	}
	a.seen[c] = true
	a.cycles = append(a.cycles, c)
}

// Relative returns a copy of r with every path relative to base.
func (r *Report) Relative(base string) *Report {
	base = fsutil.Abs(base)
	rel := func(p string) string {
		if p == "" {
			return ""
		}
		return fsutil.Rel(base, p)
	}
	var conv func([]*Node) []*Node
	conv = func(nodes []*Node) []*Node {
		if nodes == nil {
			return nil
		}
		out := make([]*Node, len(nodes))
		for i, n := range nodes {
			out[i] = &Node{
				Path:        rel(n.Path),
				Depth:       n.Depth,
				Children:    conv(n.Children),
				IsCycle:     n.IsCycle,
				CycleTarget: rel(n.CycleTarget),
			}
		}
		return out
	}

	out := &Report{
		Path:     rel(r.Path),
		Incoming: conv(r.Incoming),
		Outgoing: conv(r.Outgoing),
		Cycles:   make([]Cycle, len(r.Cycles)),
		Stats:    r.Stats,
	}
	for i, c := range r.Cycles {
		out.Cycles[i] = Cycle{From: rel(c.From), To: rel(c.To)}
	}
	return out
}

// Flatten returns the distinct paths of a tree in depth-first pre-order.
func Flatten(nodes []*Node) []string {
	seen := make(map[string]bool)
	var out []string
	var walk func([]*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			if !seen[n.Path] {
				seen[n.Path] = true
				out = append(out, n.Path)
			}
			walk(n.Children)
		}
	}
	walk(nodes)
	return out
}
