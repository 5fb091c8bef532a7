package graph

import (
	"encoding/json"
	"path/filepath"
	"slices"
	"strconv"
	"testing"
)

// p returns a canonical absolute path under a fixed fake root so tests do
// not depend on the working directory.
func p(name string) string {
	return filepath.Join(string(filepath.Separator), "docs", filepath.FromSlash(name))
}

func TestAddFile(t *testing.T) {
	g := New()
	g.AddFile(p("a.md"), 0)
	g.AddFile(p("b.md"), 1)
	g.AddFile(p("a.md"), 5)

	if g.NodeCount() != 2 {
		t.Fatalf("NodeCount() = %d, want 2", g.NodeCount())
	}
	if d, _ := g.Depth(p("a.md")); d != 0 {
		t.Errorf("Depth(a) = %d, want 0 (re-add must not change depth)", d)
	}
	if !g.HasFile(p("sub/../a.md")) {
		t.Error("HasFile should normalize paths")
	}
	if got, want := g.Files(), []string{p("a.md"), p("b.md")}; !slices.Equal(got, want) {
		t.Errorf("Files() = %v, want %v", got, want)
	}
}

func TestAddEdgeIdempotent(t *testing.T) {
	g := New()
	g.AddFile(p("a.md"), 0)
	g.AddFile(p("b.md"), 1)
	g.AddEdge(p("a.md"), p("b.md"))
	g.AddEdge(p("a.md"), p("b.md"))
	g.AddEdge(p("./a.md"), p("b.md"))

	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if got := g.Outgoing(p("a.md")); !slices.Equal(got, []string{p("b.md")}) {
		t.Errorf("Outgoing(a) = %v", got)
	}
	if got := g.Incoming(p("b.md")); !slices.Equal(got, []string{p("a.md")}) {
		t.Errorf("Incoming(b) = %v", got)
	}
	if !g.HasEdge(p("a.md"), p("b.md")) || g.HasEdge(p("b.md"), p("a.md")) {
		t.Error("HasEdge mismatch")
	}
}

func TestDanglingEdge(t *testing.T) {
	g := New()
	g.AddFile(p("a.md"), 0)
	g.AddEdge(p("a.md"), "/elsewhere/x.md")

	if g.HasFile("/elsewhere/x.md") {
		t.Error("dangling edge target must not become a node")
	}
	if len(g.Outgoing(p("a.md"))) != 1 {
		t.Error("dangling edge should be visible from its source")
	}
	if got := g.DependencyOrder(); !slices.Equal(got, []string{p("a.md")}) {
		t.Errorf("DependencyOrder() = %v", got)
	}
}

func TestAbsentPath(t *testing.T) {
	g := New()
	if g.HasFile(p("x.md")) {
		t.Error("HasFile on empty graph")
	}
	if _, ok := g.Depth(p("x.md")); ok {
		t.Error("Depth should report absent")
	}
	if g.Outgoing(p("x.md")) != nil || g.Incoming(p("x.md")) != nil {
		t.Error("adjacency of absent path should be nil")
	}
	g.SetDepth(p("x.md"), 0)
	if g.NodeCount() != 0 {
		t.Error("SetDepth must not create nodes")
	}
}

func TestSetDepthOnlyLowers(t *testing.T) {
	g := New()
	g.AddFile(p("a.md"), 3)
	g.SetDepth(p("a.md"), 5)
	if d, _ := g.Depth(p("a.md")); d != 3 {
		t.Errorf("Depth = %d, want 3", d)
	}
	g.SetDepth(p("a.md"), 1)
	if d, _ := g.Depth(p("a.md")); d != 1 {
		t.Errorf("Depth = %d, want 1", d)
	}
}

func TestDependencyOrder(t *testing.T) {
	tests := []struct {
		name  string
		nodes []string
		edges [][2]string
		// before lists pairs (x, y) where x must precede y.
		before [][2]string
	}{
		{
			name:   "chain",
			nodes:  []string{"a.md", "b.md", "c.md"},
			edges:  [][2]string{{"a.md", "b.md"}, {"b.md", "c.md"}},
			before: [][2]string{{"c.md", "b.md"}, {"b.md", "a.md"}},
		},
		{
			name:   "diamond",
			nodes:  []string{"a.md", "b.md", "c.md", "d.md"},
			edges:  [][2]string{{"a.md", "b.md"}, {"a.md", "c.md"}, {"b.md", "d.md"}, {"c.md", "d.md"}},
			before: [][2]string{{"d.md", "b.md"}, {"d.md", "c.md"}, {"b.md", "a.md"}, {"c.md", "a.md"}},
		},
		{
			name:   "self loop",
			nodes:  []string{"a.md"},
			edges:  [][2]string{{"a.md", "a.md"}},
			before: nil,
		},
		{
			name:   "two cycle",
			nodes:  []string{"a.md", "b.md"},
			edges:  [][2]string{{"a.md", "b.md"}, {"b.md", "a.md"}},
			before: [][2]string{{"b.md", "a.md"}},
		},
		{
			name:  "long cycle with tail",
			nodes: []string{"a.md", "b.md", "c.md", "d.md", "e.md"},
			edges: [][2]string{
				{"a.md", "b.md"}, {"b.md", "c.md"}, {"c.md", "d.md"}, {"d.md", "b.md"}, {"d.md", "e.md"},
			},
			before: [][2]string{{"e.md", "d.md"}, {"b.md", "a.md"}},
		},
		{
			name:   "disconnected",
			nodes:  []string{"a.md", "b.md"},
			before: [][2]string{{"a.md", "b.md"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			for i, n := range tt.nodes {
				g.AddFile(p(n), i)
			}
			for _, e := range tt.edges {
				g.AddEdge(p(e[0]), p(e[1]))
			}

			order := g.DependencyOrder()
			if len(order) != len(tt.nodes) {
				t.Fatalf("len = %d, want %d: %v", len(order), len(tt.nodes), order)
			}
			pos := make(map[string]int)
			for i, path := range order {
				if _, dup := pos[path]; dup {
					t.Fatalf("%s emitted twice", path)
				}
				pos[path] = i
			}
			for _, b := range tt.before {
				if pos[p(b[0])] >= pos[p(b[1])] {
					t.Errorf("%s should precede %s in %v", b[0], b[1], order)
				}
			}
		})
	}
}

func TestDependencyOrderDeepChain(t *testing.T) {
	g := New()
	const n = 50000
	prev := ""
	for i := 0; i < n; i++ {
		path := p(filepath.Join("chain", strconv.Itoa(i)+".md"))
		g.AddFile(path, i)
		if prev != "" {
			g.AddEdge(prev, path)
		}
		prev = path
	}
	order := g.DependencyOrder()
	if len(order) != n {
		t.Fatalf("len = %d, want %d", len(order), n)
	}
	if order[0] != prev {
		t.Errorf("first = %s, want deepest %s", order[0], prev)
	}
}

func TestMerge(t *testing.T) {
	a := New()
	a.AddFile(p("a.md"), 0)
	a.AddFile(p("b.md"), 1)
	a.AddFile(p("c.md"), 2)
	a.AddEdge(p("a.md"), p("b.md"))
	a.AddEdge(p("b.md"), p("c.md"))

	c := New()
	c.AddFile(p("c.md"), 0)
	c.AddFile(p("d.md"), 1)
	c.AddEdge(p("c.md"), p("d.md"))

	a.Merge(c)

	want := map[string]int{"a.md": 0, "b.md": 1, "c.md": 0, "d.md": 1}
	for name, depth := range want {
		if d, ok := a.Depth(p(name)); !ok || d != depth {
			t.Errorf("Depth(%s) = %d,%v, want %d", name, d, ok, depth)
		}
	}
	if a.EdgeCount() != 3 {
		t.Errorf("EdgeCount() = %d, want 3", a.EdgeCount())
	}
	if got := a.Files(); !slices.Equal(got, []string{p("a.md"), p("b.md"), p("c.md"), p("d.md")}) {
		t.Errorf("Files() = %v", got)
	}
}

func TestExport(t *testing.T) {
	g := New()
	g.AddFile(p("README.md"), 0)
	g.AddFile(p("guide/a.md"), 1)
	g.AddEdge(p("README.md"), p("guide/a.md"))
	g.AddEdge(p("guide/a.md"), "/other/x.md")

	data, err := Marshal(g, p(""))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if len(doc.Nodes) != 2 || doc.Nodes[0].Path != "README.md" || doc.Nodes[1].Path != "guide/a.md" {
		t.Errorf("Nodes = %+v", doc.Nodes)
	}
	if doc.Nodes[1].Depth != 1 {
		t.Errorf("Depth = %d, want 1", doc.Nodes[1].Depth)
	}
	if len(doc.Edges) != 2 {
		t.Fatalf("Edges = %+v", doc.Edges)
	}
	if doc.Edges[0].External {
		t.Error("in-graph edge marked external")
	}
	if !doc.Edges[1].External || doc.Edges[1].To != filepath.Clean("/other/x.md") {
		t.Errorf("external edge = %+v", doc.Edges[1])
	}
}
