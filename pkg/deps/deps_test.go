package deps

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/docgraph/pkg/graph"
)

func p(name string) string {
	return filepath.Join(string(filepath.Separator), "docs", name)
}

// build creates a graph from "from>to" edge specs. Nodes are added in order
// of first mention.
func build(edges ...string) *graph.Graph {
	g := graph.New()
	for _, e := range edges {
		from, to, _ := strings.Cut(e, ">")
		g.AddFile(p(from), 0)
		g.AddFile(p(to), 0)
		g.AddEdge(p(from), p(to))
	}
	return g
}

func TestTwoCycle(t *testing.T) {
	g := build("a.md>b.md", "b.md>a.md")
	r := Analyze(g, p("a.md"), DefaultOptions())

	require.Len(t, r.Outgoing, 1)
	b := r.Outgoing[0]
	assert.Equal(t, p("b.md"), b.Path)
	assert.False(t, b.IsCycle)
	require.Len(t, b.Children, 1)
	back := b.Children[0]
	assert.Equal(t, p("a.md"), back.Path)
	assert.True(t, back.IsCycle)
	assert.Equal(t, p("a.md"), back.CycleTarget)
	assert.Empty(t, back.Children)

	// The loop is seen from both directions but recorded once.
	require.Len(t, r.Cycles, 1)
	assert.Equal(t, Cycle{From: p("b.md"), To: p("a.md")}, r.Cycles[0])
	assert.Equal(t, 2, r.Stats.OutgoingCount)
	assert.Equal(t, 2, r.Stats.IncomingCount)
}

func TestSelfLoop(t *testing.T) {
	g := build("a.md>a.md")
	r := Analyze(g, p("a.md"), Options{IncludeOutgoing: true})

	require.Len(t, r.Outgoing, 1)
	assert.True(t, r.Outgoing[0].IsCycle)
	assert.Empty(t, r.Incoming)
	assert.Equal(t, []Cycle{{From: p("a.md"), To: p("a.md")}}, r.Cycles)
}

func TestSiblingBranchesNotCycles(t *testing.T) {
	// d is reached once per branch of the diamond; neither is a cycle.
	g := build("a.md>b.md", "a.md>c.md", "b.md>d.md", "c.md>d.md")
	r := Analyze(g, p("a.md"), Options{IncludeOutgoing: true})

	assert.Empty(t, r.Cycles)
	assert.Equal(t, 4, r.Stats.OutgoingCount)
	require.Len(t, r.Outgoing, 2)
	assert.Equal(t, p("d.md"), r.Outgoing[0].Children[0].Path)
	assert.Equal(t, p("d.md"), r.Outgoing[1].Children[0].Path)
	assert.Equal(t, []string{p("b.md"), p("d.md"), p("c.md")}, Flatten(r.Outgoing))
}

func TestIncoming(t *testing.T) {
	g := build("a.md>c.md", "b.md>c.md", "root.md>a.md")
	r := Analyze(g, p("c.md"), Options{IncludeIncoming: true})

	assert.Empty(t, r.Outgoing)
	require.Len(t, r.Incoming, 2)
	assert.Equal(t, p("a.md"), r.Incoming[0].Path)
	assert.Equal(t, p("root.md"), r.Incoming[0].Children[0].Path)
	assert.Equal(t, 2, r.Incoming[0].Children[0].Depth)
	assert.Equal(t, 3, r.Stats.IncomingCount)
}

func TestMaxDepth(t *testing.T) {
	g := build("a.md>b.md", "b.md>c.md", "c.md>d.md")
	r := Analyze(g, p("a.md"), Options{IncludeOutgoing: true, MaxDepth: 2})

	assert.Equal(t, 2, r.Stats.OutgoingCount)
	assert.Empty(t, r.Outgoing[0].Children[0].Children)
}

func TestNoDirectionMeansBoth(t *testing.T) {
	g := build("a.md>b.md", "c.md>a.md")
	r := Analyze(g, p("a.md"), Options{})

	assert.Len(t, r.Outgoing, 1)
	assert.Len(t, r.Incoming, 1)
}

func TestAbsentPath(t *testing.T) {
	g := build("a.md>b.md")
	r := Analyze(g, p("zzz.md"), DefaultOptions())

	assert.Empty(t, r.Incoming)
	assert.Empty(t, r.Outgoing)
	assert.Empty(t, r.Cycles)
	assert.Equal(t, Stats{}, r.Stats)
}

func TestRelative(t *testing.T) {
	g := build("a.md>b.md", "b.md>a.md")
	r := Analyze(g, p("a.md"), Options{IncludeOutgoing: true}).Relative(p(""))

	assert.Equal(t, "a.md", r.Path)
	assert.Equal(t, "b.md", r.Outgoing[0].Path)
	assert.Equal(t, "a.md", r.Outgoing[0].Children[0].CycleTarget)
	assert.Equal(t, []Cycle{{From: "b.md", To: "a.md"}}, r.Cycles)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"isCycle":true`)
	assert.Contains(t, string(data), `"incoming":[]`)
}
