package nodelink

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/docgraph/pkg/graph"
)

func sample() (*graph.Graph, string) {
	root := filepath.Join(string(filepath.Separator), "docs")
	g := graph.New()
	g.AddFile(filepath.Join(root, "README.md"), 0)
	g.AddFile(filepath.Join(root, "guide.md"), 1)
	g.AddEdge(filepath.Join(root, "README.md"), filepath.Join(root, "guide.md"))
	g.AddEdge(filepath.Join(root, "guide.md"), filepath.Join(root, "missing.md"))
	return g, root
}

func TestToDOT(t *testing.T) {
	g, root := sample()
	dot := ToDOT(g, Options{Base: root})

	for _, want := range []string{
		"digraph G {",
		`"README.md" [label="README.md", penwidth=2];`,
		`"guide.md" [label="guide.md"];`,
		`"missing.md" [label="missing.md", style="rounded,filled,dashed"`,
		`"README.md" -> "guide.md";`,
		`"guide.md" -> "missing.md";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTDetailed(t *testing.T) {
	g, root := sample()
	dot := ToDOT(g, Options{Base: root, Detailed: true})
	if !strings.Contains(dot, `label="guide.md\ndepth: 1"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
}

func TestToDOTHideExternal(t *testing.T) {
	g, root := sample()
	dot := ToDOT(g, Options{Base: root, HideExternal: true})
	if strings.Contains(dot, "missing.md") {
		t.Errorf("external target should be hidden:\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	g, root := sample()
	svg, err := RenderSVG(context.Background(), ToDOT(g, Options{Base: root}))
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("output is not SVG")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="44pt" viewBox="0.00 0.00 62.00 44.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 62.00 44.00" width="62" height="44"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("svg without viewBox should be unchanged, got %s", got)
	}
}
