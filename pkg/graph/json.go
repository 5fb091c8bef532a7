package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/docgraph/pkg/fsutil"
)

// Document is the JSON serialization of a Graph. Paths are relative to the
// export base with forward slashes; paths outside it stay absolute.
type Document struct {
	Nodes []DocumentNode `json:"nodes"`
	Edges []DocumentEdge `json:"edges"`
}

// DocumentNode is a serialized node.
type DocumentNode struct {
	Path  string `json:"path"`
	Depth int    `json:"depth"`
}

// DocumentEdge is a serialized edge. External marks edges whose target is
// not a node.
type DocumentEdge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	External bool   `json:"external,omitempty"`
}

// Export converts g into its serialization form relative to base.
// Nodes and edges keep insertion order.
func Export(g *Graph, base string) Document {
	base = fsutil.Abs(base)
	rel := func(p string) string {
		r := fsutil.Rel(base, p)
		if fsutil.Escapes(r) {
			return p
		}
		return r
	}

	doc := Document{
		Nodes: make([]DocumentNode, 0, g.NodeCount()),
		Edges: make([]DocumentEdge, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, DocumentNode{Path: rel(n.Path), Depth: n.Depth})
	}
	for _, e := range g.edges {
		doc.Edges = append(doc.Edges, DocumentEdge{
			From:     rel(e.From),
			To:       rel(e.To),
			External: !g.HasFile(e.To),
		})
	}
	return doc
}

// Marshal converts g to indented JSON bytes.
func Marshal(g *Graph, base string) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(g, base, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes g as indented JSON to w.
func Write(g *Graph, base string, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Export(g, base)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes g as JSON to path. The file is created with 0644
// permissions.
func WriteFile(g *Graph, base, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(g, base, f)
}
