package graph_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/docgraph/pkg/graph"
)

func ExampleGraph_DependencyOrder() {
	root := filepath.Join(string(filepath.Separator), "docs")
	readme := filepath.Join(root, "README.md")
	guide := filepath.Join(root, "guide.md")
	api := filepath.Join(root, "api.md")

	g := graph.New()
	g.AddFile(readme, 0)
	g.AddFile(guide, 1)
	g.AddFile(api, 2)
	g.AddEdge(readme, guide)
	g.AddEdge(guide, api)
	g.AddEdge(api, guide) // cycle

	for _, f := range g.DependencyOrder() {
		fmt.Println(filepath.Base(f))
	}
	// Output:
	// api.md
	// guide.md
	// README.md
}

func ExampleWrite() {
	root := filepath.Join(string(filepath.Separator), "docs")
	g := graph.New()
	g.AddFile(filepath.Join(root, "README.md"), 0)
	g.AddFile(filepath.Join(root, "guide.md"), 1)
	g.AddEdge(filepath.Join(root, "README.md"), filepath.Join(root, "guide.md"))

	if err := graph.Write(g, root, os.Stdout); err != nil {
		fmt.Println("Error:", err)
	}
	// Output:
	// {
	//   "nodes": [
	//     {
	//       "path": "README.md",
	//       "depth": 0
	//     },
	//     {
	//       "path": "guide.md",
	//       "depth": 1
	//     }
	//   ],
	//   "edges": [
	//     {
	//       "from": "README.md",
	//       "to": "guide.md"
	//     }
	//   ]
	// }
}
