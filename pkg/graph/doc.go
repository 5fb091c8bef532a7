// Package graph provides the in-memory document graph and its serialization.
//
// A [Graph] holds one traversal session: the markdown files reached from the
// entry points (nodes, with their depth) and the relative links between them
// (edges). Edges are stored as forward and reverse adjacency so both
// "what does this file link to" and "what links to this file" are O(1).
//
// # Dangling Edges
//
// An edge may point at a path that is not a node. The builder records links
// to out-of-scope files this way: the link is visible to callers but the
// target is never expanded. [Graph.HasFile] is false for such targets.
//
// # Ordering
//
// [Graph.Files] returns nodes in insertion order, which for a builder-produced
// graph is depth-first pre-order from the entry points. Reports that iterate
// files in this order are stable across runs on unchanged input.
//
// [Graph.DependencyOrder] returns leaves first: every file appears after the
// files it links to, except where a cycle makes that impossible. Each node
// appears exactly once for any cycle shape, self-loops included.
//
// # Serialization
//
// [Marshal] and [Write] emit a node-link JSON document with paths relative to
// a base directory:
//
//	{
//	  "nodes": [{"path": "README.md", "depth": 0}, {"path": "docs/a.md", "depth": 1}],
//	  "edges": [{"from": "README.md", "to": "docs/a.md"}]
//	}
//
// # Concurrency
//
// A Graph is populated once by a single writer and then read concurrently.
// It is not safe to mutate a Graph while other goroutines read it.
package graph
