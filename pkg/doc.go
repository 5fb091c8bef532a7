// Package pkg provides the core libraries for docgraph, a documentation
// consistency checker.
//
// # Overview
//
// docgraph follows relative links between markdown files, starting from one
// or more entry points, and builds a directed graph of the documents it
// reaches. Over that graph it reports orphaned files, dead links and dead
// anchors, answers per-file dependency queries, and orders files leaves
// first for concatenation.
//
// # Architecture
//
// The typical data flow through docgraph:
//
//	markdown files on disk
//	         ↓
//	    [cache] (content, parsed documents, heading slugs, link targets)
//	         ↓
//	    [builder] (scope- and exclusion-aware traversal) → [graph]
//	         ↓
//	    [check] (orphans, dead links, dead anchors)   [deps] (per-file trees)
//	         ↓
//	    findings (text or JSON), graph exports (JSON, DOT, SVG)
//
// [pipeline] ties these stages together for the CLI.
//
// # Quick Start
//
//	c := cache.New()
//	m, _ := exclude.New(exclude.DefaultOptions("."))
//	g, _ := builder.New(c, builder.Options{Exclude: m}).Build(ctx, "README.md", builder.Unlimited)
//	findings, _ := check.NewValidator(c, check.Options{}).Validate(ctx, g)
//
// # Main Packages
//
// ## Core Domain Logic
//
// [graph] - In-memory document graph with forward and reverse adjacency,
// leaves-first ordering and JSON export.
//
// [builder] - Depth-first, cycle-safe traversal from one or many entry
// points, merging per-entry subgraphs by minimum depth.
//
// [check] - Findings, the concurrent link and anchor validator, and the
// orphan scan.
//
// [deps] - Incoming and outgoing dependency trees for one file, with cycle
// annotation.
//
// ## Supporting Packages
//
// [cache] - Per-file memoization of content and derived data.
//
// [markdown] - Heading and inline-link extraction via tree-sitter.
//
// [slug] - Heading text to anchor conversion.
//
// [exclude] - gitignore-style exclusion from five prioritized sources.
//
// [walk] - Markdown file enumeration for the orphan scan.
//
// [watch] - Debounced change notification for check --watch.
//
// [render/nodelink] - Graphviz DOT and SVG export.
//
// ## Infrastructure
//
// [config] - Defaults, .docgraph.toml and validation.
//
// [errors] - Coded errors separating usage failures from I/O failures.
//
// [observability] - Hook interfaces for builds, validation and the cache.
//
// [buildinfo] - Version information injected at build time.
package pkg
