package check

import (
	"slices"

	"github.com/matzehuels/docgraph/pkg/fsutil"
	"github.com/matzehuels/docgraph/pkg/graph"
)

// Orphans reports every file in files that g never reached, sorted by path.
// files is normally the walker's listing of the scope root, already filtered
// by the exclusion matcher.
func Orphans(g *graph.Graph, files []string, base string) []Finding {
	base = fsutil.Abs(base)
	var orphans []string
	for _, f := range files {
		f = fsutil.Abs(f)
		if !g.HasFile(f) {
			orphans = append(orphans, f)
		}
	}
	slices.Sort(orphans)
	orphans = slices.Compact(orphans)

	out := make([]Finding, 0, len(orphans))
	for _, f := range orphans {
		out = append(out, Finding{
			Rule:     RuleOrphanFiles,
			Severity: SeverityError,
			File:     fsutil.Rel(base, f),
			Line:     1,
			Column:   1,
			Message:  "file is not reachable from any entry point",
		})
	}
	return out
}
