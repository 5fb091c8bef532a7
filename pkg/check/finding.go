// Package check turns a document graph into findings: dead links, dead
// anchors, external links and orphan files.
//
// Broken documentation is this package's normal output, not an error. The
// [Validator] returns an error only when a file in the graph cannot be read
// or parsed.
//
// # Ordering
//
// Findings are grouped by file in graph order, and within a file follow the
// order links appear in the document. The order does not depend on the
// validator's concurrency, so repeated runs on unchanged input produce
// identical reports.
package check

// Rule identifies the kind of problem a Finding reports.
type Rule string

// Rules.
const (
	RuleOrphanFiles  Rule = "orphan-files"
	RuleDeadLink     Rule = "dead-link"
	RuleDeadAnchor   Rule = "dead-anchor"
	RuleExternalLink Rule = "external-link"
)

// Severity is the weight of a Finding.
type Severity string

// Severities.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one reported problem. File and ResolvedPath are relative to the
// report base directory with forward slashes.
type Finding struct {
	Rule         Rule     `json:"rule"`
	Severity     Severity `json:"severity"`
	File         string   `json:"file"`
	Line         int      `json:"line"`
	Column       int      `json:"column"`
	EndColumn    int      `json:"endColumn,omitempty"`
	Message      string   `json:"message"`
	Literal      string   `json:"literal,omitempty"`
	ResolvedPath string   `json:"resolvedPath,omitempty"`
}

// Summary counts findings.
type Summary struct {
	Errors   int          `json:"errors"`
	Warnings int          `json:"warnings"`
	ByRule   map[Rule]int `json:"byRule"`
}

// Summarize counts findings by severity and rule.
func Summarize(findings []Finding) Summary {
	s := Summary{ByRule: make(map[Rule]int)}
	for _, f := range findings {
		switch f.Severity {
		case SeverityError:
			s.Errors++
		case SeverityWarning:
			s.Warnings++
		}
		s.ByRule[f.Rule]++
	}
	return s
}

// HasErrors reports whether any finding has error severity.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}
