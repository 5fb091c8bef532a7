// Package fsutil holds the path helpers every docgraph component shares:
// canonical path identity, ancestor tests and link classification.
package fsutil

import (
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// MarkdownExt is the recognized document extension.
const MarkdownExt = ".md"

// Abs returns the canonical absolute form of path. Two spellings of one file
// always produce the same string.
func Abs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// Exists reports whether path names an existing regular file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsFile reports whether path names an existing non-directory.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Within reports whether path is root or lies beneath it. Both arguments
// must be absolute.
func Within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || !escapes(filepath.ToSlash(rel))
}

// Rel returns path relative to base with forward slashes. If no relative
// form exists the absolute path is returned unchanged.
func Rel(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// Escapes reports whether a forward-slash relative path leaves its base.
func Escapes(rel string) bool { return escapes(rel) }

func escapes(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, "../")
}

// CommonAncestor returns the deepest directory containing every path.
// Paths must be absolute. An empty input yields "".
func CommonAncestor(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	common := filepath.Dir(paths[0])
	for _, p := range paths[1:] {
		for !Within(common, p) {
			parent := filepath.Dir(common)
			if parent == common {
				return common
			}
			common = parent
		}
	}
	return common
}

var schemeRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*:`)

// HasScheme reports whether a link destination is scheme-qualified
// (http:, mailto:, ...) or protocol-relative.
func HasScheme(dest string) bool {
	return schemeRe.MatchString(dest) || strings.HasPrefix(dest, "//")
}

// IsRootRelative reports whether a link destination is site-root relative,
// such as "/docs/a.md". Its target depends on where the documents are
// hosted, so it has no filesystem meaning.
func IsRootRelative(dest string) bool {
	return strings.HasPrefix(dest, "/") && !strings.HasPrefix(dest, "//")
}

// SplitFragment splits a link destination into its path and fragment. The
// fragment is returned without the leading '#'. Query strings are dropped
// from the path.
func SplitFragment(dest string) (path, fragment string) {
	path = dest
	if i := strings.IndexByte(path, '#'); i >= 0 {
		path, fragment = path[:i], path[i+1:]
	}
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return path, fragment
}

// Unescape decodes percent-escapes in a link path, falling back to the raw
// string when it is not valid escaping.
func Unescape(p string) string {
	if !strings.Contains(p, "%") {
		return p
	}
	if u, err := url.PathUnescape(p); err == nil {
		return u
	}
	return p
}

// IsMarkdown reports whether path ends in the document extension.
func IsMarkdown(path string) bool {
	return strings.EqualFold(filepath.Ext(path), MarkdownExt)
}

// Resolve resolves a relative link path against the directory of the file
// containing it and returns the canonical absolute target. Root-relative
// links must be filtered out with [IsRootRelative] first.
func Resolve(fromFile, linkPath string) string {
	linkPath = Unescape(linkPath)
	return Abs(filepath.Join(filepath.Dir(fromFile), filepath.FromSlash(linkPath)))
}
