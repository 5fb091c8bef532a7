// Package walk lists the markdown files under a directory.
//
// The listing is the "all files" side of orphan detection: every file it
// returns that the graph never reached is an orphan. Excluded directories
// are pruned without being descended into.
package walk

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"

	"github.com/matzehuels/docgraph/pkg/exclude"
	"github.com/matzehuels/docgraph/pkg/fsutil"
)

// Markdown returns the canonical absolute paths of every markdown file
// under root that ex does not exclude, sorted lexically. A nil ex excludes
// nothing. Unreadable subdirectories are skipped.
func Markdown(ctx context.Context, root string, ex exclude.Excluder) ([]string, error) {
	if ex == nil {
		ex = exclude.None
	}
	root = fsutil.Abs(root)

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && ex.ShouldExcludeDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !fsutil.IsMarkdown(path) || ex.ShouldExclude(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	slices.Sort(files)
	return files, nil
}
