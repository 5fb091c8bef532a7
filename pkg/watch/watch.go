// Package watch reports batches of markdown file changes under a directory
// tree.
//
// Events are debounced: a burst of writes during editing yields one batch
// once the tree has been quiet for the debounce window. Directories the
// exclusion matcher prunes are never watched, and directories created while
// watching are added as they appear.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/docgraph/pkg/exclude"
	"github.com/matzehuels/docgraph/pkg/fsutil"
	"github.com/matzehuels/docgraph/pkg/observability"
)

// DefaultDebounce is the quiet period before a batch is delivered.
const DefaultDebounce = 200 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	// Debounce is the quiet period before a batch is delivered.
	Debounce time.Duration

	// Exclude prunes directories and files. Nil excludes nothing.
	Exclude exclude.Excluder

	Logger *log.Logger
}

// WithDefaults returns a copy of o with zero fields filled in.
func (o Options) WithDefaults() Options {
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.Exclude == nil {
		o.Exclude = exclude.None
	}
	o.Logger = observability.Logger(o.Logger)
	return o
}

// Handler receives the sorted, deduplicated paths of changed markdown
// files. Returning an error stops the watcher.
type Handler func(ctx context.Context, changed []string) error

// Watcher watches one directory tree.
type Watcher struct {
	root    string
	opts    Options
	watcher *fsnotify.Watcher
}

// New creates a watcher for root and registers every non-excluded
// directory beneath it.
func New(root string, opts Options) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	fw := &Watcher{root: fsutil.Abs(root), opts: opts.WithDefaults(), watcher: w}
	if err := fw.addTree(fw.root); err != nil {
		w.Close()
		return nil, err
	}
	return fw, nil
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error { return w.watcher.Close() }

// Run delivers change batches to handle until ctx is cancelled, the handler
// fails, or the watcher breaks. Cancellation returns ctx.Err().
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	pending := make(map[string]bool)
	timer := time.NewTimer(w.opts.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if path, relevant := w.classify(ev); relevant {
				pending[path] = true
				timer.Reset(w.opts.Debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.opts.Logger.Warn("watch error", "err", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			slices.Sort(changed)
			clear(pending)
			if err := handle(ctx, changed); err != nil {
				return err
			}
		}
	}
}

// classify reports whether ev concerns a markdown file worth re-checking.
// New directories are registered as a side effect.
func (w *Watcher) classify(ev fsnotify.Event) (string, bool) {
	path := fsutil.Abs(ev.Name)
	if ev.Has(fsnotify.Create) && fsutil.Exists(path) && !fsutil.IsFile(path) {
		if err := w.addTree(path); err != nil {
			w.opts.Logger.Debug("cannot watch new directory", "path", path, "err", err)
		}
		return "", false
	}
	if !fsutil.IsMarkdown(path) || w.opts.Exclude.ShouldExclude(path) {
		return "", false
	}
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return "", false
	}
	return path, true
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("watch %s: %w", root, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.opts.Exclude.ShouldExcludeDir(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
