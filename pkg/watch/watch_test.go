package watch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/docgraph/pkg/exclude"
)

func TestRunDeliversMarkdownChanges(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "docs"), 0o755))

	w, err := New(root, Options{Debounce: 50 * time.Millisecond, Logger: log.New(io.Discard)})
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	batches := make(chan []string, 4)
	go func() {
		_ = w.Run(ctx, func(_ context.Context, changed []string) error {
			batches <- changed
			return nil
		})
	}()

	target := filepath.Join(root, "docs", "guide.md")
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("# Guide\n"), 0o644))

	select {
	case changed := <-batches:
		assert.Equal(t, []string{target}, changed)
	case <-ctx.Done():
		t.Fatal("no change batch delivered")
	}
}

func TestRunSkipsExcludedDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "node_modules"), 0o755))

	m, err := exclude.New(exclude.DefaultOptions(root))
	require.NoError(t, err)
	w, err := New(root, Options{Debounce: 50 * time.Millisecond, Exclude: m, Logger: log.New(io.Discard)})
	require.NoError(t, err)
	defer w.Close()

	assert.NotContains(t, w.watcher.WatchList(), filepath.Join(root, "node_modules"))
	assert.Contains(t, w.watcher.WatchList(), root)
}

func TestRunStopsOnHandlerError(t *testing.T) {
	root := t.TempDir()
	w, err := New(root, Options{Debounce: 20 * time.Millisecond, Logger: log.New(io.Discard)})
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	errc := make(chan error, 1)
	go func() {
		errc <- w.Run(ctx, func(context.Context, []string) error { return io.ErrUnexpectedEOF })
	}()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.md"), nil, 0o644))

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	case <-ctx.Done():
		t.Fatal("watcher did not stop")
	}
}

func TestRunCancelled(t *testing.T) {
	w, err := New(t.TempDir(), Options{})
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, w.Run(ctx, nil), context.Canceled)
}

func TestNewMissingRoot(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent"), Options{})
	assert.Error(t, err)
}
