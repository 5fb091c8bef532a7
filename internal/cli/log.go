package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/docgraph/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Checked 42 files (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return log.Default()
	}
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability Hooks
// =============================================================================

// logHooks forwards build, validation and cache events to a debug logger.
type logHooks struct {
	logger *log.Logger
}

// RegisterLogHooks routes observability events to l at debug level. Call it
// once when verbose logging is enabled.
func RegisterLogHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetBuildHooks(h)
	observability.SetValidateHooks(h)
	observability.SetCacheHooks(h)
}

func (h logHooks) OnBuildStart(_ context.Context, entrypoints []string) {
	h.logger.Debug("build started", "entrypoints", len(entrypoints))
}

func (h logHooks) OnBuildComplete(_ context.Context, nodes, edges int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("build failed", "err", err, "duration", d)
		return
	}
	h.logger.Debug("build finished", "nodes", nodes, "edges", edges, "duration", d)
}

func (h logHooks) OnValidateStart(_ context.Context, files int) {
	h.logger.Debug("validation started", "files", files)
}

func (h logHooks) OnFileValidated(_ context.Context, path string, findings int, d time.Duration) {
	h.logger.Debug("validated file", "path", path, "findings", findings, "duration", d)
}

func (h logHooks) OnValidateComplete(_ context.Context, findings int, d time.Duration, err error) {
	h.logger.Debug("validation finished", "findings", findings, "duration", d, "err", err)
}

func (logHooks) OnCacheHit(context.Context, string) {}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "kind", keyType)
}

func (logHooks) OnCacheSet(context.Context, string, int) {}
