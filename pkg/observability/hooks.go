// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about graph builds, validation runs and
// content-cache traffic.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks carry events only. They never hold memoized state, so registering a
// hook does not couple otherwise independent runs.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetBuildHooks(&myBuildHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Build().OnBuildStart(ctx, entrypoints)
//	// ... traverse ...
//	observability.Build().OnBuildComplete(ctx, nodes, edges, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Build Hooks
// =============================================================================

// BuildHooks receives events from the graph builder.
type BuildHooks interface {
	OnBuildStart(ctx context.Context, entrypoints []string)
	OnBuildComplete(ctx context.Context, nodeCount, edgeCount int, duration time.Duration, err error)
}

// =============================================================================
// Validate Hooks
// =============================================================================

// ValidateHooks receives events from the link validator.
type ValidateHooks interface {
	OnValidateStart(ctx context.Context, fileCount int)
	OnFileValidated(ctx context.Context, path string, findingCount int, duration time.Duration)
	OnValidateComplete(ctx context.Context, findingCount int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from content-cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopBuildHooks is a no-op implementation of BuildHooks.
type NoopBuildHooks struct{}

func (NoopBuildHooks) OnBuildStart(context.Context, []string)                          {}
func (NoopBuildHooks) OnBuildComplete(context.Context, int, int, time.Duration, error) {}

// NoopValidateHooks is a no-op implementation of ValidateHooks.
type NoopValidateHooks struct{}

func (NoopValidateHooks) OnValidateStart(context.Context, int)                          {}
func (NoopValidateHooks) OnFileValidated(context.Context, string, int, time.Duration)   {}
func (NoopValidateHooks) OnValidateComplete(context.Context, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	buildHooks    BuildHooks    = NoopBuildHooks{}
	validateHooks ValidateHooks = NoopValidateHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetBuildHooks registers custom build hooks.
// This should be called once at application startup before any builds.
func SetBuildHooks(h BuildHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		buildHooks = h
	}
}

// SetValidateHooks registers custom validation hooks.
func SetValidateHooks(h ValidateHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		validateHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Build returns the registered build hooks.
func Build() BuildHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return buildHooks
}

// Validate returns the registered validation hooks.
func Validate() ValidateHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return validateHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	buildHooks = NoopBuildHooks{}
	validateHooks = NoopValidateHooks{}
	cacheHooks = NoopCacheHooks{}
}
