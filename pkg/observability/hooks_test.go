package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	b := NoopBuildHooks{}
	b.OnBuildStart(ctx, []string{"README.md"})
	b.OnBuildComplete(ctx, 10, 12, time.Second, nil)

	v := NoopValidateHooks{}
	v.OnValidateStart(ctx, 10)
	v.OnFileValidated(ctx, "README.md", 2, time.Millisecond)
	v.OnValidateComplete(ctx, 2, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "content")
	c.OnCacheMiss(ctx, "document")
	c.OnCacheSet(ctx, "content", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Build().(NoopBuildHooks); !ok {
		t.Error("Build() should return NoopBuildHooks by default")
	}
	if _, ok := Validate().(NoopValidateHooks); !ok {
		t.Error("Validate() should return NoopValidateHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customBuild := &testBuildHooks{}
	SetBuildHooks(customBuild)
	if Build() != customBuild {
		t.Error("SetBuildHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// nil is ignored
	SetBuildHooks(nil)
	if Build() != customBuild {
		t.Error("SetBuildHooks(nil) should keep existing hooks")
	}

	Reset()
	if _, ok := Build().(NoopBuildHooks); !ok {
		t.Error("Reset should restore NoopBuildHooks")
	}
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	h := &testCacheHooks{}
	SetCacheHooks(h)

	ctx := context.Background()
	Cache().OnCacheHit(ctx, "content")
	Cache().OnCacheHit(ctx, "content")
	Cache().OnCacheMiss(ctx, "slugs")

	if h.hits != 2 {
		t.Errorf("hits = %d, want 2", h.hits)
	}
	if h.misses != 1 {
		t.Errorf("misses = %d, want 1", h.misses)
	}
}

type testBuildHooks struct{ NoopBuildHooks }

type testCacheHooks struct {
	hits, misses int
}

func (h *testCacheHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *testCacheHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *testCacheHooks) OnCacheSet(context.Context, string, int) {}
