// Package cache memoizes per-file content and the data derived from it.
//
// Every docgraph component needs the same derived data for the same files,
// often many times: shared links across multiple entry points, repeated
// anchor checks against one target. A [Cache] guarantees that each file is
// read once and each derived field (document, heading slugs, link targets)
// is computed at most once per Cache instance, regardless of how many
// goroutines ask for it concurrently.
//
// Keys are canonical absolute paths; callers may pass any spelling.
//
// Read errors propagate to the caller and are not cached, so a later call
// retries the read.
package cache

import (
	"context"
	"os"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/docgraph/pkg/errors"
	"github.com/matzehuels/docgraph/pkg/fsutil"
	"github.com/matzehuels/docgraph/pkg/markdown"
	"github.com/matzehuels/docgraph/pkg/observability"
	"github.com/matzehuels/docgraph/pkg/slug"
)

// Key types reported to cache hooks.
const (
	KeyContent  = "content"
	KeyDocument = "document"
	KeySlugs    = "slugs"
	KeyLinks    = "links"
)

// Stats summarizes what a Cache currently holds.
type Stats struct {
	Files int   // Files whose content has been read
	Bytes int64 // Total content bytes held
}

// Cache memoizes file content, parsed documents, heading slugs and outgoing
// link targets. The zero value is not usable; call [New].
// A Cache is safe for concurrent use.
type Cache struct {
	parser  *markdown.Parser
	slugger *slug.Slugger
	read    func(string) ([]byte, error)

	mu      sync.RWMutex
	entries map[string]*entry
	group   singleflight.Group
}

type entry struct {
	content *string
	doc     *markdown.Document
	slugs   []string
	links   []string

	hasSlugs bool
	hasLinks bool
}

// Option configures a Cache.
type Option func(*Cache)

// WithSlugger shares a slugger with other components.
func WithSlugger(s *slug.Slugger) Option {
	return func(c *Cache) { c.slugger = s }
}

// WithParser sets the markdown parser.
func WithParser(p *markdown.Parser) Option {
	return func(c *Cache) { c.parser = p }
}

// WithReader replaces os.ReadFile. Tests use it to count or fail reads.
func WithReader(read func(string) ([]byte, error)) Option {
	return func(c *Cache) { c.read = read }
}

// New creates an empty Cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		parser:  markdown.NewParser(),
		slugger: slug.New(),
		read:    os.ReadFile,
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Slugger returns the slugger used for heading slugs.
func (c *Cache) Slugger() *slug.Slugger { return c.slugger }

// Content returns the raw content of path.
func (c *Cache) Content(ctx context.Context, path string) (string, error) {
	path = fsutil.Abs(path)
	if e := c.lookup(path); e != nil && e.content != nil {
		observability.Cache().OnCacheHit(ctx, KeyContent)
		return *e.content, nil
	}

	v, err, _ := c.group.Do(KeyContent+":"+path, func() (any, error) {
		if e := c.lookup(path); e != nil && e.content != nil {
			return *e.content, nil
		}
		observability.Cache().OnCacheMiss(ctx, KeyContent)
		data, err := c.read(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileRead, err, "read %s", path)
		}
		s := string(data)
		c.update(path, func(e *entry) { e.content = &s })
		observability.Cache().OnCacheSet(ctx, KeyContent, len(data))
		return s, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Document returns the parsed markdown document for path.
func (c *Cache) Document(ctx context.Context, path string) (*markdown.Document, error) {
	path = fsutil.Abs(path)
	if e := c.lookup(path); e != nil && e.doc != nil {
		observability.Cache().OnCacheHit(ctx, KeyDocument)
		return e.doc, nil
	}

	v, err, _ := c.group.Do(KeyDocument+":"+path, func() (any, error) {
		if e := c.lookup(path); e != nil && e.doc != nil {
			return e.doc, nil
		}
		observability.Cache().OnCacheMiss(ctx, KeyDocument)
		content, err := c.Content(ctx, path)
		if err != nil {
			return nil, err
		}
		doc, err := c.parser.Parse(ctx, []byte(content))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "parse %s", path)
		}
		c.update(path, func(e *entry) { e.doc = doc })
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*markdown.Document), nil
}

// HeadingSlugs returns one slug per heading of path, in document order.
// Duplicate headings produce duplicate slugs.
func (c *Cache) HeadingSlugs(ctx context.Context, path string) ([]string, error) {
	path = fsutil.Abs(path)
	if e := c.lookup(path); e != nil && e.hasSlugs {
		observability.Cache().OnCacheHit(ctx, KeySlugs)
		return e.slugs, nil
	}

	v, err, _ := c.group.Do(KeySlugs+":"+path, func() (any, error) {
		if e := c.lookup(path); e != nil && e.hasSlugs {
			return e.slugs, nil
		}
		observability.Cache().OnCacheMiss(ctx, KeySlugs)
		doc, err := c.Document(ctx, path)
		if err != nil {
			return nil, err
		}
		slugs := make([]string, len(doc.Headings))
		for i, h := range doc.Headings {
			slugs[i] = c.slugger.Slugify(h.Text)
		}
		c.update(path, func(e *entry) { e.slugs, e.hasSlugs = slugs, true })
		return slugs, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// LinkTargets returns the outgoing relative document links of path, in
// document order, exactly as written (fragment included). Fragment-only and
// scheme-qualified links are dropped, as are links whose path portion does
// not end in the markdown extension.
func (c *Cache) LinkTargets(ctx context.Context, path string) ([]string, error) {
	path = fsutil.Abs(path)
	if e := c.lookup(path); e != nil && e.hasLinks {
		observability.Cache().OnCacheHit(ctx, KeyLinks)
		return e.links, nil
	}

	v, err, _ := c.group.Do(KeyLinks+":"+path, func() (any, error) {
		if e := c.lookup(path); e != nil && e.hasLinks {
			return e.links, nil
		}
		observability.Cache().OnCacheMiss(ctx, KeyLinks)
		doc, err := c.Document(ctx, path)
		if err != nil {
			return nil, err
		}
		var links []string
		for _, l := range doc.Links {
			if IsDocumentLink(l.URL) {
				links = append(links, l.URL)
			}
		}
		c.update(path, func(e *entry) { e.links, e.hasLinks = links, true })
		return links, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// IsDocumentLink reports whether a link destination is a relative link to
// a markdown document.
func IsDocumentLink(dest string) bool {
	if dest == "" || strings.HasPrefix(dest, "#") || fsutil.HasScheme(dest) || fsutil.IsRootRelative(dest) {
		return false
	}
	p, _ := fsutil.SplitFragment(dest)
	return p != "" && fsutil.IsMarkdown(p)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}

// Stats reports the number of files read and their total size.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var s Stats
	for _, e := range c.entries {
		if e.content != nil {
			s.Files++
			s.Bytes += int64(len(*e.content))
		}
	}
	return s
}

func (c *Cache) lookup(path string) *entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[path]
}

// update applies fn to the entry for path under the write lock. Entries are
// replaced rather than mutated so readers holding an old pointer never race.
func (c *Cache) update(path string, fn func(*entry)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := &entry{}
	if e, ok := c.entries[path]; ok {
		*next = *e
	}
	fn(next)
	c.entries[path] = next
}
