// Package slug converts heading text into anchor identifiers.
//
// The conversion mirrors the anchors most markdown renderers generate for
// headings: lowercase, punctuation stripped, whitespace runs replaced by a
// single hyphen, leading and trailing hyphens trimmed.
//
// A [Slugger] memoizes results. Create one per run and share it between the
// content cache and the validator; tests construct their own so no state
// leaks between them.
package slug

import (
	"strings"
	"sync"
	"unicode"
)

// Slugger converts heading text to anchor slugs and remembers the results.
// The zero value is ready to use. A Slugger is safe for concurrent use.
type Slugger struct {
	mu    sync.RWMutex
	cache map[string]string
}

// New returns an empty Slugger.
func New() *Slugger {
	return &Slugger{cache: make(map[string]string)}
}

// Slugify returns the anchor slug for text. It never fails; empty or
// all-punctuation input yields an empty string.
func (s *Slugger) Slugify(text string) string {
	s.mu.RLock()
	v, ok := s.cache[text]
	s.mu.RUnlock()
	if ok {
		return v
	}

	v = Slugify(text)

	s.mu.Lock()
	if s.cache == nil {
		s.cache = make(map[string]string)
	}
	s.cache[text] = v
	s.mu.Unlock()
	return v
}

// Len returns the number of memoized entries.
func (s *Slugger) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}

// Slugify is the uncached conversion used by [Slugger.Slugify].
func Slugify(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	pendingSpace := false
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = true
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			if pendingSpace && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSpace = false
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-")
}
