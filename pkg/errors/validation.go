package errors

import (
	"strings"
	"unicode"
)

// Validation limits shared by config loading and the CLI.
const (
	// MaxPathLength is the longest entrypoint or ignore-file path accepted.
	MaxPathLength = 1024

	// MinConcurrency and MaxConcurrency bound the validator worker pool.
	MinConcurrency = 1
	MaxConcurrency = 100
)

// ValidateEntrypoint validates an entrypoint path from config or flags.
//
// The validation rules are intentionally conservative:
//   - No empty paths
//   - No control characters or null bytes
//   - Maximum length of MaxPathLength characters
//   - Must name a markdown file (.md)
func ValidateEntrypoint(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "entrypoint cannot be empty")
	}
	if len(path) > MaxPathLength {
		return New(ErrCodeInvalidInput, "entrypoint too long (max %d characters)", MaxPathLength)
	}
	if hasControl(path) {
		return New(ErrCodeInvalidInput, "entrypoint contains invalid control characters")
	}
	if !strings.EqualFold(extOf(path), ".md") {
		return New(ErrCodeInvalidInput, "entrypoint must be a markdown file: %s", path)
	}
	return nil
}

// ValidatePattern validates a single exclusion pattern.
// Blank patterns and comment lines are rejected because they never match
// and almost always indicate a quoting mistake on the command line.
func ValidatePattern(pattern string) error {
	trimmed := strings.TrimSpace(pattern)
	if trimmed == "" {
		return New(ErrCodeInvalidConfig, "exclusion pattern cannot be empty")
	}
	if trimmed == "!" {
		return New(ErrCodeInvalidConfig, "negation pattern has no body")
	}
	if strings.HasPrefix(trimmed, "#") {
		return New(ErrCodeInvalidConfig, "exclusion pattern looks like a comment: %q", pattern)
	}
	if hasControl(pattern) {
		return New(ErrCodeInvalidConfig, "exclusion pattern contains invalid control characters")
	}
	return nil
}

// ValidateConcurrency checks the validator worker-pool size.
func ValidateConcurrency(n int) error {
	if n < MinConcurrency || n > MaxConcurrency {
		return New(ErrCodeInvalidConfig, "concurrency must be between %d and %d, got %d",
			MinConcurrency, MaxConcurrency, n)
	}
	return nil
}

func hasControl(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}

func extOf(path string) string {
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		return base[i:]
	}
	return ""
}
