// Package filter provides include/exclude regular expression criteria
package filter

import (
	"log/slog"
	"regexp"
)

// Criteria decides whether a value passes an include/exclude pattern pair.
// A nil half is inert: a missing include allows everything, a missing
// exclude rejects nothing.
type Criteria struct {
	include *regexp.Regexp
	exclude *regexp.Regexp
}

// New compiles the include and exclude patterns. An empty pattern is absent.
// A pattern that does not compile is treated as absent and reported as a
// warning, so New never fails.
func New(include, exclude string) *Criteria {
	return &Criteria{
		include: compile("include", include),
		exclude: compile("exclude", exclude),
	}
}

// compile returns nil for empty or invalid patterns
func compile(kind, pattern string) *regexp.Regexp {
	if pattern == "" {
		return nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		slog.Warn("invalid pattern ignored", "kind", kind, "pattern", pattern, "error", err)
		return nil
	}
	return re
}

// Allow reports whether value matches the include pattern (if any) and does
// not match the exclude pattern (if any). Exclusion wins when both match.
func (c *Criteria) Allow(value string) bool {
	if c == nil {
		return true
	}
	if c.include != nil && !c.include.MatchString(value) {
		return false
	}
	return c.exclude == nil || !c.exclude.MatchString(value)
}

// Include returns the active include pattern, or "" when inert
func (c *Criteria) Include() string {
	if c == nil || c.include == nil {
		return ""
	}
	return c.include.String()
}

// Exclude returns the active exclude pattern, or "" when inert
func (c *Criteria) Exclude() string {
	if c == nil || c.exclude == nil {
		return ""
	}
	return c.exclude.String()
}
