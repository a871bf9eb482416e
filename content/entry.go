// Package content loads Markdown content collections (posts, pages) from disk
// and validates their front matter against typed schemas.
package content

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
)

var (
	// ErrNotFound is returned when no entry in a collection has the requested slug.
	ErrNotFound = errors.New("content: entry not found")
	// ErrUnknownCollection is returned for collection names without a schema.
	ErrUnknownCollection = errors.New("content: unknown collection")
)

// Entry is a single authored content item with validated metadata and its
// raw Markdown body.
type Entry struct {
	Collection  string
	Slug        string
	Path        string // source file, relative to the content directory
	Title       string
	Description string
	PublishedAt time.Time  // zero for collections without a publish date
	UpdatedAt   *time.Time // nil when not set
	IsDraft     bool
	Body        string
}

// LastModified returns UpdatedAt when set, otherwise PublishedAt.
func (e Entry) LastModified() time.Time {
	if e.UpdatedAt != nil {
		return *e.UpdatedAt
	}
	return e.PublishedAt
}

// SchemaError reports a content file whose front matter does not satisfy the
// collection schema.
type SchemaError struct {
	Path   string
	Field  string
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("content: ")
	b.WriteString(e.Path)
	if e.Field != "" {
		b.WriteString(": ")
		b.WriteString(e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *SchemaError) Unwrap() error { return e.Err }

// Published returns the entries that are not drafts, preserving order.
func Published(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !e.IsDraft {
			out = append(out, e)
		}
	}
	return out
}

// Slugify converts a title or path segment to a lowercase slug. Letters and
// digits of any script are kept; everything else collapses to single dashes.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
