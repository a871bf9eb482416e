package content

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Collection names shipped with the site.
const (
	Posts = "posts"
	Pages = "pages"
)

// Schema describes the front matter a collection requires.
type Schema struct {
	Name               string
	RequirePublishedAt bool
	AllowDraft         bool
}

// DefaultSchemas returns the posts and pages schemas.
func DefaultSchemas() map[string]Schema {
	return map[string]Schema{
		Posts: {Name: Posts, RequirePublishedAt: true, AllowDraft: true},
		Pages: {Name: Pages},
	}
}

// frontMatter is the raw document header. Pointer fields distinguish a
// missing key from an empty value. Unknown keys are ignored.
type frontMatter struct {
	Title       *string `yaml:"title"`
	Description *string `yaml:"description"`
	PublishedAt *string `yaml:"publishedAt"`
	UpdatedAt   *string `yaml:"updatedAt"`
	IsDraft     *bool   `yaml:"isDraft"`
	Slug        string  `yaml:"slug"`
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate parses the date forms accepted in front matter. Dates without a
// zone are read as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

var delimiter = []byte("---")

// splitFrontMatter separates a leading YAML block delimited by "---" lines
// from the Markdown body.
func splitFrontMatter(src []byte) (header, body []byte, ok bool) {
	src = bytes.TrimPrefix(src, []byte("\xef\xbb\xbf"))
	src = bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))
	first, rest, found := bytes.Cut(src, []byte("\n"))
	if !found || !bytes.Equal(bytes.TrimSpace(first), delimiter) {
		return nil, src, false
	}
	for off := 0; off <= len(rest); {
		line, next, more := bytes.Cut(rest[off:], []byte("\n"))
		if bytes.Equal(bytes.TrimRight(line, " \t"), delimiter) {
			header = rest[:off]
			if more {
				body = next
			}
			return header, body, true
		}
		if !more {
			break
		}
		off += len(line) + 1
	}
	return nil, src, false
}

// Parse validates a source file against the schema and returns the entry.
// The slug is left empty when the front matter does not set one.
func (s Schema) Parse(path string, src []byte) (Entry, error) {
	header, body, ok := splitFrontMatter(src)
	if !ok {
		return Entry{}, &SchemaError{Path: path, Reason: "missing front matter block"}
	}
	var fm frontMatter
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return Entry{}, &SchemaError{Path: path, Reason: "invalid front matter", Err: err}
	}

	e := Entry{
		Collection: s.Name,
		Path:       path,
		Slug:       strings.Trim(strings.TrimSpace(fm.Slug), "/"),
		Body:       string(body),
	}
	if err := checkSlug(e.Slug); err != nil {
		return Entry{}, &SchemaError{Path: path, Field: "slug", Reason: err.Error()}
	}
	if fm.Title == nil {
		return Entry{}, &SchemaError{Path: path, Field: "title", Reason: "required"}
	}
	e.Title = *fm.Title
	if fm.Description == nil {
		return Entry{}, &SchemaError{Path: path, Field: "description", Reason: "required"}
	}
	e.Description = *fm.Description

	if s.RequirePublishedAt {
		if fm.PublishedAt == nil {
			return Entry{}, &SchemaError{Path: path, Field: "publishedAt", Reason: "required"}
		}
		t, err := ParseDate(*fm.PublishedAt)
		if err != nil {
			return Entry{}, &SchemaError{Path: path, Field: "publishedAt", Reason: "invalid date", Err: err}
		}
		e.PublishedAt = t
	}
	if fm.UpdatedAt != nil && strings.TrimSpace(*fm.UpdatedAt) != "" {
		t, err := ParseDate(*fm.UpdatedAt)
		if err != nil {
			return Entry{}, &SchemaError{Path: path, Field: "updatedAt", Reason: "invalid date", Err: err}
		}
		e.UpdatedAt = &t
	}
	if s.AllowDraft && fm.IsDraft != nil {
		e.IsDraft = *fm.IsDraft
	}
	return e, nil
}

// checkSlug rejects front matter slugs that would leave the collection's
// route once joined into a URL or an output path. An empty slug is allowed
// and derived from the file name later.
func checkSlug(slug string) error {
	if slug == "" {
		return nil
	}
	if strings.ContainsAny(slug, "\\?#") {
		return fmt.Errorf("%q contains a backslash, '?' or '#'", slug)
	}
	for _, seg := range strings.Split(slug, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Errorf("%q has an empty, '.' or '..' segment", slug)
		}
	}
	if path.Clean(slug) != slug {
		return fmt.Errorf("%q is not a clean path", slug)
	}
	return nil
}
