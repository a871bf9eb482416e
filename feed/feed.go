// Package feed turns the posts collection into an RSS 2.0 document.
//
// Build filters out drafts, orders the remaining entries newest first
// (stable for equal publish dates), renders and sanitizes each body, and
// returns a Document that can be encoded. Any failure aborts the whole feed.
package feed

import (
	"bytes"
	"slices"
	"time"

	"github.com/syropia/syropia/content"
)

// PostsPrefix is the route every item link is built from.
const PostsPrefix = "/posts/"

// Markup renders an entry body to HTML and strips unsafe markup from it.
type Markup interface {
	Render(src string) (string, error)
	Sanitize(html string) (string, error)
}

// Config carries the channel-level metadata.
type Config struct {
	Title       string
	Description string
	Site        string // absolute base URL item links are resolved against
	Stylesheet  string // optional xml-stylesheet href
	CustomData  string // optional raw XML inserted into <channel>
}

// Item is the publish-ready form of a content entry.
type Item struct {
	Slug        string
	Title       string
	Description string
	PubDate     time.Time
	Link        string // site-relative, PostsPrefix + slug
	Content     string // sanitized HTML
}

// Document is a built feed ready to be encoded.
type Document struct {
	Config Config
	Items  []Item
}

// Link returns the item link for a slug.
func Link(slug string) string {
	return PostsPrefix + slug
}

// Published returns the non-draft entries sorted by PublishedAt descending.
// Entries sharing a timestamp keep their input order. The input slice is not
// modified.
func Published(entries []content.Entry) []content.Entry {
	out := content.Published(entries)
	slices.SortStableFunc(out, func(a, b content.Entry) int {
		return b.PublishedAt.Compare(a.PublishedAt)
	})
	return out
}

// Build produces the feed document for entries. The first entry whose body
// fails to render or sanitize aborts the build with a *RenderError.
func Build(entries []content.Entry, cfg Config, markup Markup) (*Document, error) {
	published := Published(entries)
	items := make([]Item, 0, len(published))
	for _, e := range published {
		html, err := markup.Render(e.Body)
		if err != nil {
			return nil, &RenderError{Slug: e.Slug, Err: err}
		}
		safe, err := markup.Sanitize(html)
		if err != nil {
			return nil, &RenderError{Slug: e.Slug, Err: err}
		}
		items = append(items, Item{
			Slug:        e.Slug,
			Title:       e.Title,
			Description: e.Description,
			PubDate:     e.PublishedAt,
			Link:        Link(e.Slug),
			Content:     safe,
		})
	}
	return &Document{Config: cfg, Items: items}, nil
}

// Render builds the feed and encodes it. On error no bytes are returned.
func Render(entries []content.Entry, cfg Config, markup Markup) ([]byte, error) {
	doc, err := Build(entries, cfg, markup)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := doc.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
