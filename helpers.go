package syropia

import (
	"encoding/json"
	"encoding/xml"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/syropia/syropia/content"
	"github.com/syropia/syropia/feed"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PostURL returns the canonical URL of a post.
func PostURL(cfg SiteConfig, slug string) string {
	return feed.ResolveLink(cfg.URL, feed.Link(slug))
}

// PageURL returns the canonical URL of a page.
func PageURL(cfg SiteConfig, slug string) string {
	return feed.ResolveLink(cfg.URL, "/"+slug)
}

// FeedURL returns the absolute rss.xml URL.
func FeedURL(cfg SiteConfig) string {
	return feed.ResolveLink(cfg.URL, "/rss.xml")
}

func xmlEscape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema using SiteConfig.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        cfg.Name,
		"url":         BuildURL(cfg.URL),
		"description": cfg.Description,
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD returns a JSON-LD string for a BlogPosting schema.
func BlogPostingJsonLD(post content.Entry, cfg SiteConfig) string {
	postURL := PostURL(cfg, post.Slug)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Description,
		"datePublished": post.PublishedAt.Format(time.RFC3339),
		"url":           postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if post.UpdatedAt != nil {
		data["dateModified"] = post.UpdatedAt.Format(time.RFC3339)
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	if cfg.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func (a *App) homeMeta() PageMeta {
	return PageMeta{
		Title:       a.Config.Name,
		Description: a.Config.Description,
		URL:         BuildURL(a.Config.URL),
		OGType:      "website",
		JSONLD:      WebsiteJsonLD(a.Config),
		FeedURL:     FeedURL(a.Config),
	}
}

func (a *App) postMeta(post content.Entry) PageMeta {
	return PageMeta{
		Title:       post.Title + " | " + a.Config.Name,
		Description: post.Description,
		URL:         PostURL(a.Config, post.Slug),
		OGType:      "article",
		JSONLD:      BlogPostingJsonLD(post, a.Config),
		FeedURL:     FeedURL(a.Config),
	}
}

func (a *App) pageMeta(page content.Entry) PageMeta {
	return PageMeta{
		Title:       page.Title + " | " + a.Config.Name,
		Description: page.Description,
		URL:         PageURL(a.Config, page.Slug),
		OGType:      "website",
		FeedURL:     FeedURL(a.Config),
	}
}
