// Package views provides the stock templ components for a syropia site.
package views

import (
	"context"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/syropia/syropia"
	"github.com/syropia/syropia/content"
	"github.com/syropia/syropia/feed"
)

const defaultBrand = "#dc393e"

// Default returns the stock views for cfg.
func Default(cfg syropia.SiteConfig) syropia.ViewFuncs {
	v := &site{cfg: cfg}
	return syropia.ViewFuncs{
		Home:        v.home,
		Post:        v.post,
		Page:        v.page,
		NotFound:    v.notFound,
		ServerError: v.serverError,
	}
}

type site struct {
	cfg syropia.SiteConfig
}

// Layout wraps body in the site chrome.
func (s *site) layout(meta syropia.PageMeta, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
		w.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		w.raw("<title>")
		w.text(meta.Title)
		w.raw("</title>")
		if meta.Description != "" {
			w.raw(`<meta name="description"`)
			w.attr("content", meta.Description)
			w.raw(">")
		}
		if meta.URL != "" {
			w.raw(`<link rel="canonical"`)
			w.attr("href", meta.URL)
			w.raw(`><meta property="og:url"`)
			w.attr("content", meta.URL)
			w.raw(">")
		}
		w.raw(`<meta property="og:title"`)
		w.attr("content", meta.Title)
		w.raw(`><meta property="og:type"`)
		w.attr("content", meta.OGType)
		w.raw(">")
		if meta.FeedURL != "" {
			w.raw(`<link rel="alternate" type="application/rss+xml"`)
			w.attr("title", s.cfg.Feed.Title)
			w.attr("href", meta.FeedURL)
			w.raw(">")
		}
		if s.cfg.Theme.FontStylesheet != "" {
			w.raw(`<link rel="stylesheet" type="text/css"`)
			w.attr("href", s.cfg.Theme.FontStylesheet)
			w.raw(">")
		}
		w.raw("<style>:root{--brand:")
		w.raw(SafeColor(s.cfg.Theme.Brand, defaultBrand))
		w.raw("}body{font-family:")
		w.raw(FontStack(s.cfg.Theme.FontSans))
		w.raw(";max-width:42rem;margin:0 auto;padding:2rem 1rem;color:#1e293b;line-height:1.6}")
		w.raw("a{color:inherit}a:hover{color:var(--brand)}header{display:flex;justify-content:space-between;margin-bottom:3rem}")
		w.raw(".brand{color:var(--brand);font-weight:700;text-decoration:none}time{color:#64748b;font-size:.875rem}")
		w.raw("pre{overflow-x:auto;background:#282c34;color:#abb2bf;padding:1rem;border-radius:.25rem}</style>")
		if meta.JSONLD != "" {
			// json.Marshal escapes <, > and &, so the payload cannot close the tag.
			w.raw(`<script type="application/ld+json">`)
			w.raw(meta.JSONLD)
			w.raw("</script>")
		}
		w.raw(`</head><body><header><a class="brand" href="/">`)
		w.text(s.cfg.Name)
		w.raw(`</a><nav><a href="/rss.xml">RSS</a></nav></header><main>`)
		if w.err != nil {
			return w.err
		}
		if err := body.Render(ctx, out); err != nil {
			return err
		}
		w.raw("</main><footer><p>&copy; ")
		w.text(time.Now().Format("2006"))
		w.raw(" ")
		w.text(s.cfg.Name)
		w.raw("</p></footer></body></html>")
		return w.err
	})
}

func (s *site) home(posts []content.Entry, meta syropia.PageMeta) templ.Component {
	return s.layout(meta, templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw("<section><h1>Posts</h1>")
		if len(posts) == 0 {
			w.raw("<p>Nothing published yet.</p>")
		}
		w.raw("<ul class=\"posts\">")
		for _, p := range posts {
			w.raw("<li><a")
			w.attr("href", feed.Link(p.Slug)+"/")
			w.raw(">")
			w.text(p.Title)
			w.raw("</a>")
			if p.IsDraft {
				w.raw(" <em>(draft)</em>")
			}
			w.raw(" <time")
			w.attr("datetime", p.PublishedAt.Format(time.RFC3339))
			w.raw(">")
			w.text(FormatDate(p.PublishedAt))
			w.raw("</time><p>")
			w.text(p.Description)
			w.raw("</p></li>")
		}
		w.raw("</ul></section>")
		return w.err
	}))
}

func (s *site) post(p content.Entry, body templ.Component, meta syropia.PageMeta) templ.Component {
	return s.layout(meta, templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw("<article><h1>")
		w.text(p.Title)
		w.raw("</h1><p><time")
		w.attr("datetime", p.PublishedAt.Format(time.RFC3339))
		w.raw(">")
		w.text(FormatDate(p.PublishedAt))
		w.raw("</time>")
		if p.UpdatedAt != nil {
			w.raw(" &middot; updated <time")
			w.attr("datetime", p.UpdatedAt.Format(time.RFC3339))
			w.raw(">")
			w.text(FormatDate(*p.UpdatedAt))
			w.raw("</time>")
		}
		w.raw("</p><div class=\"prose\">")
		if w.err != nil {
			return w.err
		}
		if err := body.Render(ctx, out); err != nil {
			return err
		}
		w.raw("</div></article>")
		return w.err
	}))
}

func (s *site) page(p content.Entry, body templ.Component, meta syropia.PageMeta) templ.Component {
	return s.layout(meta, templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw("<article><h1>")
		w.text(p.Title)
		w.raw("</h1><div class=\"prose\">")
		if w.err != nil {
			return w.err
		}
		if err := body.Render(ctx, out); err != nil {
			return err
		}
		w.raw("</div></article>")
		return w.err
	}))
}

func (s *site) message(title, text string) templ.Component {
	meta := syropia.PageMeta{Title: title + " | " + s.cfg.Name, OGType: "website"}
	return s.layout(meta, templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw("<section><h1>")
		w.text(title)
		w.raw("</h1><p>")
		w.text(text)
		w.raw(`</p><p><a href="/">Back home</a></p></section>`)
		return w.err
	}))
}

func (s *site) notFound() templ.Component {
	return s.message("Not found", "There is nothing at this address.")
}

func (s *site) serverError() templ.Component {
	return s.message("Something went wrong", "The page could not be rendered.")
}
