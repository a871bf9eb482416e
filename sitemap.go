package syropia

import (
	"bytes"
	"encoding/xml"

	"github.com/syropia/syropia/content"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func lastMod(e content.Entry) string {
	t := e.LastModified()
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// renderSitemap lists the home page, every page and every published post.
func (a *App) renderSitemap(posts, pages []content.Entry) ([]byte, error) {
	urls := []sitemapURL{
		{Loc: BuildURL(a.Config.URL)},
	}
	for _, p := range pages {
		urls = append(urls, sitemapURL{Loc: PageURL(a.Config, p.Slug), LastMod: lastMod(p)})
	}
	for _, p := range posts {
		if p.IsDraft {
			continue
		}
		urls = append(urls, sitemapURL{Loc: PostURL(a.Config, p.Slug), LastMod: lastMod(p)})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(sitemap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
