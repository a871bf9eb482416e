package feed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"
	"unicode/utf8"
)

// ContentType is the media type feeds are served with.
const ContentType = "application/rss+xml; charset=utf-8"

const contentNS = "http://purl.org/rss/1.0/modules/content/"

type rssXML struct {
	XMLName   xml.Name   `xml:"rss"`
	Version   string     `xml:"version,attr"`
	ContentNS string     `xml:"xmlns:content,attr"`
	Channel   rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Description string    `xml:"description"`
	Link        string    `xml:"link"`
	CustomData  string    `xml:",innerxml"`
	Items       []rssItem `xml:"item"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type rssContent struct {
	Value string `xml:",cdata"`
}

type rssItem struct {
	Title       string     `xml:"title"`
	Link        string     `xml:"link"`
	GUID        rssGUID    `xml:"guid"`
	Description string     `xml:"description"`
	PubDate     string     `xml:"pubDate"`
	Content     rssContent `xml:"content:encoded"`
}

// ResolveLink makes link absolute against site and ensures a trailing slash
// on extensionless paths. link is returned unchanged when site is empty or
// unparsable.
func ResolveLink(site, link string) string {
	base, err := url.Parse(site)
	if err != nil || site == "" {
		return link
	}
	ref, err := url.Parse(link)
	if err != nil {
		return link
	}
	u := base.ResolveReference(ref)
	if path.Ext(u.Path) == "" && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// Encode writes the document as RSS 2.0. The output is assembled in memory
// and only written to w once it is complete.
func (d *Document) Encode(w io.Writer) error {
	if err := d.validate(); err != nil {
		return err
	}

	items := make([]rssItem, 0, len(d.Items))
	for _, it := range d.Items {
		link := ResolveLink(d.Config.Site, it.Link)
		items = append(items, rssItem{
			Title:       it.Title,
			Link:        link,
			GUID:        rssGUID{IsPermaLink: true, Value: link},
			Description: it.Description,
			PubDate:     it.PubDate.Format(time.RFC1123Z),
			Content:     rssContent{Value: it.Content},
		})
	}
	doc := rssXML{
		Version:   "2.0",
		ContentNS: contentNS,
		Channel: rssChannel{
			Title:       d.Config.Title,
			Description: d.Config.Description,
			Link:        ResolveLink(d.Config.Site, "/"),
			CustomData:  d.Config.CustomData,
			Items:       items,
		},
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	if d.Config.Stylesheet != "" {
		if err := enc.EncodeToken(stylesheetPI(d.Config.Stylesheet)); err != nil {
			return &SerializationError{Field: "stylesheet", Err: err}
		}
	}
	if err := enc.Encode(doc); err != nil {
		return &SerializationError{Err: err}
	}
	if err := enc.Close(); err != nil {
		return &SerializationError{Err: err}
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

func stylesheetPI(href string) xml.ProcInst {
	typ := "text/css"
	if strings.HasSuffix(strings.ToLower(href), ".xsl") {
		typ = "text/xsl"
	}
	var b strings.Builder
	b.WriteString(`href="`)
	xml.EscapeText(&b, []byte(href))
	b.WriteString(`" type="`)
	b.WriteString(typ)
	b.WriteString(`"`)
	return xml.ProcInst{Target: "xml-stylesheet", Inst: []byte(b.String())}
}

func (d *Document) validate() error {
	channel := []struct{ field, value string }{
		{"title", d.Config.Title},
		{"description", d.Config.Description},
		{"stylesheet", d.Config.Stylesheet},
	}
	for _, f := range channel {
		if err := checkChars(f.value); err != nil {
			return &SerializationError{Field: f.field, Err: err}
		}
	}
	if strings.Contains(d.Config.Stylesheet, "?>") {
		return &SerializationError{Field: "stylesheet", Err: errors.New("contains \"?>\"")}
	}
	if err := checkFragment(d.Config.CustomData); err != nil {
		return &SerializationError{Field: "customData", Err: err}
	}
	for _, it := range d.Items {
		fields := []struct{ field, value string }{
			{"title", it.Title},
			{"description", it.Description},
			{"link", it.Link},
			{"content", it.Content},
		}
		for _, f := range fields {
			if err := checkChars(f.value); err != nil {
				return &SerializationError{Slug: it.Slug, Field: f.field, Err: err}
			}
		}
	}
	return nil
}

// checkChars rejects invalid UTF-8 and characters outside the XML 1.0 Char
// production, which encoding/xml would otherwise replace silently.
func checkChars(s string) error {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return fmt.Errorf("invalid UTF-8 at byte %d", i)
		}
		if !isXMLChar(r) {
			return fmt.Errorf("invalid XML character %U at byte %d", r, i)
		}
		i += size
	}
	return nil
}

func isXMLChar(r rune) bool {
	return r == 0x09 ||
		r == 0x0A ||
		r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}

// checkFragment reports whether frag parses as a sequence of XML nodes. The
// fragment is emitted verbatim; it is only checked, never rewritten.
func checkFragment(frag string) error {
	if strings.TrimSpace(frag) == "" {
		return nil
	}
	if err := checkChars(frag); err != nil {
		return err
	}
	dec := xml.NewDecoder(strings.NewReader("<fragment>" + frag + "</fragment>"))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
