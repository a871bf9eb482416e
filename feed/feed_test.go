package feed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syropia/syropia/content"
	"github.com/syropia/syropia/markdown"
)

var testConfig = Config{
	Title:       "Posts | Syropia",
	Description: "Technical tidbits for everyday coders",
	Site:        "https://syropia.net",
	Stylesheet:  "/rss/styles.xsl",
	CustomData:  "<language>en-us</language>",
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func post(slug string, published time.Time, draft bool) content.Entry {
	return content.Entry{
		Collection:  content.Posts,
		Slug:        slug,
		Title:       "Title " + slug,
		Description: "About " + slug,
		PublishedAt: published,
		IsDraft:     draft,
		Body:        "Body of **" + slug + "**",
	}
}

func slugs(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Slug)
	}
	return out
}

type fakeMarkup struct {
	renderErr   map[string]error
	sanitizeErr error
	calls       int
}

func (f *fakeMarkup) Render(src string) (string, error) {
	f.calls++
	for needle, err := range f.renderErr {
		if strings.Contains(src, needle) {
			return "", err
		}
	}
	return "<p>" + src + "</p><script>x()</script>", nil
}

func (f *fakeMarkup) Sanitize(html string) (string, error) {
	if f.sanitizeErr != nil {
		return "", f.sanitizeErr
	}
	return strings.ReplaceAll(html, "<script>x()</script>", ""), nil
}

func TestBuildScenarioDraftExcludedAndSorted(t *testing.T) {
	entries := []content.Entry{
		post("a", day(3), false),
		post("b", day(5), true),
		post("c", day(1), false),
	}
	doc, err := Build(entries, testConfig, markdown.NewPipeline())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, slugs(doc.Items))
}

func TestBuildStableForEqualDates(t *testing.T) {
	entries := []content.Entry{
		post("x", day(2), false),
		post("y", day(2), false),
		post("newer", day(9), false),
		post("z", day(2), false),
	}
	doc, err := Build(entries, testConfig, markdown.NewPipeline())
	require.NoError(t, err)
	assert.Equal(t, []string{"newer", "x", "y", "z"}, slugs(doc.Items))
}

func TestBuildOrderingIsDescending(t *testing.T) {
	var entries []content.Entry
	for i, d := range []int{4, 17, 1, 28, 9, 9, 12} {
		entries = append(entries, post(string(rune('a'+i)), day(d), i%3 == 2))
	}
	doc, err := Build(entries, testConfig, markdown.NewPipeline())
	require.NoError(t, err)
	for i := 1; i < len(doc.Items); i++ {
		assert.False(t, doc.Items[i-1].PubDate.Before(doc.Items[i].PubDate),
			"item %d (%s) precedes item %d (%s) but is older", i-1, doc.Items[i-1].Slug, i, doc.Items[i].Slug)
	}
	for _, it := range doc.Items {
		for _, e := range entries {
			if e.Slug == it.Slug {
				assert.False(t, e.IsDraft, "draft %s in feed", e.Slug)
			}
		}
	}
}

func TestBuildDoesNotReorderInput(t *testing.T) {
	entries := []content.Entry{post("old", day(1), false), post("new", day(2), false)}
	_, err := Build(entries, testConfig, markdown.NewPipeline())
	require.NoError(t, err)
	assert.Equal(t, "old", entries[0].Slug)
}

func TestBuildItemFields(t *testing.T) {
	e := post("hello-world", day(3), false)
	doc, err := Build([]content.Entry{e}, testConfig, markdown.NewPipeline())
	require.NoError(t, err)
	require.Len(t, doc.Items, 1)
	it := doc.Items[0]
	assert.Equal(t, "/posts/hello-world", it.Link)
	assert.Equal(t, e.Title, it.Title)
	assert.Equal(t, e.Description, it.Description)
	assert.Equal(t, e.PublishedAt, it.PubDate)
	assert.Equal(t, "<p>Body of <strong>hello-world</strong></p>\n", it.Content)
}

func TestBuildSanitizesContent(t *testing.T) {
	e := post("xss", day(1), false)
	e.Body = "Hi\n\n<script>alert('pwned')</script>\n\n<img src=\"/a.png\" onerror=\"alert(1)\">"
	doc, err := Build([]content.Entry{e}, testConfig, markdown.NewPipeline())
	require.NoError(t, err)
	got := strings.ToLower(doc.Items[0].Content)
	assert.NotContains(t, got, "<script")
	assert.NotContains(t, got, "onerror")
	assert.Contains(t, got, "<p>hi</p>")
}

func TestBuildRenderFailureAborts(t *testing.T) {
	boom := errors.New("boom")
	m := &fakeMarkup{renderErr: map[string]error{"bad": boom}}
	entries := []content.Entry{post("good", day(3), false), post("bad", day(2), false), post("later", day(1), false)}
	doc, err := Build(entries, testConfig, m)
	assert.Nil(t, doc)
	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "bad", re.Slug)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `"bad"`)
	assert.Equal(t, 2, m.calls)
}

func TestBuildSanitizeFailureAborts(t *testing.T) {
	m := &fakeMarkup{sanitizeErr: markdown.ErrNoPolicy}
	_, err := Build([]content.Entry{post("a", day(1), false)}, testConfig, m)
	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "a", re.Slug)
	assert.ErrorIs(t, err, markdown.ErrNoPolicy)
}

func TestBuildSkipsDraftBodies(t *testing.T) {
	m := &fakeMarkup{renderErr: map[string]error{"draft": errors.New("not rendered")}}
	_, err := Build([]content.Entry{post("draft", day(1), true)}, testConfig, m)
	require.NoError(t, err)
	assert.Zero(t, m.calls)
}

func parse(t *testing.T, out []byte) *gofeed.Feed {
	t.Helper()
	f, err := gofeed.NewParser().ParseString(string(out))
	require.NoError(t, err, string(out))
	return f
}

func TestRenderParsesAsRSS(t *testing.T) {
	entries := []content.Entry{
		post("a", day(3), false),
		post("b", day(5), true),
		post("c", day(1), false),
	}
	out, err := Render(entries, testConfig, markdown.NewPipeline())
	require.NoError(t, err)

	f := parse(t, out)
	assert.Equal(t, "rss", f.FeedType)
	assert.Equal(t, "Posts | Syropia", f.Title)
	assert.Equal(t, "Technical tidbits for everyday coders", f.Description)
	assert.Equal(t, "https://syropia.net/", f.Link)
	assert.Equal(t, "en-us", f.Language)
	require.Len(t, f.Items, 2)

	first := f.Items[0]
	assert.Equal(t, "Title a", first.Title)
	assert.Equal(t, "https://syropia.net/posts/a/", first.Link)
	assert.Equal(t, "About a", first.Description)
	assert.Contains(t, first.Content, "<p>Body of <strong>a</strong></p>")
	require.NotNil(t, first.PublishedParsed)
	assert.True(t, day(3).Equal(*first.PublishedParsed))
	assert.Equal(t, "https://syropia.net/posts/c/", f.Items[1].Link)
}

func TestRenderEmptyCollection(t *testing.T) {
	out, err := Render(nil, testConfig, markdown.NewPipeline())
	require.NoError(t, err)
	f := parse(t, out)
	assert.Equal(t, "Posts | Syropia", f.Title)
	assert.Equal(t, "Technical tidbits for everyday coders", f.Description)
	assert.Empty(t, f.Items)
}

func TestEncodeStylesheetAndCustomData(t *testing.T) {
	out, err := Render(nil, testConfig, markdown.NewPipeline())
	require.NoError(t, err)
	s := string(out)
	assert.True(t, strings.HasPrefix(s, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, s, `<?xml-stylesheet href="/rss/styles.xsl" type="text/xsl"?>`)
	assert.Contains(t, s, "<language>en-us</language>")
	assert.Contains(t, s, `xmlns:content="http://purl.org/rss/1.0/modules/content/"`)
	assert.Less(t, strings.Index(s, "xml-stylesheet"), strings.Index(s, "<rss"))
}

func TestEncodeWithoutOptionalParts(t *testing.T) {
	cfg := Config{Title: "T", Description: "D", Site: "https://example.com/blog/"}
	out, err := Render([]content.Entry{post("a", day(1), false)}, cfg, markdown.NewPipeline())
	require.NoError(t, err)
	s := string(out)
	assert.NotContains(t, s, "xml-stylesheet")
	assert.NotContains(t, s, "<language>")
	assert.Contains(t, s, "<link>https://example.com/posts/a/</link>")
}

func TestEncodeCSSStylesheet(t *testing.T) {
	pi := stylesheetPI("/rss/feed.css")
	assert.Equal(t, `href="/rss/feed.css" type="text/css"`, string(pi.Inst))
}

func TestEncodeContentWithCDATATerminator(t *testing.T) {
	doc := &Document{
		Config: testConfig,
		Items:  []Item{{Slug: "cdata", Title: "T", Link: Link("cdata"), PubDate: day(1), Content: "<p>a ]]> b</p>"}},
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Encode(&buf))

	var got struct {
		Items []struct {
			Content string `xml:"http://purl.org/rss/1.0/modules/content/ encoded"`
		} `xml:"channel>item"`
	}
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Items, 1)
	assert.Equal(t, "<p>a ]]> b</p>", got.Items[0].Content)
}

func TestEncodeInvalidCharacters(t *testing.T) {
	e := post("ctrl", day(1), false)
	e.Title = "bad \x00 title"
	out, err := Render([]content.Entry{e}, testConfig, markdown.NewPipeline())
	assert.Nil(t, out)
	var se *SerializationError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "ctrl", se.Slug)
	assert.Equal(t, "title", se.Field)
}

func TestEncodeMalformedCustomData(t *testing.T) {
	cfg := testConfig
	cfg.CustomData = "<language>en-us"
	out, err := Render(nil, cfg, markdown.NewPipeline())
	assert.Nil(t, out)
	var se *SerializationError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "customData", se.Field)
	assert.Empty(t, se.Slug)
}

func TestEncodeWritesNothingOnFailure(t *testing.T) {
	doc := &Document{Config: Config{Title: "bad\x01"}}
	var buf bytes.Buffer
	require.Error(t, doc.Encode(&buf))
	assert.Zero(t, buf.Len())
}

func TestResolveLink(t *testing.T) {
	tests := []struct {
		site, link, expected string
	}{
		{"https://syropia.net", "/posts/a", "https://syropia.net/posts/a/"},
		{"https://syropia.net/", "/", "https://syropia.net/"},
		{"https://syropia.net", "/rss.xml", "https://syropia.net/rss.xml"},
		{"", "/posts/a", "/posts/a"},
	}
	for _, tt := range tests {
		if got := ResolveLink(tt.site, tt.link); got != tt.expected {
			t.Errorf("ResolveLink(%q, %q) = %q, want %q", tt.site, tt.link, got, tt.expected)
		}
	}
}
