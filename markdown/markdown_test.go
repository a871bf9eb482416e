package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syropia/syropia/images"
)

func TestRenderBasics(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<p><strong>bold</strong></p>\n"},
		{"*italic*", "<p><em>italic</em></p>\n"},
		{"`code`", "<p><code>code</code></p>\n"},
		{"- item 1\n- item 2", "<ul>\n<li>item 1</li>\n<li>item 2</li>\n</ul>\n"},
		{"~~gone~~", "<p><del>gone</del></p>\n"},
	}
	r := NewRenderer()
	for _, tt := range tests {
		got, err := r.Render(tt.input)
		require.NoError(t, err)
		if got != tt.expected {
			t.Errorf("Render(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderHeadingIDs(t *testing.T) {
	got, err := NewRenderer().Render("## Getting Started")
	require.NoError(t, err)
	assert.Equal(t, "<h2 id=\"getting-started\">Getting Started</h2>\n", got)
}

func TestRenderCodeBlockLanguage(t *testing.T) {
	got, err := NewRenderer().Render("```go\nfmt.Println(\"hi\")\n```")
	require.NoError(t, err)
	assert.Contains(t, got, `<code class="language-go">`)
	assert.Contains(t, got, "fmt.Println(&quot;hi&quot;)")
}

func TestRenderExternalLinks(t *testing.T) {
	r := NewRenderer(WithExternalLinks())
	got, err := r.Render("[ext](https://example.com/a_b) and [local](/posts/x)")
	require.NoError(t, err)
	assert.Contains(t, got, `<a href="https://example.com/a_b" target="_blank" rel="nofollow noopener noreferrer">ext</a>`)
	assert.Contains(t, got, `<a href="/posts/x">local</a>`)
}

func TestRenderWithoutExternalLinksLeavesLinksAlone(t *testing.T) {
	got, err := NewRenderer().Render("[ext](https://example.com)")
	require.NoError(t, err)
	assert.NotContains(t, got, "target=")
}

func TestRenderRewritesLocalImages(t *testing.T) {
	p := images.Cloudinary{CloudName: "syropia-blog", Secure: true}
	r := NewRenderer(WithImages(p, 800))
	got, err := r.Render("![cover](/posts/cover.png)\n\n![remote](https://cdn.example.com/x.png)")
	require.NoError(t, err)
	assert.Contains(t, got, `src="https://res.cloudinary.com/syropia-blog/image/upload/`)
	assert.Contains(t, got, `w_800`)
	assert.Contains(t, got, `/posts/cover.png"`)
	assert.Contains(t, got, `src="https://cdn.example.com/x.png"`)
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	err := NewRenderer().Component("# Title").Render(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, "<h1 id=\"title\">Title</h1>\n", buf.String())
}

func TestIsExternal(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"https://example.com", true},
		{"HTTP://example.com/x", true},
		{"/posts/a", false},
		{"#top", false},
		{"mailto:me@example.com", false},
		{"https:///nohost", false},
	}
	for _, tt := range tests {
		if got := IsExternal(tt.input); got != tt.expected {
			t.Errorf("IsExternal(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestSanitizeStripsScripts(t *testing.T) {
	s := NewSanitizer()
	tests := []string{
		"<p>hi</p><script>alert(1)</script>",
		`<p onclick="alert(1)">hi</p>`,
		`<a href="javascript:alert(1)">hi</a>`,
		`<img src="x" onerror="alert(1)">`,
	}
	for _, input := range tests {
		got, err := s.Sanitize(input)
		require.NoError(t, err)
		lower := strings.ToLower(got)
		assert.NotContains(t, lower, "<script", input)
		assert.NotContains(t, lower, "onclick", input)
		assert.NotContains(t, lower, "onerror", input)
		assert.NotContains(t, lower, "javascript:", input)
	}
}

func TestSanitizeKeepsFormatting(t *testing.T) {
	input := `<h2 id="intro">Intro</h2><p><strong>b</strong> <em>i</em> <a href="https://example.com">l</a></p><pre><code class="language-go">x</code></pre><blockquote>q</blockquote>`
	got, err := NewSanitizer().Sanitize(input)
	require.NoError(t, err)
	for _, want := range []string{`<h2 id="intro">`, "<strong>b</strong>", "<em>i</em>", `href="https://example.com"`, `<code class="language-go">`, "<blockquote>"} {
		assert.Contains(t, got, want)
	}
}

func TestZeroSanitizer(t *testing.T) {
	var s *Sanitizer
	_, err := s.Sanitize("<p>x</p>")
	assert.ErrorIs(t, err, ErrNoPolicy)
}

func TestPipelineHTML(t *testing.T) {
	got, err := NewPipeline().HTML("Hello\n\n<script>alert('x')</script>\n\n**there**")
	require.NoError(t, err)
	assert.NotContains(t, got, "<script")
	assert.Contains(t, got, "<strong>there</strong>")
}
