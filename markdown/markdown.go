// Package markdown renders Markdown to HTML with goldmark and sanitizes the
// result with bluemonday.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/syropia/syropia/images"
)

const externalRel = "nofollow noopener noreferrer"

// Renderer converts Markdown source to HTML.
type Renderer struct {
	md goldmark.Markdown
}

type rendererConfig struct {
	externalLinks bool
	images        images.Provider
	imageWidth    int
}

// Option configures a Renderer.
type Option func(*rendererConfig)

// WithExternalLinks opens absolute http(s) links in a new tab with
// rel="nofollow noopener noreferrer".
func WithExternalLinks() Option {
	return func(c *rendererConfig) {
		c.externalLinks = true
	}
}

// WithImages rewrites local image destinations through p. width is the
// display width requested from the provider; zero keeps the original.
func WithImages(p images.Provider, width int) Option {
	return func(c *rendererConfig) {
		c.images = p
		c.imageWidth = width
	}
}

// NewRenderer returns a CommonMark renderer with GFM tables, strikethrough,
// task lists, autolinks and footnotes. Raw HTML in the source is passed
// through; run the output through a Sanitizer before publishing it to
// untrusted consumers.
func NewRenderer(opts ...Option) *Renderer {
	var cfg rendererConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	var transformers []util.PrioritizedValue
	if cfg.externalLinks {
		transformers = append(transformers, util.Prioritized(externalLinks{}, 100))
	}
	if cfg.images != nil {
		transformers = append(transformers, util.Prioritized(imageRewriter{p: cfg.images, width: cfg.imageWidth}, 200))
	}
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Footnote),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
				parser.WithASTTransformers(transformers...),
			),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Render returns the HTML for src.
func (r *Renderer) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// Component returns a templ.Component that renders src as HTML.
func (r *Renderer) Component(src string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out, err := r.Render(src)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	})
}

// IsExternal reports whether dest is an absolute http(s) URL.
func IsExternal(dest string) bool {
	u, err := url.Parse(strings.TrimSpace(dest))
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.Host != ""
	}
	return false
}

type externalLinks struct{}

func (externalLinks) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if link, ok := n.(*ast.Link); ok && IsExternal(string(link.Destination)) {
			link.SetAttributeString("target", []byte("_blank"))
			link.SetAttributeString("rel", []byte(externalRel))
		}
		return ast.WalkContinue, nil
	})
}

type imageRewriter struct {
	p     images.Provider
	width int
}

func (t imageRewriter) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		img, ok := n.(*ast.Image)
		if !ok {
			return ast.WalkContinue, nil
		}
		dest := string(img.Destination)
		if dest == "" || IsExternal(dest) || strings.HasPrefix(dest, "data:") {
			return ast.WalkContinue, nil
		}
		img.Destination = []byte(t.p.URL(dest, images.Transform{Width: t.width}))
		return ast.WalkContinue, nil
	})
}
