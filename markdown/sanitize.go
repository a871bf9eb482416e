package markdown

import (
	"errors"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// ErrNoPolicy is returned by a zero Sanitizer.
var ErrNoPolicy = errors.New("markdown: sanitizer has no policy")

var reClassNames = regexp.MustCompile(`^[a-zA-Z0-9\s_-]+$`)

// Sanitizer strips script-bearing and otherwise unsafe markup while keeping
// semantic formatting tags.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer returns a Sanitizer built on the bluemonday user-generated
// content policy. Class names survive on code blocks so highlighted output
// keeps its styling hooks.
func NewSanitizer() *Sanitizer {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(reClassNames).OnElements("code", "pre", "span", "div")
	p.AllowAttrs("id").Matching(bluemonday.SpaceSeparatedTokens).OnElements("h1", "h2", "h3", "h4", "h5", "h6", "li", "sup")
	return &Sanitizer{policy: p}
}

// Sanitize returns the safe subset of html.
func (s *Sanitizer) Sanitize(html string) (string, error) {
	if s == nil || s.policy == nil {
		return "", ErrNoPolicy
	}
	return s.policy.Sanitize(html), nil
}

// Pipeline renders Markdown and sanitizes the result.
type Pipeline struct {
	Renderer  *Renderer
	Sanitizer *Sanitizer
}

// NewPipeline returns a Pipeline with a plain renderer and the default
// sanitizer, suitable for syndication output.
func NewPipeline() *Pipeline {
	return &Pipeline{Renderer: NewRenderer(), Sanitizer: NewSanitizer()}
}

// Render converts Markdown to unsanitized HTML.
func (p *Pipeline) Render(src string) (string, error) {
	return p.Renderer.Render(src)
}

// Sanitize strips unsafe markup from html.
func (p *Pipeline) Sanitize(html string) (string, error) {
	return p.Sanitizer.Sanitize(html)
}

// HTML renders src and sanitizes it in one step.
func (p *Pipeline) HTML(src string) (string, error) {
	out, err := p.Render(src)
	if err != nil {
		return "", err
	}
	return p.Sanitize(out)
}
