package views

import (
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/a-h/templ"
)

var reColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// SafeColor returns c when it is a hex color, otherwise fallback.
func SafeColor(c, fallback string) string {
	if reColor.MatchString(strings.TrimSpace(c)) {
		return strings.TrimSpace(c)
	}
	return fallback
}

// FontStack joins font family names into a CSS font-family value, dropping
// characters that could end the style block.
func FontStack(families []string) string {
	clean := make([]string, 0, len(families))
	for _, f := range families {
		f = strings.Map(func(r rune) rune {
			switch r {
			case '<', '>', '{', '}', ';':
				return -1
			}
			return r
		}, strings.TrimSpace(f))
		if f != "" {
			clean = append(clean, f)
		}
	}
	return strings.Join(clean, ", ")
}

// FormatDate renders a publish date the way post listings show it.
func FormatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

// writer accumulates the first write error so component bodies read as a
// flat sequence of writes.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) raw(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, s)
}

func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}

func (w *writer) attr(name, value string) {
	w.raw(" ")
	w.raw(name)
	w.raw(`="`)
	w.text(value)
	w.raw(`"`)
}
