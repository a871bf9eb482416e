// Package scaffold provides the embedded front matter templates used by
// `syropia new`.
package scaffold

import (
	"embed"
	"fmt"
	"io"
	"text/template"
	"time"
)

// Templates contains the entry templates, one per collection.
// Files use Go text/template syntax and have a .md.tmpl suffix.
//
//go:embed templates/*.md.tmpl
var Templates embed.FS

// Data holds the template variables passed to every entry template.
type Data struct {
	Title       string
	Description string
	Date        time.Time
}

// Execute renders the template for collection into w.
func Execute(w io.Writer, collection string, data Data) error {
	name := collection + ".md.tmpl"
	tmpl, err := template.New(name).Funcs(template.FuncMap{
		"quote": func(s string) string { return fmt.Sprintf("%q", s) },
	}).ParseFS(Templates, "templates/"+name)
	if err != nil {
		return fmt.Errorf("parse template %s: %w", name, err)
	}
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("execute template %s: %w", name, err)
	}
	return nil
}
