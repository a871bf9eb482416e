package syropia

import (
	"embed"
	"io/fs"
)

// EmbeddedAssets contains files shipped with the site generator. A file of
// the same path in the static directory takes precedence.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS

const stylesheetPath = "/rss/styles.xsl"

func feedStylesheet() []byte {
	b, err := fs.ReadFile(EmbeddedAssets, "embedded"+stylesheetPath)
	if err != nil {
		panic("syropia: embedded feed stylesheet missing: " + err.Error())
	}
	return b
}
