package syropia

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	JSONLD      string // optional structured data
	FeedURL     string // absolute rss.xml URL for <link rel="alternate">
}

// BuildReport summarizes a static build.
type BuildReport struct {
	Posts     int
	Drafts    int
	Pages     int
	Images    int
	Artifacts []string // paths relative to the output directory
}
