package syropia

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"

	"github.com/syropia/syropia/feed"
	"github.com/syropia/syropia/images"
)

// SiteConfig holds all configuration for a site.
type SiteConfig struct {
	Name        string `toml:"name"`        // Site name (default "Syropia")
	URL         string `toml:"url"`         // Canonical URL (default "https://syropia.net")
	Description string `toml:"description"` // Site description for meta tags
	Author      string `toml:"author"`      // Author name for JSON-LD

	Addr       string `toml:"addr"`        // Preview server listen address (default ":4321")
	ContentDir string `toml:"content_dir"` // Collections root (default "content")
	OutDir     string `toml:"out_dir"`     // Build output (default "dist")
	StaticDir  string `toml:"static_dir"`  // Files copied verbatim (default "public")

	Feed   FeedConfig  `toml:"feed"`
	Images ImageConfig `toml:"images"`
	Theme  ThemeConfig `toml:"theme"`
}

// FeedConfig configures rss.xml.
type FeedConfig struct {
	Title       string `toml:"title"`       // default "Posts | <Name>"
	Description string `toml:"description"` // default Description
	Language    string `toml:"language"`    // default "en-us"
	Stylesheet  string `toml:"stylesheet"`  // default "/rss/styles.xsl"
	CustomData  string `toml:"custom_data"` // raw XML; replaces the generated <language> element
}

// ImageConfig selects the image provider. An empty CloudName serves locally
// optimized images.
type ImageConfig struct {
	CloudName string `toml:"cloud_name"`
	Secure    bool   `toml:"secure"`
	Folder    string `toml:"folder"`
	MaxWidth  int    `toml:"max_width"` // default 800
}

// ThemeConfig holds the design tokens the stock views use.
type ThemeConfig struct {
	Brand          string   `toml:"brand"`           // default "#dc393e"
	FontSans       []string `toml:"font_sans"`       // default Swiss 721 then system sans
	FontStylesheet string   `toml:"font_stylesheet"` // optional web font CSS URL
}

var defaultSans = []string{
	"'Swiss 721 W01'", "ui-sans-serif", "system-ui", "-apple-system", "BlinkMacSystemFont",
	"'Segoe UI'", "Roboto", "'Helvetica Neue'", "Arial", "sans-serif",
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Syropia"
	}
	if c.URL == "" {
		c.URL = "https://syropia.net"
	}
	if c.Description == "" {
		c.Description = "Technical tidbits for everyday coders"
	}
	if c.Addr == "" {
		c.Addr = ":4321"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.OutDir == "" {
		c.OutDir = "dist"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.Feed.Title == "" {
		c.Feed.Title = "Posts | " + c.Name
	}
	if c.Feed.Description == "" {
		c.Feed.Description = c.Description
	}
	if c.Feed.Language == "" {
		c.Feed.Language = "en-us"
	}
	if c.Feed.Stylesheet == "" {
		c.Feed.Stylesheet = "/rss/styles.xsl"
	}
	if c.Images.MaxWidth == 0 {
		c.Images.MaxWidth = images.DefaultMaxWidth
	}
	if c.Theme.Brand == "" {
		c.Theme.Brand = "#dc393e"
	}
	if len(c.Theme.FontSans) == 0 {
		c.Theme.FontSans = defaultSans
	}
}

// LoadConfig reads a TOML site config from path. SITE_URL and SITE_ADDR
// override the file when set. Defaults fill anything left empty.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return SiteConfig{}, fmt.Errorf("error reading config file: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return SiteConfig{}, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	cfg.URL = EnvOr("SITE_URL", cfg.URL)
	cfg.Addr = EnvOr("SITE_ADDR", cfg.Addr)
	cfg.setDefaults()
	return cfg, nil
}

// FeedSettings returns the channel metadata for rss.xml.
func (c SiteConfig) FeedSettings() feed.Config {
	custom := c.Feed.CustomData
	if custom == "" && c.Feed.Language != "" {
		var b strings.Builder
		b.WriteString("<language>")
		b.WriteString(xmlEscape(c.Feed.Language))
		b.WriteString("</language>")
		custom = b.String()
	}
	return feed.Config{
		Title:       c.Feed.Title,
		Description: c.Feed.Description,
		Site:        c.URL,
		Stylesheet:  c.Feed.Stylesheet,
		CustomData:  custom,
	}
}

// ImageProvider returns Cloudinary when a cloud name is configured and
// locally optimized images otherwise.
func (c SiteConfig) ImageProvider() images.Provider {
	if c.Images.CloudName != "" {
		return images.Cloudinary{CloudName: c.Images.CloudName, Secure: c.Images.Secure, Folder: c.Images.Folder}
	}
	return images.Local{Prefix: "/images"}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithLogger replaces the default logrus logger.
func WithLogger(l *logrus.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithDrafts makes the preview server render draft posts. Builds never
// publish drafts.
func WithDrafts(show bool) Option {
	return func(a *App) {
		a.showDrafts = show
	}
}

// WithImageProvider overrides the provider derived from SiteConfig.Images.
func WithImageProvider(p images.Provider) Option {
	return func(a *App) {
		a.Images = p
	}
}
