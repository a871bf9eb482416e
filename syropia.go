// Package syropia builds the Syropia blog from Markdown content collections:
// post and page HTML, rss.xml and sitemap.xml, plus a preview server that
// renders the same output on request.
//
// Callers provide their own templ components via the ViewFuncs struct; the
// views package ships a default set.
package syropia

import (
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/syropia/syropia/content"
	"github.com/syropia/syropia/images"
	"github.com/syropia/syropia/markdown"
)

// ViewFuncs holds the templ components the site renders pages with. body is
// the rendered Markdown of the entry.
type ViewFuncs struct {
	Home        func(posts []content.Entry, meta PageMeta) templ.Component
	Post        func(post content.Entry, body templ.Component, meta PageMeta) templ.Component
	Page        func(page content.Entry, body templ.Component, meta PageMeta) templ.Component
	NotFound    func() templ.Component
	ServerError func() templ.Component
}

// App wires the content store, Markdown pipelines, image provider and views
// together for both the static build and the preview server.
type App struct {
	Config     SiteConfig
	Echo       *echo.Echo
	Store      *content.Store
	Renderer   *markdown.Renderer
	FeedMarkup *markdown.Pipeline
	Images     images.Provider
	Views      ViewFuncs
	Logger     *logrus.Logger

	customRoutes []func(*App)
	showDrafts   bool
	setup        sync.Once
}

// New creates an App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:     cfg,
		Echo:       echo.New(),
		Store:      content.NewStore(cfg.ContentDir),
		FeedMarkup: markdown.NewPipeline(),
		Images:     cfg.ImageProvider(),
		Views:      views,
		Logger:     logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(a)
	}

	a.Renderer = markdown.NewRenderer(
		markdown.WithExternalLinks(),
		markdown.WithImages(a.Images, cfg.Images.MaxWidth),
	)
	a.Echo.HideBanner = true
	a.Echo.HidePort = true
	return a
}

// Handler sets up middleware and routes and returns the preview handler
// without starting a listener. It is safe to call more than once.
func (a *App) Handler() http.Handler {
	a.setup.Do(func() {
		a.setupMiddleware()
		a.setupRoutes()
		for _, fn := range a.customRoutes {
			fn(a)
		}
	})
	return a.Echo
}

// Start serves the site on Config.Addr, rendering from the content
// directory on every request.
func (a *App) Start() error {
	if _, err := os.Stat(a.Config.ContentDir); err != nil {
		return fmt.Errorf("syropia: content dir: %w", err)
	}
	a.Handler()
	a.Logger.WithFields(logrus.Fields{
		"addr":    a.Config.Addr,
		"content": a.Config.ContentDir,
		"drafts":  a.showDrafts,
	}).Info("preview server listening")
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/", a.handleHome)
	e.GET("/rss.xml", a.handleFeed)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET(stylesheetPath, a.handleStylesheet)
	e.GET("/posts/*", a.handlePost)
	e.GET("/*", a.handlePage)
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
