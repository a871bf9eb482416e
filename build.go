package syropia

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/a-h/templ"
	"github.com/sirupsen/logrus"

	"github.com/syropia/syropia/content"
	"github.com/syropia/syropia/feed"
	"github.com/syropia/syropia/images"
)

// reserved output paths a page slug must not shadow.
var reserved = map[string]bool{
	"posts": true, "rss": true, "rss.xml": true, "sitemap.xml": true,
	"index.html": true, "404.html": true, "images": true,
}

// Build renders the site into Config.OutDir. Every artifact is rendered in
// memory first and the output directory is only replaced once all of them
// succeeded, so a failed build leaves the previous output untouched.
func (a *App) Build(ctx context.Context) (BuildReport, error) {
	start := time.Now()
	var report BuildReport

	all, err := a.Store.GetCollection(content.Posts)
	if err != nil {
		return report, fmt.Errorf("load posts: %w", err)
	}
	pages, err := a.Store.GetCollection(content.Pages)
	if err != nil {
		return report, fmt.Errorf("load pages: %w", err)
	}
	posts := feed.Published(all)
	report.Posts = len(posts)
	report.Drafts = len(all) - len(posts)
	report.Pages = len(pages)

	artifacts := make(map[string][]byte)
	add := func(name string, data []byte) {
		artifacts[name] = data
		report.Artifacts = append(report.Artifacts, name)
	}
	render := func(name string, cmp templ.Component) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		out, err := renderBytes(ctx, cmp)
		if err != nil {
			return err
		}
		add(name, out)
		return nil
	}

	rss, err := feed.Render(all, a.Config.FeedSettings(), a.FeedMarkup)
	if err != nil {
		return report, err
	}
	add("rss.xml", rss)

	if err := render("index.html", a.Views.Home(posts, a.homeMeta())); err != nil {
		return report, fmt.Errorf("render home: %w", err)
	}
	if err := render("404.html", a.Views.NotFound()); err != nil {
		return report, fmt.Errorf("render 404: %w", err)
	}
	for _, p := range posts {
		name := path.Join("posts", p.Slug, "index.html")
		if err := render(name, a.Views.Post(p, a.Renderer.Component(p.Body), a.postMeta(p))); err != nil {
			return report, fmt.Errorf("render post %q (%s): %w", p.Slug, p.Path, err)
		}
		a.Logger.WithFields(logrus.Fields{"collection": content.Posts, "slug": p.Slug}).Debug("rendered")
	}
	for _, p := range pages {
		if reserved[firstSegment(p.Slug)] {
			return report, &content.SchemaError{Path: p.Path, Field: "slug", Reason: fmt.Sprintf("%q is reserved", p.Slug)}
		}
		name := path.Join(p.Slug, "index.html")
		if err := render(name, a.Views.Page(p, a.Renderer.Component(p.Body), a.pageMeta(p))); err != nil {
			return report, fmt.Errorf("render page %q (%s): %w", p.Slug, p.Path, err)
		}
		a.Logger.WithFields(logrus.Fields{"collection": content.Pages, "slug": p.Slug}).Debug("rendered")
	}

	sitemap, err := a.renderSitemap(posts, pages)
	if err != nil {
		return report, fmt.Errorf("render sitemap: %w", err)
	}
	add("sitemap.xml", sitemap)

	if _, err := os.Stat(filepath.Join(a.Config.StaticDir, filepath.FromSlash(stylesheetPath))); errors.Is(err, os.ErrNotExist) {
		add(stylesheetPath[1:], feedStylesheet())
	}

	n, err := a.writeOutput(artifacts)
	if err != nil {
		return report, err
	}
	report.Images = n
	sort.Strings(report.Artifacts)

	a.Logger.WithFields(logrus.Fields{
		"out":       a.Config.OutDir,
		"posts":     report.Posts,
		"drafts":    report.Drafts,
		"pages":     report.Pages,
		"images":    report.Images,
		"artifacts": len(report.Artifacts),
		"took":      time.Since(start).Round(time.Millisecond),
	}).Info("build complete")
	return report, nil
}

func firstSegment(slug string) string {
	for i := 0; i < len(slug); i++ {
		if slug[i] == '/' {
			return slug[:i]
		}
	}
	return slug
}

// writeOutput assembles the site in a sibling temp directory, then swaps it
// in for OutDir. It returns the number of optimized images.
func (a *App) writeOutput(artifacts map[string][]byte) (int, error) {
	out, err := filepath.Abs(a.Config.OutDir)
	if err != nil {
		return 0, err
	}
	if err := a.checkOutDir(out); err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return 0, err
	}
	tmp, err := os.MkdirTemp(filepath.Dir(out), ".syropia-build-")
	if err != nil {
		return 0, fmt.Errorf("create build dir: %w", err)
	}
	ok := false
	defer func() {
		if !ok {
			os.RemoveAll(tmp)
		}
	}()

	if info, err := os.Stat(a.Config.StaticDir); err == nil && info.IsDir() {
		if err := os.CopyFS(tmp, os.DirFS(a.Config.StaticDir)); err != nil {
			return 0, fmt.Errorf("copy static files: %w", err)
		}
	}

	for name, data := range artifacts {
		if !filepath.IsLocal(filepath.FromSlash(name)) {
			return 0, fmt.Errorf("artifact %q escapes the output directory", name)
		}
		dst := filepath.Join(tmp, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return 0, err
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return 0, fmt.Errorf("write %s: %w", name, err)
		}
	}

	var optimized int
	if _, local := a.Images.(images.Local); local {
		results, err := images.Optimize(filepath.Join(a.Config.StaticDir, "images"), filepath.Join(tmp, "images"), a.Config.Images.MaxWidth)
		if err != nil {
			return 0, fmt.Errorf("optimize images: %w", err)
		}
		optimized = len(results)
	}

	if err := os.Chmod(tmp, 0o755); err != nil {
		return 0, err
	}
	if err := os.RemoveAll(out); err != nil {
		return 0, fmt.Errorf("remove previous output: %w", err)
	}
	if err := os.Rename(tmp, out); err != nil {
		return 0, fmt.Errorf("move build output: %w", err)
	}
	ok = true
	return optimized, nil
}

// checkOutDir refuses an output directory that the swap would delete along
// with sources: the working directory, or the content or static directory
// or any of their ancestors.
func (a *App) checkOutDir(out string) error {
	guarded := []struct{ kind, dir string }{
		{"content", a.Config.ContentDir},
		{"static", a.Config.StaticDir},
	}
	if wd, err := os.Getwd(); err == nil {
		guarded = append(guarded, struct{ kind, dir string }{"working", wd})
	}
	for _, g := range guarded {
		if g.dir == "" {
			continue
		}
		abs, err := filepath.Abs(g.dir)
		if err != nil {
			return err
		}
		if within(abs, out) {
			return fmt.Errorf("output directory %s would remove the %s directory %s", out, g.kind, abs)
		}
	}
	return nil
}

// within reports whether p is dir or lies below it.
func within(p, dir string) bool {
	rel, err := filepath.Rel(dir, p)
	return err == nil && filepath.IsLocal(rel)
}
