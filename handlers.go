package syropia

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/syropia/syropia/content"
	"github.com/syropia/syropia/feed"
)

func (a *App) handleHome(c echo.Context) error {
	posts, err := a.listPosts(true)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(posts, a.homeMeta()))
}

func (a *App) handlePost(c echo.Context) error {
	slug := strings.Trim(c.Param("*"), "/")
	post, err := a.Store.GetEntry(content.Posts, slug)
	if errors.Is(err, content.ErrNotFound) || (err == nil && post.IsDraft && !a.showDrafts) {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	}
	if err != nil {
		return err
	}
	return Render(c, a.Views.Post(post, a.Renderer.Component(post.Body), a.postMeta(post)))
}

func (a *App) handlePage(c echo.Context) error {
	slug := strings.Trim(c.Param("*"), "/")
	page, err := a.Store.GetEntry(content.Pages, slug)
	if errors.Is(err, content.ErrNotFound) {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	}
	if err != nil {
		return err
	}
	return Render(c, a.Views.Page(page, a.Renderer.Component(page.Body), a.pageMeta(page)))
}

func (a *App) handleFeed(c echo.Context) error {
	out, err := a.RenderFeed()
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, feed.ContentType, out)
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.listPosts(false)
	if err != nil {
		return err
	}
	pages, err := a.Store.GetCollection(content.Pages)
	if err != nil {
		return err
	}
	out, err := a.renderSitemap(posts, pages)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/xml; charset=utf-8", out)
}

func (a *App) handleStylesheet(c echo.Context) error {
	return c.Blob(http.StatusOK, "text/xsl; charset=utf-8", feedStylesheet())
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.WithError(err).WithField("uri", c.Request().RequestURI).Error("server error")
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
