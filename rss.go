package syropia

import (
	"slices"

	"github.com/syropia/syropia/content"
	"github.com/syropia/syropia/feed"
)

// RenderFeed loads the posts collection and returns the encoded rss.xml.
// Drafts are never included, whatever the preview settings.
func (a *App) RenderFeed() ([]byte, error) {
	posts, err := a.Store.GetCollection(content.Posts)
	if err != nil {
		return nil, err
	}
	return feed.Render(posts, a.Config.FeedSettings(), a.FeedMarkup)
}

// listPosts returns posts newest first. Drafts are included only when the
// preview server was started with drafts enabled and includeDrafts is set.
func (a *App) listPosts(includeDrafts bool) ([]content.Entry, error) {
	posts, err := a.Store.GetCollection(content.Posts)
	if err != nil {
		return nil, err
	}
	if !includeDrafts || !a.showDrafts {
		return feed.Published(posts), nil
	}
	slices.SortStableFunc(posts, func(x, y content.Entry) int {
		return y.PublishedAt.Compare(x.PublishedAt)
	})
	return posts, nil
}
