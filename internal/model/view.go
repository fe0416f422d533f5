package model

import (
	"net/url"
	"time"
)

// ArticleView is a struct tailored for presentation in the templates and the
// terminal. It contains formatted data derived from Article.
type ArticleView struct {
	Anchor      string
	Title       string
	URL         string
	PublishedAt string
	Source      string
	Domain      string
	Summary     string
	Unavailable bool
}

// NewArticleView creates a view model from a processed article
func NewArticleView(a Article) ArticleView {
	domain := "unknown"
	parsedURL, err := url.Parse(a.URL)
	if err == nil && parsedURL.Hostname() != "" {
		domain = parsedURL.Hostname()
	}

	// The API sends RFC 3339; keep the raw value if a source sends something else.
	published := a.PublishedAt
	if ts, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
		published = ts.Format("02 Jan 2006, 15:04 MST")
	}

	source := a.Source.Name
	if source == "" {
		source = domain
	}

	summary := a.Summary
	if summary == "" {
		summary = SummaryUnavailable
	}

	return ArticleView{
		Anchor:      a.ID.String(),
		Title:       a.Title,
		URL:         a.URL,
		PublishedAt: published,
		Source:      source,
		Domain:      domain,
		Summary:     summary,
		Unavailable: a.Status == StatusUnavailable || a.Summary == "",
	}
}

// NewArticleViews converts a batch, keeping its order.
func NewArticleViews(articles []Article) []ArticleView {
	views := make([]ArticleView, len(articles))
	for i, a := range articles {
		views[i] = NewArticleView(a)
	}
	return views
}
