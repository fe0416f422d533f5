package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchRequest_Values(t *testing.T) {
	headlines := SearchRequest{
		Endpoint: EndpointTopHeadlines,
		APIKey:   "secret",
		SortBy:   "publishedAt",
		Category: "science",
		Country:  "us",
	}.Values()

	assert.Equal(t, "secret", headlines.Get("apiKey"))
	assert.Equal(t, "publishedAt", headlines.Get("sortBy"))
	assert.Equal(t, "science", headlines.Get("category"))
	assert.Equal(t, "us", headlines.Get("country"))
	assert.False(t, headlines.Has("q"))
	assert.False(t, headlines.Has("pageSize"))

	search := SearchRequest{
		Endpoint: EndpointEverything,
		APIKey:   "secret",
		SortBy:   "publishedAt",
		Category: "science",
		Country:  "us",
		Query:    "golang",
		PageSize: 20,
	}.Values()

	assert.Equal(t, "golang", search.Get("q"))
	assert.Equal(t, "20", search.Get("pageSize"))
	// everything does not accept category or country
	assert.False(t, search.Has("category"))
	assert.False(t, search.Has("country"))
}

func TestParseInputs(t *testing.T) {
	assert.Equal(t, ModeSearch, ParseMode("Search"))
	assert.Equal(t, ModeHeadlines, ParseMode(""))
	assert.Equal(t, ModeHeadlines, ParseMode("bogus"))

	assert.Equal(t, Category("sports"), ParseCategory("sports"))
	assert.Equal(t, DefaultCategory, ParseCategory("weather"))
	assert.Equal(t, DefaultCategory, ParseCategory(""))

	assert.Equal(t, DefaultSentences, ParseSentences(""))
	assert.Equal(t, DefaultSentences, ParseSentences("three"))
	assert.Equal(t, 7, ParseSentences("7"))
	assert.Equal(t, MaxSentences, ParseSentences("42"))
	assert.Equal(t, MinSentences, ParseSentences("0"))
}

func TestArticle_SummaryLifecycle(t *testing.T) {
	a := NewArticle(Article{Title: "t", URL: "https://example.com/a", Summary: "stale"})
	assert.Equal(t, StatusPending, a.Status)
	assert.Empty(t, a.Summary)

	a.Summarized("One. Two.")
	assert.Equal(t, StatusSummarized, a.Status)
	assert.Equal(t, "One. Two.", a.Summary)

	a.Summarized("")
	assert.Equal(t, StatusUnavailable, a.Status)
	assert.Equal(t, SummaryUnavailable, a.Summary)
}

func TestNewArticleView(t *testing.T) {
	a := NewArticle(Article{
		Title:       "Headline",
		URL:         "https://www.example.com/story",
		PublishedAt: "2024-03-01T12:30:00Z",
	})
	a.Summarized("Body.")

	view := NewArticleView(a)
	assert.Equal(t, "www.example.com", view.Domain)
	assert.Equal(t, "www.example.com", view.Source, "source falls back to the domain")
	assert.Equal(t, "01 Mar 2024, 12:30 UTC", view.PublishedAt)
	assert.Equal(t, a.ID.String(), view.Anchor)
	assert.False(t, view.Unavailable)

	a.Source.Name = "Example News"
	a.PublishedAt = "yesterday"
	a.Unavailable("boom")
	view = NewArticleView(a)
	assert.Equal(t, "Example News", view.Source)
	assert.Equal(t, "yesterday", view.PublishedAt)
	assert.Equal(t, SummaryUnavailable, view.Summary)
	assert.True(t, view.Unavailable)
}
