package model

import (
	"github.com/google/uuid"
)

type SummaryStatus string

const (
	StatusPending     SummaryStatus = "pending"
	StatusSummarized  SummaryStatus = "summarized"
	StatusUnavailable SummaryStatus = "unavailable"
)

// SummaryUnavailable replaces the summary of an article whose page could not be
// fetched or yielded no sentences.
const SummaryUnavailable = "Summary unavailable."

// Source is the publisher block of a News API article.
type Source struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Article represents one element of the News API "articles" array plus the
// summary attached to it after processing.
type Article struct {
	ID           uuid.UUID     `json:"-"`
	Source       Source        `json:"source"`
	Author       string        `json:"author"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	URL          string        `json:"url"`
	URLToImage   string        `json:"urlToImage"`
	PublishedAt  string        `json:"publishedAt"`
	Content      string        `json:"content"`
	Summary      string        `json:"summary,omitempty"`
	Status       SummaryStatus `json:"status,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

// NewArticle prepares a decoded API record for the summarization pass.
func NewArticle(a Article) Article {
	a.ID = uuid.New()
	a.Status = StatusPending
	a.Summary = ""
	a.ErrorMessage = ""
	return a
}

// Summarized attaches a computed summary. An empty summary counts as a failure
// so that nothing is rendered without one.
func (a *Article) Summarized(summary string) {
	if summary == "" {
		a.Unavailable("no sentences extracted")
		return
	}
	a.Summary = summary
	a.Status = StatusSummarized
	a.ErrorMessage = ""
}

// Unavailable marks the article with the placeholder summary.
func (a *Article) Unavailable(reason string) {
	a.Summary = SummaryUnavailable
	a.Status = StatusUnavailable
	a.ErrorMessage = reason
}
