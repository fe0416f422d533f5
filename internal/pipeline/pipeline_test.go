package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"news-summarizer/internal/model"
	"news-summarizer/internal/newsapi"
	"news-summarizer/internal/summarizer"
	"news-summarizer/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fiveSentences = []string{
	"The city council approved a new budget for public transport on Tuesday evening.",
	"Bus routes across the northern districts will run every ten minutes from next spring.",
	"Local bakeries reported record sales of sourdough bread during the holiday weekend.",
	"Transport officials said the budget also covers new electric buses and charging depots.",
	"Critics argued that the council ignored cycling infrastructure in the transport budget.",
}

var fiveSentenceDoc = `<html><head><title>Budget</title></head><body><article>
<p>` + fiveSentences[0] + `
` + fiveSentences[1] + `</p>
<p>` + fiveSentences[2] + `</p>
<p>` + fiveSentences[3] + `
` + fiveSentences[4] + `</p>
</article></body></html>`

const oneSentenceDoc = `<html><head><title>Museum</title></head><body><article>
<p>The museum will reopen its renovated east wing to visitors next month.</p>
</article></body></html>`

// newsServer fakes both the News API and the article pages. Each entry of
// paths becomes one article pointing back at this server. omitArticles drops
// the "articles" field from the listing.
func newsServer(t *testing.T, paths []string, omitArticles bool) *httptest.Server {
	t.Helper()
	var srv *httptest.Server

	mux := http.NewServeMux()
	listing := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apiKey") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"status":"error","code":"apiKeyMissing","message":"no key"}`)
			return
		}
		if omitArticles {
			fmt.Fprint(w, `{"status":"ok","totalResults":0}`)
			return
		}
		var items []map[string]any
		for i, p := range paths {
			items = append(items, map[string]any{
				"source":      map[string]any{"id": nil, "name": "Fixture Wire"},
				"title":       fmt.Sprintf("Story %d", i),
				"url":         srv.URL + p,
				"publishedAt": "2024-05-01T08:00:00Z",
			})
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status":       "ok",
			"totalResults": len(items),
			"articles":     items,
		})
	}
	mux.HandleFunc("/v2/top-headlines", listing)
	mux.HandleFunc("/v2/everything", listing)
	mux.HandleFunc("/docs/five", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, fiveSentenceDoc)
	})
	mux.HandleFunc("/docs/one", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, oneSentenceDoc)
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newRealPipeline(t *testing.T, baseURL string, concurrency int) *Pipeline {
	t.Helper()
	logger := zap.NewNop()
	s, err := summarizer.New(summarizer.Options{Timeout: 5 * time.Second}, logger)
	require.NoError(t, err)
	return New(
		newsapi.NewClient(baseURL, 5*time.Second, logger),
		worker.NewWorker(s, concurrency, logger),
		logger,
	)
}

// pickedSentences returns the indexes of the fixture sentences a summary is
// made of. The summary must be exactly those sentences, in document order,
// joined by single spaces.
func pickedSentences(t *testing.T, summary string) []int {
	t.Helper()
	var idx []int
	var picked []string
	for i, sent := range fiveSentences {
		if strings.Contains(summary, sent) {
			idx = append(idx, i)
			picked = append(picked, sent)
		}
	}
	require.Equal(t, strings.Join(picked, " "), summary, "summary is not built from whole fixture sentences")
	return idx
}

func TestPipeline_TopHeadlinesEndToEnd(t *testing.T) {
	srv := newsServer(t, []string{"/docs/five", "/docs/one"}, false)
	p := newRealPipeline(t, srv.URL, 1)

	res, err := p.SearchTopHeadlines(context.Background(), 3, model.SearchRequest{
		APIKey:   "test-key",
		Category: "general",
		Country:  "us",
		SortBy:   "publishedAt",
	})
	require.NoError(t, err)
	require.Len(t, res.Articles, 2)

	assert.Equal(t, "Story 0", res.Articles[0].Title)
	assert.Equal(t, model.StatusSummarized, res.Articles[0].Status)
	assert.Len(t, pickedSentences(t, res.Articles[0].Summary), 3)

	assert.Equal(t, "Story 1", res.Articles[1].Title)
	assert.Equal(t, "The museum will reopen its renovated east wing to visitors next month.", res.Articles[1].Summary)
}

func TestPipeline_MissingArticlesField(t *testing.T) {
	srv := newsServer(t, nil, true)
	p := newRealPipeline(t, srv.URL, 2)

	res, err := p.SearchByQuery(context.Background(), 3, model.SearchRequest{APIKey: "test-key", Query: "transport"})
	assert.Nil(t, res)

	var upstream *newsapi.UpstreamError
	require.True(t, errors.As(err, &upstream), "got %v", err)
	assert.ErrorIs(t, err, newsapi.ErrMissingArticles)
}

func TestPipeline_OneBrokenArticleOfThree(t *testing.T) {
	srv := newsServer(t, []string{"/docs/five", "/docs/gone", "/docs/one"}, false)
	p := newRealPipeline(t, srv.URL, 3)

	res, err := p.SearchByQuery(context.Background(), 2, model.SearchRequest{APIKey: "test-key", Query: "transport"})
	require.NoError(t, err)
	require.Len(t, res.Articles, 3)

	assert.Equal(t, model.StatusSummarized, res.Articles[0].Status)
	assert.Len(t, pickedSentences(t, res.Articles[0].Summary), 2)

	assert.Equal(t, model.StatusUnavailable, res.Articles[1].Status)
	assert.Equal(t, model.SummaryUnavailable, res.Articles[1].Summary)
	assert.Contains(t, res.Articles[1].ErrorMessage, "404")

	assert.Equal(t, model.StatusSummarized, res.Articles[2].Status)
	assert.NotEmpty(t, res.Articles[2].Summary)
}

type countingFetcher struct {
	calls int
	got   model.SearchRequest
}

func (f *countingFetcher) FetchArticles(ctx context.Context, req model.SearchRequest) ([]model.Article, error) {
	f.calls++
	f.got = req
	return []model.Article{model.NewArticle(model.Article{URL: "https://example.com"})}, nil
}

type countingProcessor struct {
	calls        int
	maxSentences int
}

func (p *countingProcessor) Process(ctx context.Context, articles []model.Article, maxSentences int) []model.Article {
	p.calls++
	p.maxSentences = maxSentences
	return articles
}

func TestPipeline_EndpointAndInputs(t *testing.T) {
	fetcher := &countingFetcher{}
	processor := &countingProcessor{}
	p := New(fetcher, processor, zap.NewNop())
	ctx := context.Background()

	_, err := p.SearchByQuery(ctx, 3, model.SearchRequest{APIKey: "k", Query: "   "})
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Zero(t, fetcher.calls)
	assert.Zero(t, processor.calls)

	// the endpoint is forced by the entry point
	_, err = p.SearchByQuery(ctx, 3, model.SearchRequest{Endpoint: model.EndpointTopHeadlines, APIKey: "k", Query: " go "})
	require.NoError(t, err)
	assert.Equal(t, model.EndpointEverything, fetcher.got.Endpoint)
	assert.Equal(t, "go", fetcher.got.Query)

	res, err := p.SearchTopHeadlines(ctx, 99, model.SearchRequest{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, model.EndpointTopHeadlines, fetcher.got.Endpoint)
	assert.Equal(t, model.MaxSentences, processor.maxSentences)
	assert.Len(t, res.Articles, 1)
	assert.Equal(t, 2, fetcher.calls)
}
