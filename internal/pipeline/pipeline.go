package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"news-summarizer/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrEmptyQuery = errors.New("search term is empty")

// Fetcher pulls article records from the news API.
type Fetcher interface {
	FetchArticles(ctx context.Context, req model.SearchRequest) ([]model.Article, error)
}

// Processor attaches summaries to a batch of articles.
type Processor interface {
	Process(ctx context.Context, articles []model.Article, maxSentences int) []model.Article
}

// Result is one pipeline run.
type Result struct {
	RunID    uuid.UUID       `json:"run_id"`
	Articles []model.Article `json:"articles"`
}

// Pipeline composes one fetch with one summarization pass per article.
type Pipeline struct {
	fetcher   Fetcher
	processor Processor
	logger    *zap.Logger
}

func New(fetcher Fetcher, processor Processor, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		processor: processor,
		logger:    logger,
	}
}

// SearchTopHeadlines fetches the top headlines described by req and
// summarizes each of them.
func (p *Pipeline) SearchTopHeadlines(ctx context.Context, maxSentences int, req model.SearchRequest) (*Result, error) {
	req.Endpoint = model.EndpointTopHeadlines
	return p.run(ctx, maxSentences, req)
}

// SearchByQuery fetches articles matching req.Query and summarizes each of
// them. A blank query is rejected before any network call.
func (p *Pipeline) SearchByQuery(ctx context.Context, maxSentences int, req model.SearchRequest) (*Result, error) {
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return nil, ErrEmptyQuery
	}
	req.Endpoint = model.EndpointEverything
	return p.run(ctx, maxSentences, req)
}

func (p *Pipeline) run(ctx context.Context, maxSentences int, req model.SearchRequest) (*Result, error) {
	runID := uuid.New()
	logger := p.logger.With(
		zap.String("run_id", runID.String()),
		zap.String("endpoint", string(req.Endpoint)))

	maxSentences = model.ClampSentences(maxSentences)

	articles, err := p.fetcher.FetchArticles(ctx, req)
	if err != nil {
		logger.Error("Fetch failed", zap.Error(err))
		return nil, fmt.Errorf("fetch articles: %w", err)
	}
	logger.Info("Fetched articles", zap.Int("count", len(articles)))

	articles = p.processor.Process(ctx, articles, maxSentences)

	unavailable := 0
	for _, a := range articles {
		if a.Status == model.StatusUnavailable {
			unavailable++
		}
	}
	logger.Info("Run complete",
		zap.Int("articles", len(articles)),
		zap.Int("unavailable", unavailable))

	return &Result{RunID: runID, Articles: articles}, nil
}
