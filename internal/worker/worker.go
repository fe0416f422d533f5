package worker

import (
	"context"
	"fmt"

	"news-summarizer/internal/model"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Summarizer defines the interface for turning an article URL into a summary.
// This allows us to mock the download and ranking steps in tests.
type Summarizer interface {
	Summarize(ctx context.Context, url string, maxSentences int) (string, error)
}

// Worker summarizes a batch of articles with at most Concurrency pages in
// flight. A concurrency of 1 processes the batch strictly in order.
type Worker struct {
	summarizer  Summarizer
	logger      *zap.Logger
	concurrency int
}

// NewWorker initializes the worker. Non-positive concurrency means 1.
func NewWorker(s Summarizer, concurrency int, logger *zap.Logger) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Worker{
		summarizer:  s,
		logger:      logger,
		concurrency: concurrency,
	}
}

// Process summarizes every article and returns them in the input order.
// A failure on one article replaces its summary with the placeholder and
// never affects the others. The input slice is not modified.
func (w *Worker) Process(ctx context.Context, articles []model.Article, maxSentences int) []model.Article {
	out := make([]model.Article, len(articles))
	copy(out, articles)

	var g errgroup.Group
	g.SetLimit(w.concurrency)

	for i := range out {
		if ctx.Err() != nil {
			out[i].Unavailable(ctx.Err().Error())
			continue
		}
		g.Go(func() error {
			w.processJob(ctx, &out[i], maxSentences)
			return nil
		})
	}
	g.Wait()

	return out
}

func (w *Worker) processJob(ctx context.Context, article *model.Article, maxSentences int) {
	logger := w.logger.With(zap.String("article_id", article.ID.String()), zap.String("url", article.URL))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Summarizer panicked", zap.Any("panic", r))
			article.Unavailable(fmt.Sprintf("panic: %v", r))
		}
	}()

	if article.URL == "" {
		logger.Warn("Article has no URL")
		article.Unavailable("article has no url")
		return
	}

	summary, err := w.summarizer.Summarize(ctx, article.URL, maxSentences)
	if err != nil {
		logger.Warn("Summary unavailable", zap.Error(err))
		article.Unavailable(err.Error())
		return
	}

	article.Summarized(summary)
	logger.Debug("Summary complete", zap.Int("length", len(summary)))
}
