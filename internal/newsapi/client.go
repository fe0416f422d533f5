package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"news-summarizer/internal/model"

	"go.uber.org/zap"
)

const DefaultBaseURL = "https://newsapi.org"

var ErrMissingAPIKey = errors.New("newsapi: request has no API key")

// UpstreamError reports a failed News API call. StatusCode is zero when the
// request never got a response.
type UpstreamError struct {
	Endpoint   model.Endpoint
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "newsapi %s", e.Endpoint)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": HTTP %d", e.StatusCode)
	}
	if e.Code != "" {
		fmt.Fprintf(&b, ": %s", e.Code)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// ErrMissingArticles is wrapped in an UpstreamError when a successful response
// has no "articles" field at all.
var ErrMissingArticles = errors.New(`response has no "articles" field`)

type response struct {
	Status       string           `json:"status"`
	Code         string           `json:"code"`
	Message      string           `json:"message"`
	TotalResults int              `json:"totalResults"`
	Articles     *[]model.Article `json:"articles"`
}

// Client talks to the two News API endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a client. An empty baseURL means DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// FetchArticles issues exactly one GET for req and returns the decoded
// articles in response order. An empty "articles" array is a valid result.
func (c *Client) FetchArticles(ctx context.Context, req model.SearchRequest) ([]model.Article, error) {
	if req.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if req.Endpoint == "" {
		req.Endpoint = model.EndpointEverything
	}

	endpoint := fmt.Sprintf("%s/v2/%s", c.baseURL, req.Endpoint)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &UpstreamError{Endpoint: req.Endpoint, Err: err}
	}
	httpReq.URL.RawQuery = req.Values().Encode()
	httpReq.Header.Set("X-Api-Key", req.APIKey)
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug("News API request",
		zap.String("endpoint", string(req.Endpoint)),
		zap.String("category", string(req.Category)),
		zap.String("q", req.Query))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &UpstreamError{Endpoint: req.Endpoint, Err: withoutURL(err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Endpoint: req.Endpoint, StatusCode: resp.StatusCode, Err: err}
	}

	var decoded response
	decodeErr := json.Unmarshal(body, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Error bodies normally carry {"status":"error","code":...,"message":...}.
		return nil, &UpstreamError{
			Endpoint:   req.Endpoint,
			StatusCode: resp.StatusCode,
			Code:       decoded.Code,
			Message:    decoded.Message,
		}
	}
	if decodeErr != nil {
		return nil, &UpstreamError{
			Endpoint:   req.Endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decode response: %w", decodeErr),
		}
	}
	if decoded.Status == "error" {
		return nil, &UpstreamError{
			Endpoint:   req.Endpoint,
			StatusCode: resp.StatusCode,
			Code:       decoded.Code,
			Message:    decoded.Message,
		}
	}
	if decoded.Articles == nil {
		return nil, &UpstreamError{
			Endpoint:   req.Endpoint,
			StatusCode: resp.StatusCode,
			Err:        ErrMissingArticles,
		}
	}

	articles := make([]model.Article, len(*decoded.Articles))
	for i, a := range *decoded.Articles {
		articles[i] = model.NewArticle(a)
	}

	c.logger.Info("News API response",
		zap.String("endpoint", string(req.Endpoint)),
		zap.Int("total_results", decoded.TotalResults),
		zap.Int("articles", len(articles)))

	return articles, nil
}

// withoutURL drops the request URL from transport errors; it carries the
// API key in its query string.
func withoutURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s request: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
