package summarizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kljensen/snowball"
	"go.uber.org/zap"
)

const (
	DefaultLanguage  = "english"
	DefaultUserAgent = "Mozilla/5.0 (compatible; news-summarizer/1.0; +https://newsapi.org)"
	DefaultTimeout   = 30 * time.Second
	DefaultMaxBytes  = 5 << 20
)

var (
	ErrNoSentences  = errors.New("no sentences could be extracted")
	ErrInvalidCount = errors.New("sentence count must be at least 1")
)

// FetchError reports an article page that could not be downloaded.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

type Options struct {
	Language  string
	UserAgent string
	Timeout   time.Duration
	MaxBytes  int64
}

// Summarizer produces extractive summaries of web pages.
type Summarizer struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	language   string
	stopWords  map[string]struct{}
	logger     *zap.Logger
}

// New validates the language (stemmer and stop words must both exist) and
// fills in defaults for zero options.
func New(opts Options, logger *zap.Logger) (*Summarizer, error) {
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}

	if _, err := snowball.Stem("summaries", opts.Language, true); err != nil {
		return nil, fmt.Errorf("unsupported language %q: %w", opts.Language, err)
	}
	stop, err := loadStopWords(opts.Language)
	if err != nil {
		return nil, fmt.Errorf("unsupported language %q: %w", opts.Language, err)
	}

	return &Summarizer{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				return nil
			},
		},
		userAgent: opts.UserAgent,
		maxBytes:  opts.MaxBytes,
		language:  opts.Language,
		stopWords: stop,
		logger:    logger,
	}, nil
}

// Summarize downloads the page at rawURL and returns its maxSentences most
// representative sentences, in the order they appear on the page, joined by
// single spaces. A page with fewer sentences is returned whole.
func (s *Summarizer) Summarize(ctx context.Context, rawURL string, maxSentences int) (string, error) {
	if maxSentences < 1 {
		return "", ErrInvalidCount
	}

	pageURL, err := url.Parse(rawURL)
	if err != nil || (pageURL.Scheme != "http" && pageURL.Scheme != "https") {
		return "", &FetchError{URL: rawURL, Err: fmt.Errorf("invalid url")}
	}

	raw, err := s.download(ctx, pageURL)
	if err != nil {
		return "", err
	}

	doc, err := parseDocument(raw, pageURL)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", rawURL, err)
	}

	picked, err := s.extract(doc.Sentences, maxSentences)
	if err != nil {
		return "", fmt.Errorf("summarize %s: %w", rawURL, err)
	}

	texts := make([]string, len(picked))
	for i, sent := range picked {
		texts[i] = sent.Text
	}

	s.logger.Debug("Summarized",
		zap.String("url", rawURL),
		zap.Int("sentences", len(doc.Sentences)),
		zap.Int("picked", len(picked)))

	return strings.Join(texts, " "), nil
}

// extract ranks sents and keeps the best count of them.
func (s *Summarizer) extract(sents []Sentence, count int) ([]Sentence, error) {
	if len(sents) == 0 {
		return nil, ErrNoSentences
	}
	if len(sents) <= count {
		return sents, nil
	}

	ranks, err := rankSentences(sents, s.stem, s.stopWords)
	if err != nil {
		return nil, err
	}
	if ranks == nil {
		return nil, ErrNoSentences
	}
	return bestSentences(sents, ranks, count), nil
}

func (s *Summarizer) stem(word string) string {
	stemmed, err := snowball.Stem(word, s.language, true)
	if err != nil {
		return word
	}
	return stemmed
}

func (s *Summarizer) download(ctx context.Context, pageURL *url.URL) ([]byte, error) {
	rawURL := pageURL.String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	if int64(len(body)) > s.maxBytes {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("page exceeds %d bytes", s.maxBytes)}
	}
	return body, nil
}
