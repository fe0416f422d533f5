package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"news-summarizer/internal/model"
	"news-summarizer/internal/pipeline"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const searchPrompt = "Please enter a search term =)"

//go:embed templates
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS,
	"templates/*.html",
	"templates/partials/*.html",
))

// Searcher runs the fetch and summarize pipeline.
type Searcher interface {
	SearchTopHeadlines(ctx context.Context, maxSentences int, req model.SearchRequest) (*pipeline.Result, error)
	SearchByQuery(ctx context.Context, maxSentences int, req model.SearchRequest) (*pipeline.Result, error)
}

type Options struct {
	// Request carries the API key and the fixed parameters (country, sort
	// order, page size) copied into every search.
	Request          model.SearchRequest
	DefaultSentences int
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
}

type Server struct {
	searcher Searcher
	opts     Options
	logger   *zap.Logger
	router   *mux.Router
	server   *http.Server
}

func NewServer(searcher Searcher, opts Options, logger *zap.Logger) *Server {
	if opts.DefaultSentences == 0 {
		opts.DefaultSentences = model.DefaultSentences
	}
	s := &Server{
		searcher: searcher,
		opts:     opts,
		logger:   logger,
		router:   mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/", s.handleIndex).Methods("GET")
	s.router.HandleFunc("/api/articles", s.handleAPI).Methods("GET")
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
}

// ServeHTTP makes the server usable as a plain http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start launches the HTTP server
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	s.logger.Info("Web server listening", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// form is the sidebar state read from the query string.
type form struct {
	Mode      model.Mode
	Sentences int
	Category  model.Category
	Query     string
}

func (s *Server) parseForm(r *http.Request) form {
	q := r.URL.Query()
	f := form{
		Mode:      model.ParseMode(q.Get("mode")),
		Sentences: s.opts.DefaultSentences,
		Category:  model.ParseCategory(q.Get("category")),
		Query:     strings.TrimSpace(q.Get("q")),
	}
	if q.Has("sentences") {
		f.Sentences = model.ParseSentences(q.Get("sentences"))
	}
	return f
}

// blank reports a search without a term; the pipeline is not run for it.
func (f form) blank() bool {
	return f.Mode == model.ModeSearch && f.Query == ""
}

func (s *Server) search(ctx context.Context, f form) (*pipeline.Result, error) {
	req := s.opts.Request
	if f.Mode == model.ModeSearch {
		req.Query = f.Query
		return s.searcher.SearchByQuery(ctx, f.Sentences, req)
	}
	req.Category = f.Category
	return s.searcher.SearchTopHeadlines(ctx, f.Sentences, req)
}

type categoryOption struct {
	Value    model.Category
	Selected bool
}

type pageData struct {
	Title      string
	Search     bool
	Sentences  int
	Min, Max   int
	Query      string
	Categories []categoryOption
	Prompt     string
	Error      string
	RunID      string
	Articles   []model.ArticleView
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	f := s.parseForm(r)

	data := pageData{
		Title:     "News Summarizer",
		Search:    f.Mode == model.ModeSearch,
		Sentences: f.Sentences,
		Min:       model.MinSentences,
		Max:       model.MaxSentences,
		Query:     f.Query,
	}
	for _, c := range model.Categories {
		data.Categories = append(data.Categories, categoryOption{Value: c, Selected: c == f.Category})
	}

	if f.blank() {
		data.Prompt = searchPrompt
	} else {
		res, err := s.search(r.Context(), f)
		if err != nil {
			s.logger.Error("Search failed", zap.String("mode", string(f.Mode)), zap.Error(err))
			data.Error = "Could not load articles: " + err.Error()
		} else {
			data.RunID = res.RunID.String()
			data.Articles = model.NewArticleViews(res.Articles)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, "layout", data); err != nil {
		s.logger.Error("Template error", zap.Error(err))
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	f := s.parseForm(r)
	if f.blank() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": pipeline.ErrEmptyQuery.Error()})
		return
	}

	res, err := s.search(r.Context(), f)
	switch {
	case errors.Is(err, pipeline.ErrEmptyQuery):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case err != nil:
		s.logger.Error("Search failed", zap.String("mode", string(f.Mode)), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
