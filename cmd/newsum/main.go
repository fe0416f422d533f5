package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"news-summarizer/internal/config"
	"news-summarizer/internal/model"
	"news-summarizer/internal/newsapi"
	"news-summarizer/internal/pipeline"
	"news-summarizer/internal/server"
	"news-summarizer/internal/summarizer"
	"news-summarizer/internal/terminal"
	"news-summarizer/internal/worker"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger     *zap.Logger
	cfg        config.Config
	configPath string
	devLogs    bool
	workers    int
)

var rootCmd = &cobra.Command{
	Use:   "newsum",
	Short: "newsum - News API headlines with extractive summaries",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cmd.Name() == "help" || (cmd.HasParent() && cmd.Parent().Name() == "completion") {
			return
		}
		var err error
		cfg, err = config.Load(configPath)
		if errors.Is(err, config.ErrMissingAPIKey) {
			logger.Fatal("Missing configuration", zap.String("variable", config.APIKeyEnv), zap.Error(err))
		}
		if err != nil {
			logger.Fatal("Failed to load config", zap.Error(err))
		}

		if cmd.Flags().Changed("workers") {
			if workers < 1 {
				logger.Fatal("Invalid --workers", zap.Int("workers", workers))
			}
			cfg.Summarizer.Workers = workers
		}
		if cfg.Log.Development {
			devLogs = true
		}
		l, err := newLogger(cfg.Log.Level, devLogs)
		if err != nil {
			logger.Fatal("Failed to build logger", zap.Error(err))
		}
		logger = l
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web UI",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		srv := server.NewServer(buildPipeline(), server.Options{
			Request:          baseRequest(),
			DefaultSentences: cfg.Summarizer.Sentences,
			ReadTimeout:      cfg.Server.ReadTimeout,
			WriteTimeout:     cfg.Server.WriteTimeout,
		}, logger)

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start(cfg.Server.Addr)
		}()
		fmt.Printf("Open http://localhost%s in your browser.\n", displayAddr(cfg.Server.Addr))

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("Web server failed", zap.Error(err))
			}
		case <-ctx.Done():
			logger.Info("Shutting down...")
			shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
			defer stop()
			if err := srv.Stop(shutdownCtx); err != nil {
				logger.Error("Shutdown failed", zap.Error(err))
			}
		}
		logger.Info("Goodbye!")
	},
}

var headlinesCmd = &cobra.Command{
	Use:   "headlines",
	Short: "Summarize the current top headlines of a category",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		category, _ := cmd.Flags().GetString("category")
		req := baseRequest()
		req.Category = model.ParseCategory(category)

		res, err := buildPipeline().SearchTopHeadlines(ctx, sentences(cmd), req)
		printResult(cmd, res, err)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [term...]",
	Short: "Summarize articles matching a search term",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		req := baseRequest()
		req.Query = strings.Join(args, " ")

		res, err := buildPipeline().SearchByQuery(ctx, sentences(cmd), req)
		printResult(cmd, res, err)
	},
}

// buildPipeline wires the fetcher, the summarizer and the worker from cfg.
func buildPipeline() *pipeline.Pipeline {
	s, err := summarizer.New(summarizer.Options{
		Language:  cfg.Summarizer.Language,
		UserAgent: cfg.Summarizer.UserAgent,
		Timeout:   cfg.Summarizer.Timeout,
		MaxBytes:  cfg.Summarizer.MaxPageBytes,
	}, logger.Named("summarizer"))
	if err != nil {
		logger.Fatal("Failed to init summarizer", zap.Error(err))
	}

	fetcher := newsapi.NewClient(cfg.NewsAPI.BaseURL, cfg.NewsAPI.Timeout, logger.Named("newsapi"))
	w := worker.NewWorker(s, cfg.Summarizer.Workers, logger.Named("worker"))
	return pipeline.New(fetcher, w, logger.Named("pipeline"))
}

// baseRequest carries the key and the fixed query parameters from cfg.
func baseRequest() model.SearchRequest {
	return model.SearchRequest{
		APIKey:   cfg.APIKey,
		SortBy:   cfg.NewsAPI.SortBy,
		Country:  cfg.NewsAPI.Country,
		Language: cfg.NewsAPI.Language,
		PageSize: cfg.NewsAPI.PageSize,
	}
}

func sentences(cmd *cobra.Command) int {
	if cmd.Flags().Changed("sentences") {
		n, _ := cmd.Flags().GetInt("sentences")
		return model.ClampSentences(n)
	}
	return cfg.Summarizer.Sentences
}

func printResult(cmd *cobra.Command, res *pipeline.Result, err error) {
	if err != nil {
		logger.Error("Search failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	width, _ := cmd.Flags().GetInt("width")
	if err := terminal.Render(cmd.OutOrStdout(), res.Articles, width); err != nil {
		logger.Fatal("Failed to write output", zap.Error(err))
	}
}

func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return addr
	}
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		return addr[i:]
	}
	return ":" + addr
}

func newLogger(level string, dev bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	zc := zap.NewProductionConfig()
	if dev {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

func main() {
	var err error
	logger, err = zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() { logger.Sync() }()

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default $"+config.ConfigPathEnv+")")
	rootCmd.PersistentFlags().BoolVar(&devLogs, "dev", false, "Human-readable development logs")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 4, "Articles summarized in parallel (1 = one at a time)")

	serveCmd.Flags().String("addr", "", "HTTP listen address (default from config, :3000)")

	for _, c := range []*cobra.Command{headlinesCmd, searchCmd} {
		c.Flags().Int("sentences", model.DefaultSentences, "Max sentences per summary (1-10)")
		c.Flags().Int("width", terminal.DefaultWidth, "Output width in columns")
	}
	headlinesCmd.Flags().String("category", string(model.DefaultCategory), "One of: "+categoryList())

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(headlinesCmd)
	rootCmd.AddCommand(searchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func categoryList() string {
	names := make([]string, len(model.Categories))
	for i, c := range model.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
