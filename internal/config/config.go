package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	APIKeyEnv     = "NEWS_API_KEY"
	ConfigPathEnv = "NEWS_SUMMARIZER_CONFIG"
	baseURLEnv    = "NEWS_API_BASE_URL"
	addrEnv       = "NEWS_SUMMARIZER_ADDR"
	logLevelEnv   = "NEWS_SUMMARIZER_LOG_LEVEL"
)

var ErrMissingAPIKey = errors.New(APIKeyEnv + " environment variable is not set")

// Config holds every setting of the application. The API key only ever comes
// from the environment.
type Config struct {
	NewsAPI    NewsAPIConfig    `yaml:"newsapi"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	APIKey     string           `yaml:"-"`
}

// NewsAPIConfig describes how articles are listed.
type NewsAPIConfig struct {
	BaseURL  string        `yaml:"baseUrl"`
	Country  string        `yaml:"country"`
	SortBy   string        `yaml:"sortBy"`
	Language string        `yaml:"language"`
	PageSize int           `yaml:"pageSize"`
	Timeout  time.Duration `yaml:"timeout"`
}

// SummarizerConfig describes how article pages are fetched and summarized.
type SummarizerConfig struct {
	Language     string        `yaml:"language"`
	Sentences    int           `yaml:"sentences"`
	Workers      int           `yaml:"workers"`
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"userAgent"`
	MaxPageBytes int64         `yaml:"maxPageBytes"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Load builds the configuration: defaults, then the YAML file at path (or
// $NEWS_SUMMARIZER_CONFIG), then the environment. A .env file in the working
// directory is read first if present. The result is validated.
func Load(path string) (Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return Config{}, fmt.Errorf("config: load .env: %w", err)
		}
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		NewsAPI: NewsAPIConfig{
			BaseURL: "https://newsapi.org",
			Country: "us",
			SortBy:  "publishedAt",
			Timeout: 15 * time.Second,
		},
		Summarizer: SummarizerConfig{
			Language:     "english",
			Sentences:    3,
			Workers:      4,
			Timeout:      30 * time.Second,
			MaxPageBytes: 5 << 20,
		},
		Server: ServerConfig{
			Addr:         ":3000",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 5 * time.Minute,
		},
		Log: LogConfig{Level: "info"},
	}
}

func (c *Config) applyEnvOverrides() {
	c.APIKey = strings.TrimSpace(os.Getenv(APIKeyEnv))

	if v := os.Getenv(baseURLEnv); v != "" {
		c.NewsAPI.BaseURL = v
	}
	if v := os.Getenv(addrEnv); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Log.Level = v
	}
}

// Validate reports the first setting that cannot work.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Summarizer.Sentences < 1 || c.Summarizer.Sentences > 10 {
		return fmt.Errorf("config: summarizer.sentences must be between 1 and 10, got %d", c.Summarizer.Sentences)
	}
	if c.Summarizer.Workers < 1 {
		return fmt.Errorf("config: summarizer.workers must be at least 1, got %d", c.Summarizer.Workers)
	}
	if c.NewsAPI.PageSize < 0 || c.NewsAPI.PageSize > 100 {
		return fmt.Errorf("config: newsapi.pageSize must be between 0 and 100, got %d", c.NewsAPI.PageSize)
	}
	return nil
}
