package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/LJTian/NeuralPulse/internal/logger"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	ErrMissingOutputPath  = errors.New("output path is required")
	ErrInvalidFeedURL     = errors.New("feed url must start with http:// or https://")
	ErrInvalidFeedLimit   = errors.New("feed limit must be at least 1")
	ErrInvalidMaxLength   = errors.New("description max length must be at least 1")
	ErrInvalidTimeout     = errors.New("request timeout must be positive")
	ErrInvalidAPIMax      = errors.New("api article count must be at least 1")
	ErrInvalidTrustPolicy = errors.New("trust fallback must be at least 1 and min trusted non-negative")
	ErrInvalidLogLevel    = errors.New("log level must be one of: debug, info, warn, warning, error")
)

// DefaultFeeds 默认抓取的研究博客，可被 sources 文件覆盖
var DefaultFeeds = []string{
	"https://bair.berkeley.edu/blog/feed.xml",
	"https://research.google/blog/rss",
	"https://machinelearningmastery.com/blog/feed/",
}

// DefaultTrustedDomains 新闻 API 结果的可信域名白名单
var DefaultTrustedDomains = []string{
	"reuters.com",
	"apnews.com",
	"bbc.com",
	"bbc.co.uk",
	"theverge.com",
	"wired.com",
	"techcrunch.com",
	"arstechnica.com",
	"technologyreview.com",
	"nature.com",
	"nytimes.com",
	"wsj.com",
	"ft.com",
	"bloomberg.com",
	"venturebeat.com",
	"zdnet.com",
	"cnbc.com",
	"theguardian.com",
}

const (
	DefaultGNewsQuery   = `"artificial intelligence" OR "machine learning" OR "LLM"`
	DefaultNewsAPIQuery = `("agentic AI" OR "OpenAI" OR "LLM" OR "NVIDIA" OR "DeepSeek")`
	DefaultTitle        = "Neural Pulse"
	DefaultTagline      = "The heartbeat of the AI frontier."
	DefaultUserAgent    = "NeuralPulseBot/1.0"
)

type Config struct {
	AppPort     string
	OutputPath  string
	SourcesFile string
	LogLevel    string

	RequestTimeout time.Duration
	UserAgent      string

	Feeds             []string
	FeedLimit         int
	DescriptionMaxLen int

	GNewsAPIKey string
	GNewsQuery  string
	GNewsLang   string
	GNewsMax    int

	NewsAPIKey      string
	NewsAPIQuery    string
	NewsAPILang     string
	NewsAPISortBy   string
	NewsAPIPageSize int

	TrustEnabled   bool
	TrustedDomains []string
	MinTrusted     int
	TrustFallback  int

	Title   string
	Tagline string
}

// sourcesFile 对应 SOURCES_FILE 指向的可选 YAML 文件
type sourcesFile struct {
	Title     string   `yaml:"title"`
	Tagline   string   `yaml:"tagline"`
	Feeds     []string `yaml:"feeds"`
	FeedLimit int      `yaml:"feed_limit"`
	GNews     struct {
		Query string `yaml:"query"`
		Lang  string `yaml:"lang"`
		Max   int    `yaml:"max"`
	} `yaml:"gnews"`
	NewsAPI struct {
		Query    string `yaml:"query"`
		Lang     string `yaml:"lang"`
		SortBy   string `yaml:"sort_by"`
		PageSize int    `yaml:"page_size"`
	} `yaml:"newsapi"`
	Trust struct {
		Enabled    *bool    `yaml:"enabled"`
		Domains    []string `yaml:"domains"`
		MinTrusted *int     `yaml:"min_trusted"`
		Fallback   int      `yaml:"fallback"`
	} `yaml:"trust"`
}

func Defaults() *Config {
	return &Config{
		AppPort:           "9000",
		OutputPath:        "data.json",
		LogLevel:          "info",
		RequestTimeout:    15 * time.Second,
		UserAgent:         DefaultUserAgent,
		Feeds:             append([]string(nil), DefaultFeeds...),
		FeedLimit:         5,
		DescriptionMaxLen: 200,
		GNewsQuery:        DefaultGNewsQuery,
		GNewsLang:         "en",
		GNewsMax:          10,
		NewsAPIQuery:      DefaultNewsAPIQuery,
		NewsAPILang:       "en",
		NewsAPISortBy:     "relevancy",
		NewsAPIPageSize:   10,
		TrustEnabled:      true,
		TrustedDomains:    append([]string(nil), DefaultTrustedDomains...),
		MinTrusted:        3,
		TrustFallback:     5,
		Title:             DefaultTitle,
		Tagline:           DefaultTagline,
	}
}

// Load 依次读取 .env、sources 文件和环境变量（后者优先级更高），最后做校验
func Load() (*Config, error) {
	// CI 和 cron 环境下没有 .env 是正常的
	_ = godotenv.Load()

	cfg := Defaults()
	cfg.SourcesFile = getEnv("SOURCES_FILE", "")
	if cfg.SourcesFile != "" {
		if err := cfg.applySourcesFile(cfg.SourcesFile); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) applySourcesFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read sources file: %w", err)
	}

	var sf sourcesFile
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), &sf); err != nil {
		return fmt.Errorf("failed to parse sources file: %w", err)
	}

	if sf.Title != "" {
		c.Title = sf.Title
	}
	if sf.Tagline != "" {
		c.Tagline = sf.Tagline
	}
	if len(sf.Feeds) > 0 {
		c.Feeds = sf.Feeds
	}
	if sf.FeedLimit != 0 {
		c.FeedLimit = sf.FeedLimit
	}
	if sf.GNews.Query != "" {
		c.GNewsQuery = sf.GNews.Query
	}
	if sf.GNews.Lang != "" {
		c.GNewsLang = sf.GNews.Lang
	}
	if sf.GNews.Max != 0 {
		c.GNewsMax = sf.GNews.Max
	}
	if sf.NewsAPI.Query != "" {
		c.NewsAPIQuery = sf.NewsAPI.Query
	}
	if sf.NewsAPI.Lang != "" {
		c.NewsAPILang = sf.NewsAPI.Lang
	}
	if sf.NewsAPI.SortBy != "" {
		c.NewsAPISortBy = sf.NewsAPI.SortBy
	}
	if sf.NewsAPI.PageSize != 0 {
		c.NewsAPIPageSize = sf.NewsAPI.PageSize
	}
	if sf.Trust.Enabled != nil {
		c.TrustEnabled = *sf.Trust.Enabled
	}
	if len(sf.Trust.Domains) > 0 {
		c.TrustedDomains = sf.Trust.Domains
	}
	if sf.Trust.MinTrusted != nil {
		c.MinTrusted = *sf.Trust.MinTrusted
	}
	if sf.Trust.Fallback != 0 {
		c.TrustFallback = sf.Trust.Fallback
	}
	return nil
}

func (c *Config) applyEnv() error {
	r := &envReader{}

	c.AppPort = getEnv("APP_PORT", c.AppPort)
	c.OutputPath = getEnv("OUTPUT_PATH", c.OutputPath)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.UserAgent = getEnv("USER_AGENT", c.UserAgent)
	c.RequestTimeout = r.duration("REQUEST_TIMEOUT", c.RequestTimeout)

	c.Feeds = getEnvList("FEED_URLS", c.Feeds)
	c.FeedLimit = r.int("FEED_LIMIT", c.FeedLimit)
	c.DescriptionMaxLen = r.int("DESCRIPTION_MAX_LEN", c.DescriptionMaxLen)

	c.GNewsAPIKey = getEnv("GNEWS_API_KEY", c.GNewsAPIKey)
	c.GNewsQuery = getEnv("GNEWS_QUERY", c.GNewsQuery)
	c.GNewsLang = getEnv("GNEWS_LANG", c.GNewsLang)
	c.GNewsMax = r.int("GNEWS_MAX", c.GNewsMax)

	c.NewsAPIKey = getEnv("NEWS_API_KEY", c.NewsAPIKey)
	c.NewsAPIQuery = getEnv("NEWS_API_QUERY", c.NewsAPIQuery)
	c.NewsAPILang = getEnv("NEWS_API_LANG", c.NewsAPILang)
	c.NewsAPISortBy = getEnv("NEWS_API_SORT_BY", c.NewsAPISortBy)
	c.NewsAPIPageSize = r.int("NEWS_API_PAGE_SIZE", c.NewsAPIPageSize)

	c.TrustEnabled = r.bool("TRUST_FILTER", c.TrustEnabled)
	c.TrustedDomains = getEnvList("TRUSTED_DOMAINS", c.TrustedDomains)
	c.MinTrusted = r.int("TRUST_MIN", c.MinTrusted)
	c.TrustFallback = r.int("TRUST_FALLBACK", c.TrustFallback)

	c.Title = getEnv("SITE_TITLE", c.Title)
	c.Tagline = getEnv("SITE_TAGLINE", c.Tagline)

	return r.err
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.OutputPath) == "" {
		return ErrMissingOutputPath
	}
	for i, feed := range c.Feeds {
		if !strings.HasPrefix(feed, "http://") && !strings.HasPrefix(feed, "https://") {
			return fmt.Errorf("%w: feeds[%d]=%q", ErrInvalidFeedURL, i, feed)
		}
	}
	if c.FeedLimit < 1 {
		return ErrInvalidFeedLimit
	}
	if c.DescriptionMaxLen < 1 {
		return ErrInvalidMaxLength
	}
	if c.RequestTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.GNewsMax < 1 || c.NewsAPIPageSize < 1 {
		return ErrInvalidAPIMax
	}
	if c.TrustEnabled && (c.MinTrusted < 0 || c.TrustFallback < 1) {
		return ErrInvalidTrustPolicy
	}

	if !logger.KnownLevel(c.LogLevel) {
		return ErrInvalidLogLevel
	}
	return nil
}

// String 返回可直接打日志的摘要，API key 只显示是否已配置
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Feeds: %d, GNews: %t, NewsAPI: %t, Trust: %t, Output: %s}",
		len(c.Feeds),
		c.GNewsAPIKey != "",
		c.NewsAPIKey != "",
		c.TrustEnabled,
		c.OutputPath,
	)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvList 按逗号拆分，忽略空项
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// envReader 解析带类型的环境变量，只保留第一个错误
type envReader struct {
	err error
}

func (r *envReader) int(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		r.fail(key, err)
		return def
	}
	return n
}

func (r *envReader) bool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		r.fail(key, err)
		return def
	}
	return b
}

func (r *envReader) duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		r.fail(key, err)
		return def
	}
	return d
}

func (r *envReader) fail(key string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("invalid %s: %w", key, err)
	}
}
