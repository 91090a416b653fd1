package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

const (
	gnewsBaseURL   = "https://gnews.io/api/v4/search"
	newsAPIBaseURL = "https://newsapi.org/v2/everything"
	apiAccept      = "application/json"
)

// apiArticle 是 GNews 与 NewsAPI 共用的文章结构
type apiArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

type apiResponse struct {
	Status   string       `json:"status"`
	Message  string       `json:"message"`
	Articles []apiArticle `json:"articles"`
}

// GNewsFetcher 通过 GNews v4 搜索接口抓取新闻
type GNewsFetcher struct {
	APIKey string
	Query  string
	Lang   string
	Max    int
	HTTP   HTTPOptions
	// BaseURL 为空时使用官方地址
	BaseURL string
}

func (g *GNewsFetcher) Name() string {
	return "gnews"
}

func (g *GNewsFetcher) Fetch(ctx context.Context) ([]NewsItem, error) {
	base := g.BaseURL
	if base == "" {
		base = gnewsBaseURL
	}
	q := url.Values{}
	q.Set("q", g.Query)
	if g.Lang != "" {
		q.Set("lang", g.Lang)
	}
	if g.Max > 0 {
		q.Set("max", strconv.Itoa(g.Max))
	}
	q.Set("apikey", g.APIKey)

	return fetchAPI(ctx, g.HTTP, "gnews", base+"?"+q.Encode())
}

// NewsAPIFetcher 通过 NewsAPI 的 everything 接口抓取新闻
type NewsAPIFetcher struct {
	APIKey   string
	Query    string
	Lang     string
	SortBy   string
	PageSize int
	HTTP     HTTPOptions
	// BaseURL 为空时使用官方地址
	BaseURL string
}

func (n *NewsAPIFetcher) Name() string {
	return "newsapi"
}

func (n *NewsAPIFetcher) Fetch(ctx context.Context) ([]NewsItem, error) {
	base := n.BaseURL
	if base == "" {
		base = newsAPIBaseURL
	}
	q := url.Values{}
	q.Set("q", n.Query)
	if n.SortBy != "" {
		q.Set("sortBy", n.SortBy)
	}
	if n.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(n.PageSize))
	}
	if n.Lang != "" {
		q.Set("language", n.Lang)
	}
	q.Set("apiKey", n.APIKey)

	return fetchAPI(ctx, n.HTTP, "newsapi", base+"?"+q.Encode())
}

func fetchAPI(ctx context.Context, opts HTTPOptions, name, endpoint string) ([]NewsItem, error) {
	body, err := get(ctx, opts, endpoint, apiAccept)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch articles: %w", name, err)
	}

	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", name, err)
	}
	if resp.Status == "error" {
		return nil, fmt.Errorf("%s: api error: %s", name, resp.Message)
	}

	results := make([]NewsItem, 0, len(resp.Articles))
	for _, art := range resp.Articles {
		source := art.Source.Name
		if source == "" {
			source = SourceLabel(art.URL)
		}
		results = append(results, NewsItem{
			Title:       art.Title,
			URL:         art.URL,
			Source:      source,
			Description: art.Description,
			PublishedAt: parsePublished(art.PublishedAt),
		})
	}
	return results, nil
}
