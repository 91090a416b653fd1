package collector

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

const (
	rssDefaultLimit = 5
	rssAccept       = "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8"
)

// RSSFetcher 抓取 RSS / Atom 订阅源，只保留前 Limit 条
type RSSFetcher struct {
	URL   string
	Limit int
	HTTP  HTTPOptions
}

func (r *RSSFetcher) Name() string {
	return "rss:" + Domain(r.URL)
}

func (r *RSSFetcher) Fetch(ctx context.Context) ([]NewsItem, error) {
	body, err := get(ctx, r.HTTP, r.URL, rssAccept)
	if err != nil {
		return nil, fmt.Errorf("rss: fetch %s: %w", r.URL, err)
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("rss: parse %s: %w", r.URL, err)
	}

	limit := r.Limit
	if limit <= 0 {
		limit = rssDefaultLimit
	}
	entries := feed.Items
	if len(entries) > limit {
		entries = entries[:limit]
	}

	label := SourceLabel(r.URL)
	results := make([]NewsItem, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		results = append(results, NewsItem{
			Title:       entry.Title,
			URL:         entryLink(entry),
			Source:      label,
			Description: entrySummary(entry),
			PublishedAt: entryPublished(entry),
		})
	}
	return results, nil
}

func entryLink(entry *gofeed.Item) string {
	if entry.Link != "" {
		return entry.Link
	}
	if len(entry.Links) > 0 {
		return entry.Links[0]
	}
	return ""
}

// entrySummary 优先用摘要，没有时取正文第一段
func entrySummary(entry *gofeed.Item) string {
	if strings.TrimSpace(entry.Description) != "" {
		return entry.Description
	}
	if strings.TrimSpace(entry.Content) == "" {
		return ""
	}
	return firstParagraph(entry.Content)
}

func firstParagraph(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	var text string
	doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text = strings.TrimSpace(s.Text())
		return text == ""
	})
	if text == "" {
		text = strings.TrimSpace(doc.Text())
	}
	return text
}

func entryPublished(entry *gofeed.Item) time.Time {
	switch {
	case entry.PublishedParsed != nil:
		return entry.PublishedParsed.UTC()
	case entry.UpdatedParsed != nil:
		return entry.UpdatedParsed.UTC()
	case entry.Published != "":
		return parsePublished(entry.Published)
	default:
		return parsePublished(entry.Updated)
	}
}
