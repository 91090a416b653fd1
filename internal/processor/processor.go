package processor

import (
	"slices"
	"strings"
	"time"

	"github.com/LJTian/NeuralPulse/internal/collector"
)

// Article 归一化后的条目，用于排序和输出
type Article struct {
	Title       string
	Description string
	URL         string
	// 仅用于排序，不写入输出
	PublishedAt time.Time
}

// Dropped 归一化时被丢弃的条目数
type Dropped struct {
	MissingTitle int
	MissingURL   int
	Duplicate    int
}

func (d Dropped) Total() int {
	return d.MissingTitle + d.MissingURL + d.Duplicate
}

// SimpleProcessor 简单的处理器：来源标签、清洗描述、同批次按 URL 去重
type SimpleProcessor struct {
	maxLen int
	now    func() time.Time
}

func NewSimpleProcessor(maxLen int) *SimpleProcessor {
	if maxLen <= 0 {
		maxLen = DefaultMaxLength
	}
	return &SimpleProcessor{
		maxLen: maxLen,
		now:    time.Now,
	}
}

// WithClock 替换缺失时间时使用的时钟，便于测试
func (p *SimpleProcessor) WithClock(now func() time.Time) *SimpleProcessor {
	p.now = now
	return p
}

func (p *SimpleProcessor) Process(items []collector.NewsItem) ([]Article, Dropped) {
	out := make([]Article, 0, len(items))
	seen := make(map[string]struct{})
	var dropped Dropped

	for _, it := range items {
		title := CollapseSpace(it.Title)
		if title == "" {
			dropped.MissingTitle++
			continue
		}
		url := strings.TrimSpace(it.URL)
		if url == "" {
			dropped.MissingURL++
			continue
		}
		if _, ok := seen[url]; ok {
			dropped.Duplicate++
			continue
		}
		seen[url] = struct{}{}

		published := it.PublishedAt
		if published.IsZero() {
			published = p.now().UTC()
		}

		out = append(out, Article{
			Title:       title,
			Description: Tag(it.Source, SanitizeN(it.Description, p.maxLen)),
			URL:         url,
			PublishedAt: published,
		})
	}

	return out, dropped
}

// Tag 在描述前加上大写的来源标签，如 "[BAIR] ..."
func Tag(source, desc string) string {
	source = CollapseSpace(source)
	if source == "" {
		return desc
	}
	return "[" + strings.ToUpper(source) + "] " + desc
}

// SeenURLs 记录一次运行中已输出的 URL，跨数据源去重
type SeenURLs map[string]struct{}

// Filter 返回此前未出现过的文章（保持顺序）以及被去掉的重复条数
func (s SeenURLs) Filter(articles []Article) ([]Article, int) {
	out := make([]Article, 0, len(articles))
	for _, a := range articles {
		if _, ok := s[a.URL]; ok {
			continue
		}
		s[a.URL] = struct{}{}
		out = append(out, a)
	}
	return out, len(articles) - len(out)
}

// SortByRecency 按发布时间倒序，时间相同保持原有顺序
func SortByRecency(articles []Article) {
	slices.SortStableFunc(articles, func(a, b Article) int {
		return b.PublishedAt.Compare(a.PublishedAt)
	})
}
