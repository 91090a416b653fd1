package collector

import (
	"context"
	"time"
)

// NewsItem 是各数据源归一化之前的原始条目
type NewsItem struct {
	Title string
	URL   string
	// Source 显示在描述前的来源标签，如 "bair"、"Reuters"
	Source      string
	Description string
	// 数据源没有可用时间时为零值
	PublishedAt time.Time
}

// Fetcher 抽象每一个数据源
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]NewsItem, error)
}
