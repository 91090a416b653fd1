package processor

import (
	"strings"

	"github.com/LJTian/NeuralPulse/internal/collector"
)

// TrustFilter 只保留白名单域名的文章
type TrustFilter struct {
	domains map[string]struct{}
	// 可信文章少于 MinTrusted 时放弃过滤
	MinTrusted int
	// 放弃过滤时直接取前 Fallback 条
	Fallback int
}

func NewTrustFilter(domains []string, minTrusted, fallback int) *TrustFilter {
	set := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		d = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(d)), "www.")
		if d != "" {
			set[d] = struct{}{}
		}
	}
	return &TrustFilter{
		domains:    set,
		MinTrusted: minTrusted,
		Fallback:   fallback,
	}
}

func (f *TrustFilter) IsReputable(rawURL string) bool {
	_, ok := f.domains[collector.Domain(rawURL)]
	return ok
}

// Apply 返回可信文章；不足 MinTrusted 条时退回前 Fallback 条未过滤的文章，此时 verified 为 false
func (f *TrustFilter) Apply(articles []Article) (kept []Article, verified bool) {
	for _, a := range articles {
		if f.IsReputable(a.URL) {
			kept = append(kept, a)
		}
	}
	if len(kept) >= f.MinTrusted {
		return kept, true
	}

	n := min(f.Fallback, len(articles))
	return append([]Article(nil), articles[:n]...), false
}
