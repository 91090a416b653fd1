package processor

import (
	"html"
	"regexp"
	"strings"
)

const (
	// 描述长度上限（按 rune 计）
	DefaultMaxLength = 200
	Ellipsis = "..."
	// 清洗后为空时的占位描述
	Placeholder = "No intel summary available."
)

var reTag = regexp.MustCompile(`<[^>]*>`)

func Sanitize(s string) string {
	return SanitizeN(s, DefaultMaxLength)
}

// SanitizeN 先反转义实体再去掉标签、合并空白，超过 maxLen 个 rune 时在单词边界截断并追加省略号。
// 单个超长单词直接硬截断。
func SanitizeN(s string, maxLen int) string {
	s = CollapseSpace(reTag.ReplaceAllString(html.UnescapeString(s), ""))
	if s == "" {
		return Placeholder
	}
	if maxLen <= 0 {
		return s
	}

	rs := []rune(s)
	if len(rs) <= maxLen {
		return s
	}

	cut := string(rs[:maxLen])
	// 截断处恰好是单词边界时保留整段
	if rs[maxLen] != ' ' {
		if i := strings.LastIndexByte(cut, ' '); i > 0 {
			cut = cut[:i]
		}
	}
	return strings.TrimRight(cut, " ") + Ellipsis
}

// CollapseSpace 把连续空白合并为一个空格并去掉首尾空白
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
