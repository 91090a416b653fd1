package collector

import (
	"net/url"
	"strings"
)

// Domain 返回小写的主机名（去掉协议、端口和前缀 "www."），解析不出主机时返回空串
func Domain(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "//") {
		s = "//" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// SourceLabel 取域名的第一段作为来源标签，如 https://bair.berkeley.edu/blog/feed.xml 得到 "bair"
func SourceLabel(rawURL string) string {
	d := Domain(rawURL)
	if i := strings.IndexByte(d, '.'); i >= 0 {
		return d[:i]
	}
	return d
}
