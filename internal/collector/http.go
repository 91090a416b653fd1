package collector

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "NeuralPulseBot/1.0"
	maxResponseBytes = 4 << 20 // 4MB
	// colly 把 >= 203 的状态码都当作错误（200-202 视为成功）
	collyErrorStatus = 203
)

type HTTPOptions struct {
	Timeout   time.Duration
	UserAgent string
}

func (o HTTPOptions) timeout() time.Duration {
	if o.Timeout <= 0 {
		return defaultTimeout
	}
	return o.Timeout
}

func (o HTTPOptions) userAgent() string {
	if o.UserAgent == "" {
		return defaultUserAgent
	}
	return o.UserAgent
}

// StatusError 表示非成功的 HTTP 状态码
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// get 每次新建一个 collector 抓取 rawURL，返回响应体
func get(ctx context.Context, opts HTTPOptions, rawURL, accept string) ([]byte, error) {
	c := colly.NewCollector(
		colly.UserAgent(opts.userAgent()),
		colly.MaxBodySize(maxResponseBytes),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(opts.timeout())

	c.OnRequest(func(r *colly.Request) {
		if accept != "" {
			r.Headers.Set("Accept", accept)
		}
	})

	var (
		body   []byte
		status int
	)
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	c.OnError(func(r *colly.Response, _ error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	if err := c.Visit(rawURL); err != nil {
		if status >= collyErrorStatus {
			return nil, &StatusError{StatusCode: status}
		}
		return nil, redactURL(err)
	}
	return body, nil
}

// redactURL 去掉传输错误里的请求 URL，避免查询参数中的 API key 进入日志
func redactURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
