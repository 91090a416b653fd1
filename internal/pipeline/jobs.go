package pipeline

import (
	"log/slog"

	"github.com/LJTian/NeuralPulse/internal/collector"
	"github.com/LJTian/NeuralPulse/internal/config"
	"github.com/LJTian/NeuralPulse/internal/processor"
)

// Jobs 根据配置注册采集任务：先是所有订阅源，再是配置了 key 的新闻 API（开启时走可信过滤）
func Jobs(cfg *config.Config, log *slog.Logger) []Job {
	opts := collector.HTTPOptions{
		Timeout:   cfg.RequestTimeout,
		UserAgent: cfg.UserAgent,
	}

	jobs := make([]Job, 0, len(cfg.Feeds)+2)
	for _, u := range cfg.Feeds {
		jobs = append(jobs, Job{Fetcher: &collector.RSSFetcher{
			URL:   u,
			Limit: cfg.FeedLimit,
			HTTP:  opts,
		}})
	}

	var filter *processor.TrustFilter
	if cfg.TrustEnabled {
		filter = processor.NewTrustFilter(cfg.TrustedDomains, cfg.MinTrusted, cfg.TrustFallback)
	}

	if cfg.GNewsAPIKey != "" {
		jobs = append(jobs, Job{
			Fetcher: &collector.GNewsFetcher{
				APIKey: cfg.GNewsAPIKey,
				Query:  cfg.GNewsQuery,
				Lang:   cfg.GNewsLang,
				Max:    cfg.GNewsMax,
				HTTP:   opts,
			},
			Filter: filter,
		})
	} else {
		log.Info("skip source, no api key", "source", "gnews")
	}

	if cfg.NewsAPIKey != "" {
		jobs = append(jobs, Job{
			Fetcher: &collector.NewsAPIFetcher{
				APIKey:   cfg.NewsAPIKey,
				Query:    cfg.NewsAPIQuery,
				Lang:     cfg.NewsAPILang,
				SortBy:   cfg.NewsAPISortBy,
				PageSize: cfg.NewsAPIPageSize,
				HTTP:     opts,
			},
			Filter: filter,
		})
	} else {
		log.Info("skip source, no api key", "source", "newsapi")
	}

	return jobs
}
