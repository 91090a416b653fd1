package pipeline

import (
	"testing"

	"github.com/LJTian/NeuralPulse/internal/collector"
	"github.com/LJTian/NeuralPulse/internal/config"
	"github.com/LJTian/NeuralPulse/internal/logger"
)

func TestJobsWithoutKeysAreFeedsOnly(t *testing.T) {
	cfg := config.Defaults()

	jobs := Jobs(cfg, logger.Discard())
	if len(jobs) != len(config.DefaultFeeds) {
		t.Fatalf("jobs = %d, want %d feeds", len(jobs), len(config.DefaultFeeds))
	}
	for i, j := range jobs {
		rss, ok := j.Fetcher.(*collector.RSSFetcher)
		if !ok {
			t.Fatalf("job %d is %T, want *RSSFetcher", i, j.Fetcher)
		}
		if rss.URL != config.DefaultFeeds[i] || j.Filter != nil {
			t.Fatalf("job %d = %+v", i, j)
		}
	}
}

func TestJobsWithKeys(t *testing.T) {
	cfg := config.Defaults()
	cfg.Feeds = []string{"https://example.com/feed"}
	cfg.GNewsAPIKey = "g"
	cfg.NewsAPIKey = "n"

	jobs := Jobs(cfg, logger.Discard())
	if len(jobs) != 3 {
		t.Fatalf("jobs = %d, want 3", len(jobs))
	}
	if _, ok := jobs[1].Fetcher.(*collector.GNewsFetcher); !ok || jobs[1].Filter == nil {
		t.Fatalf("job 1 = %+v", jobs[1])
	}
	if _, ok := jobs[2].Fetcher.(*collector.NewsAPIFetcher); !ok || jobs[2].Filter == nil {
		t.Fatalf("job 2 = %+v", jobs[2])
	}
	if jobs[0].Filter != nil {
		t.Fatal("feeds must not be trust filtered")
	}
}

func TestJobsTrustDisabled(t *testing.T) {
	cfg := config.Defaults()
	cfg.Feeds = nil
	cfg.GNewsAPIKey = "g"
	cfg.TrustEnabled = false

	jobs := Jobs(cfg, logger.Discard())
	if len(jobs) != 1 || jobs[0].Filter != nil {
		t.Fatalf("jobs = %+v", jobs)
	}
}
