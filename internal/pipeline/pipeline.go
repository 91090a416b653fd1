package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LJTian/NeuralPulse/internal/collector"
	"github.com/LJTian/NeuralPulse/internal/processor"
	"github.com/LJTian/NeuralPulse/internal/storage"
)

// Job 一个数据源及其可信过滤器，Filter 可以为 nil
type Job struct {
	Fetcher collector.Fetcher
	Filter  *processor.TrustFilter
}

type Options struct {
	Title   string
	Tagline string
	// 默认 time.Now
	Now func() time.Time
}

// SourceResult 记录单个数据源的贡献。Kept 是写入文档的条数，
// 已扣除与前面数据源重复的 URL（计入 Duplicates），所以各源 Kept 之和等于 Total。
type SourceResult struct {
	Name       string
	Fetched    int
	Kept       int
	Duplicates int
	Verified   bool
	Err        error
}

type Result struct {
	Sources []SourceResult
	Total   int
	Path    string
}

type Runner struct {
	jobs      []Job
	processor *processor.SimpleProcessor
	store     *storage.FileStore
	log       *slog.Logger
	opts      Options
}

func New(jobs []Job, p *processor.SimpleProcessor, store *storage.FileStore, log *slog.Logger, opts Options) *Runner {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{
		jobs:      jobs,
		processor: p,
		store:     store,
		log:       log,
		opts:      opts,
	}
}

// Run 逐个执行采集任务。单个数据源失败只影响自己，错误记录在 SourceResult 中；
// 只有 ctx 取消或文档写入失败时才返回错误
func (r *Runner) Run(ctx context.Context) (Result, error) {
	r.log.Info("start collect job", "sources", len(r.jobs))

	var (
		res      Result
		articles []processor.Article
		seen     = processor.SeenURLs{}
	)
	for _, job := range r.jobs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		sr, kept := r.runJob(ctx, job, seen)
		res.Sources = append(res.Sources, sr)
		articles = append(articles, kept...)
	}

	processor.SortByRecency(articles)

	doc := storage.NewDocument(r.opts.Title, r.opts.Tagline, r.opts.Now(), articles)
	if err := r.store.Save(doc); err != nil {
		return res, err
	}

	res.Total = len(doc.News)
	res.Path = r.store.Path()
	r.log.Info("collect job done", "total", res.Total, "path", res.Path)
	return res, nil
}

func (r *Runner) runJob(ctx context.Context, job Job, seen processor.SeenURLs) (SourceResult, []processor.Article) {
	name := job.Fetcher.Name()
	sr := SourceResult{Name: name, Verified: true}
	log := r.log.With("source", name)

	log.Debug("fetch")
	items, err := job.Fetcher.Fetch(ctx)
	if err != nil {
		sr.Err = fmt.Errorf("fetch %s: %w", name, err)
		log.Error("fetch failed", "stage", "fetch", "err", err)
		return sr, nil
	}
	sr.Fetched = len(items)
	if len(items) == 0 {
		log.Info("fetch got 0 items")
		return sr, nil
	}

	articles, dropped := r.processor.Process(items)
	if dropped.MissingTitle+dropped.MissingURL > 0 {
		log.Warn("skipped malformed items",
			"stage", "normalize",
			"missing_title", dropped.MissingTitle,
			"missing_url", dropped.MissingURL)
	}

	if job.Filter != nil {
		articles, sr.Verified = job.Filter.Apply(articles)
		if !sr.Verified {
			log.Warn("too few reputable articles, using unfiltered fallback",
				"stage", "trust",
				"min_trusted", job.Filter.MinTrusted,
				"kept", len(articles))
		}
	}

	articles, sr.Duplicates = seen.Filter(articles)
	sr.Kept = len(articles)
	log.Info("source done", "fetched", sr.Fetched, "kept", sr.Kept, "duplicates", sr.Duplicates)
	return sr, articles
}
