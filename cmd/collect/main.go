package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/LJTian/NeuralPulse/internal/config"
	"github.com/LJTian/NeuralPulse/internal/logger"
	"github.com/LJTian/NeuralPulse/internal/pipeline"
	"github.com/LJTian/NeuralPulse/internal/processor"
	"github.com/LJTian/NeuralPulse/internal/storage"
)

// 只执行一轮采集任务后退出，由外部 cron 或 CI 定时触发
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info").Error("load config failed", "err", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)
	log.Debug("config loaded", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := pipeline.New(
		pipeline.Jobs(cfg, log),
		processor.NewSimpleProcessor(cfg.DescriptionMaxLen),
		storage.NewFileStore(cfg.OutputPath),
		log,
		pipeline.Options{Title: cfg.Title, Tagline: cfg.Tagline},
	)

	res, err := runner.Run(ctx)
	if err != nil {
		log.Error("collect job failed", "err", err)
		stop()
		os.Exit(1)
	}

	fmt.Printf("Pulse Protocol Updated: %d AI signals intercepted.\n", res.Total)
}
