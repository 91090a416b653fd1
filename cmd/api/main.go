package main

import (
	"os"

	"github.com/LJTian/NeuralPulse/internal/api"
	"github.com/LJTian/NeuralPulse/internal/config"
	"github.com/LJTian/NeuralPulse/internal/logger"
	"github.com/LJTian/NeuralPulse/internal/storage"
	"github.com/gin-gonic/gin"
)

// 对外提供 cmd/collect 写出的文档
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info").Error("load config failed", "err", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	r := gin.Default()
	api.NewServer(storage.NewFileStore(cfg.OutputPath), log).RegisterRoutes(r)

	addr := ":" + cfg.AppPort
	log.Info("starting api server", "addr", addr, "document", cfg.OutputPath)
	if err := r.Run(addr); err != nil {
		log.Error("server exit", "err", err)
		os.Exit(1)
	}
}
