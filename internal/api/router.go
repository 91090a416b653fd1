package api

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/LJTian/NeuralPulse/internal/storage"
	"github.com/gin-gonic/gin"
)

type Server struct {
	store *storage.FileStore
	log   *slog.Logger
}

func NewServer(store *storage.FileStore, log *slog.Logger) *Server {
	return &Server{store: store, log: log}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)
	r.GET("/data.json", s.rawDocument)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/news", s.listNews)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listNews(c *gin.Context) {
	doc, err := s.store.Load()
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"code":    "not_ready",
				"message": "no collection run has completed yet",
			})
			return
		}
		s.log.Error("load document", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    doc,
	})
}

// rawDocument 原样返回文件，与静态托管行为一致
func (s *Server) rawDocument(c *gin.Context) {
	if _, err := os.Stat(s.store.Path()); errors.Is(err, fs.ErrNotExist) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"code":    "not_ready",
			"message": "no collection run has completed yet",
		})
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.File(s.store.Path())
}
