package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/LJTian/NeuralPulse/internal/processor"
)

// UpdatedLayout 文档 updated 字段的时间格式
const UpdatedLayout = "2006-01-02 15:04:05 UTC"

// ErrNotFound 首次采集完成前文件不存在
var ErrNotFound = errors.New("document not found")

// Entry 前端看到的一条新闻
type Entry struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

type Document struct {
	Title   string  `json:"title"`
	Tagline string  `json:"tagline"`
	Updated string  `json:"updated"`
	News    []Entry `json:"news"`
}

// NewDocument 按现有顺序包装文章并打上时间戳
func NewDocument(title, tagline string, now time.Time, articles []processor.Article) Document {
	news := make([]Entry, 0, len(articles))
	for _, a := range articles {
		news = append(news, Entry{
			Title:       toValidUTF8(a.Title),
			Description: toValidUTF8(a.Description),
			URL:         a.URL,
		})
	}
	return Document{
		Title:   title,
		Tagline: tagline,
		Updated: now.UTC().Format(UpdatedLayout),
		News:    news,
	}
}

// toValidUTF8 替换部分订阅源中的非法 UTF-8 字节
func toValidUTF8(s string) string {
	return strings.ToValidUTF8(s, "�")
}

// FileStore 把文档保存在单个 JSON 文件中，每次 Save 整体覆盖
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

// Save 以四空格缩进序列化并覆盖写入
func (s *FileStore) Save(doc Document) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

func (s *FileStore) Load() (Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Document{}, fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return Document{}, fmt.Errorf("failed to read document: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}
