package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel 把级别名映射为 slog 级别，未知名称按 info 处理
func ParseLevel(level string) slog.Level {
	lvl, _ := lookupLevel(level)
	return lvl
}

// KnownLevel 报告 level 是否是 ParseLevel 认识的级别名
func KnownLevel(level string) bool {
	_, ok := lookupLevel(level)
	return ok
}

func lookupLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// New 创建输出到标准输出的文本日志
func New(level string) *slog.Logger {
	return NewWithWriter(level, os.Stdout)
}

func NewWithWriter(level string, w io.Writer) *slog.Logger {
	lvl := new(slog.LevelVar)
	lvl.Set(ParseLevel(level))

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler)
}

// Discard 丢弃所有日志，测试用
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
