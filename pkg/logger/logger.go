package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"

	"github.com/dreschagin/support-dashboard/internal/application/port"
)

// Logger пишет структурированные логи в формате key=value (tint) или JSON
// и при необходимости дублирует каждую запись во внешний LogPublisher.
type Logger struct {
	slog  *slog.Logger
	level *slog.LevelVar

	mu        sync.RWMutex
	publisher port.LogPublisher
}

// New создает logger с текстовым выводом в stdout
func New(level string) *Logger {
	return NewWithFormat(level, "text", os.Stdout)
}

// NewWithFormat создает logger с указанным форматом ("text" или "json")
func NewWithFormat(level, format string, w io.Writer) *Logger {
	if w == nil {
		w = os.Stdout
	}

	lv := new(slog.LevelVar)
	lv.Set(parseLevel(level))

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lv})
	} else {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      lv,
			TimeFormat: time.DateTime,
			NoColor:    !isTerminal(w),
		})
	}

	return &Logger{
		slog:  slog.New(handler),
		level: lv,
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// SetLogPublisher подключает внешний приемник логов (CloudWatch Logs)
func (l *Logger) SetLogPublisher(publisher port.LogPublisher) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.publisher = publisher
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	l.log(slog.LevelDebug, msg, args...)
}

func (l *Logger) Info(msg string, args ...interface{}) {
	l.log(slog.LevelInfo, msg, args...)
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	l.log(slog.LevelWarn, msg, args...)
}

func (l *Logger) Error(msg string, err error, args ...interface{}) {
	if err != nil {
		args = append(args, "error", err.Error())
	}
	l.log(slog.LevelError, msg, args...)
}

func (l *Logger) log(level slog.Level, msg string, args ...interface{}) {
	if !l.slog.Enabled(context.Background(), level) {
		return
	}

	l.slog.Log(context.Background(), level, msg, args...)

	l.mu.RLock()
	publisher := l.publisher
	l.mu.RUnlock()
	if publisher == nil {
		return
	}

	// Ошибки публикации не логируем, иначе получим рекурсию
	_ = publisher.Publish(context.Background(), port.LogEntry{
		Timestamp: time.Now(),
		Level:     publisherLevel(level),
		Message:   msg,
		Fields:    fieldsFromArgs(args),
	})
}

func publisherLevel(level slog.Level) port.LogLevel {
	switch {
	case level >= slog.LevelError:
		return port.LogLevelError
	case level >= slog.LevelWarn:
		return port.LogLevelWarn
	case level >= slog.LevelInfo:
		return port.LogLevelInfo
	default:
		return port.LogLevelDebug
	}
}

func fieldsFromArgs(args []interface{}) map[string]interface{} {
	if len(args) == 0 {
		return nil
	}

	fields := make(map[string]interface{}, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		fields[fmt.Sprint(args[i])] = args[i+1]
	}
	return fields
}
