package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/andrescamacho/colonycraft-go/internal/application/common"
	"github.com/andrescamacho/colonycraft-go/internal/infrastructure/config"
)

// Logger adapts slog to the application's common.Logger port
type Logger struct {
	slog   *slog.Logger
	closer io.Closer
}

var _ common.Logger = (*Logger)(nil)

// New builds a logger from the logging section of the config.
// Close must be called when output is a file.
func New(cfg config.LoggingConfig) (*Logger, error) {
	var (
		out    io.Writer
		closer io.Closer
	)
	switch cfg.Output {
	case "", "stdout":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	case "file":
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, f
	default:
		return nil, fmt.Errorf("unknown log output %q", cfg.Output)
	}

	logger, err := NewWithWriter(out, cfg.Format, cfg.Level)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, err
	}
	logger.closer = closer
	return logger, nil
}

// NewWithWriter builds a logger writing to w in the given format
func NewWithWriter(w io.Writer, format, level string) (*Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "", "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return &Logger{slog: slog.New(handler)}, nil
}

// Log implements common.Logger. Metadata keys are emitted in sorted order.
func (l *Logger) Log(level, message string, metadata map[string]interface{}) {
	lvl, err := parseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	l.slog.LogAttrs(context.Background(), lvl, message, attrs(metadata)...)
}

// Close releases the underlying file, if any
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(level) {
	case common.LevelDebug:
		return slog.LevelDebug, nil
	case "", common.LevelInfo:
		return slog.LevelInfo, nil
	case common.LevelWarn, "WARNING":
		return slog.LevelWarn, nil
	case common.LevelError:
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
}

func attrs(metadata map[string]interface{}) []slog.Attr {
	if len(metadata) == 0 {
		return nil
	}
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]slog.Attr, len(keys))
	for i, k := range keys {
		out[i] = slog.Any(k, metadata[k])
	}
	return out
}

// Tee fans every entry out to all loggers
func Tee(loggers ...common.Logger) common.Logger {
	return tee(loggers)
}

type tee []common.Logger

func (t tee) Log(level, message string, metadata map[string]interface{}) {
	for _, l := range t {
		if l != nil {
			l.Log(level, message, metadata)
		}
	}
}
