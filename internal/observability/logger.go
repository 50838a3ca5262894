package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"persona-review/internal/config"
)

// Logger is a leveled key/value logger. A nil *Logger discards everything.
type Logger struct {
	l      *slog.Logger
	closer io.Closer
}

func NewLogger(cfg *config.Config) *Logger {
	var out io.Writer = os.Stderr
	var closer io.Closer

	if cfg.LogFile != "" {
		rotating := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    15, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		out, closer = rotating, rotating
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}

	l := slog.New(h)
	if cfg.Env != "" {
		l = l.With("env", cfg.Env)
	}
	return &Logger{l: l, closer: closer}
}

// NewWriterLogger logs text records at debug level and above to w.
func NewWriterLogger(w io.Writer) *Logger {
	return &Logger{l: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))}
}

func (lg *Logger) Debug(msg string, kv ...any) {
	if lg != nil {
		lg.l.Debug(msg, kv...)
	}
}

func (lg *Logger) Info(msg string, kv ...any) {
	if lg != nil {
		lg.l.Info(msg, kv...)
	}
}

func (lg *Logger) Warn(msg string, kv ...any) {
	if lg != nil {
		lg.l.Warn(msg, kv...)
	}
}

func (lg *Logger) Error(msg string, kv ...any) {
	if lg != nil {
		lg.l.Error(msg, kv...)
	}
}

func (lg *Logger) With(kv ...any) *Logger {
	if lg == nil {
		return nil
	}
	return &Logger{l: lg.l.With(kv...), closer: lg.closer}
}

// Close flushes the rotating log file, if any.
func (lg *Logger) Close() error {
	if lg == nil || lg.closer == nil {
		return nil
	}
	return lg.closer.Close()
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
