package observability

import (
	"context"
	"io"
	"log/slog"

	"github.com/wudi/textpdf/ir/raw"
)

type slogLogger struct{ l *slog.Logger }

// NewSlogLogger adapts a *slog.Logger to Logger.
func NewSlogLogger(l *slog.Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return slogLogger{l: l}
}

// NewTextLogger logs human-readable lines to w at the given level.
func NewTextLogger(w io.Writer, level slog.Level) Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func attrs(fields []Field) []any {
	out := make([]any, 0, len(fields))
	for _, f := range fields {
		out = append(out, slog.Any(f.Key(), f.Value()))
	}
	return out
}

func (s slogLogger) log(level slog.Level, msg string, fields []Field) {
	s.l.Log(context.Background(), level, msg, attrs(fields)...)
}

func (s slogLogger) Debug(msg string, fields ...Field) { s.log(slog.LevelDebug, msg, fields) }
func (s slogLogger) Info(msg string, fields ...Field)  { s.log(slog.LevelInfo, msg, fields) }
func (s slogLogger) Warn(msg string, fields ...Field)  { s.log(slog.LevelWarn, msg, fields) }
func (s slogLogger) Error(msg string, fields ...Field) { s.log(slog.LevelError, msg, fields) }
func (s slogLogger) With(fields ...Field) Logger {
	return slogLogger{l: s.l.With(attrs(fields)...)}
}

// WriteLogger reports every serialized object at debug level. It satisfies
// writer.Interceptor.
type WriteLogger struct {
	Log Logger
}

func (w WriteLogger) BeforeWrite(ref raw.ObjectRef, obj raw.Object) error { return nil }

func (w WriteLogger) AfterWrite(ref raw.ObjectRef, obj raw.Object, n int64) error {
	if w.Log == nil {
		return nil
	}
	w.Log.Debug("object written",
		Stringer("ref", ref),
		String("type", obj.Type()),
		Int64("bytes", n),
	)
	return nil
}
