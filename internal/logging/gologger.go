package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	glog "github.com/goliatone/go-logger/glog"
)

const loggerName = "mdinclude"

// newHandlerLogger renders entries through slog handlers bound to w: the
// stdlib JSON handler for json and go-logger's color console handler for
// pretty. Entries never reach stdout unless w is stdout.
func newHandlerLogger(format string, level Level, w io.Writer) (Logger, error) {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: slogLevel(level), ReplaceAttr: replaceAttr}

	var handler slog.Handler

	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	case FormatPretty:
		handler = glog.NewColorConsoleHandler(w, opts)
	default:
		return nil, fmt.Errorf("logging: unsupported handler format %q", format)
	}

	handler = handler.WithAttrs([]slog.Attr{slog.String("logger", loggerName)})

	return &handlerLogger{inner: slog.New(handler)}, nil
}

func slogLevel(level Level) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// replaceAttr mirrors go-logger's own record layout: "ts" for the time and
// lower-case level labels.
func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		a.Key = "ts"
	case slog.LevelKey:
		level, ok := a.Value.Any().(slog.Level)
		if !ok {
			return a
		}

		label, known := glog.CustomLevels[level]
		if !known {
			label = level.String()
		}

		a.Value = slog.StringValue(strings.ToLower(label))
	}

	return a
}

type handlerLogger struct {
	inner *slog.Logger
}

func (l *handlerLogger) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }
func (l *handlerLogger) Info(msg string, args ...any)  { l.inner.Info(msg, args...) }
func (l *handlerLogger) Warn(msg string, args ...any)  { l.inner.Warn(msg, args...) }
func (l *handlerLogger) Error(msg string, args ...any) { l.inner.Error(msg, args...) }

// WithFields attaches fields in key order so entries render the same way
// on every run.
func (l *handlerLogger) WithFields(fields map[string]any) Logger {
	if len(fields) == 0 {
		return l
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	args := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		args = append(args, k, fields[k])
	}

	return &handlerLogger{inner: l.inner.With(args...)}
}
