package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

type console struct {
	w        io.Writer
	clock    func() time.Time
	minLevel Level
	mu       *sync.Mutex
	fields   map[string]any
}

// NewConsole returns a logger writing one "time LEVEL msg key=value" line per
// entry to w (stderr when nil), dropping entries below minLevel.
func NewConsole(w io.Writer, minLevel Level) Logger {
	if w == nil {
		w = os.Stderr
	}

	return &console{w: w, clock: time.Now, minLevel: minLevel, mu: &sync.Mutex{}}
}

func (c *console) Debug(msg string, args ...any) { c.log(LevelDebug, msg, args...) }
func (c *console) Info(msg string, args ...any)  { c.log(LevelInfo, msg, args...) }
func (c *console) Warn(msg string, args ...any)  { c.log(LevelWarn, msg, args...) }
func (c *console) Error(msg string, args ...any) { c.log(LevelError, msg, args...) }

func (c *console) WithFields(fields map[string]any) Logger {
	if len(fields) == 0 {
		return c
	}

	merged := make(map[string]any, len(c.fields)+len(fields))
	for k, v := range c.fields {
		merged[k] = v
	}

	for k, v := range fields {
		merged[k] = v
	}

	return &console{w: c.w, clock: c.clock, minLevel: c.minLevel, mu: c.mu, fields: merged}
}

func (c *console) log(level Level, msg string, args ...any) {
	if level < c.minLevel {
		return
	}

	fields := make(map[string]any, len(c.fields)+len(args)/2)
	for k, v := range c.fields {
		fields[k] = v
	}

	for i := 0; i < len(args); i += 2 {
		if i == len(args)-1 {
			fields["!BADKEY"] = args[i]
			break
		}

		fields[fmt.Sprint(args[i])] = args[i+1]
	}

	entry := formatEntry(c.clock().UTC(), level.String(), msg, fields)

	c.mu.Lock()
	defer c.mu.Unlock()

	_, _ = io.WriteString(c.w, entry+"\n")
}

func formatEntry(ts time.Time, level, msg string, fields map[string]any) string {
	var b strings.Builder

	b.WriteString(ts.Format(time.RFC3339))
	b.WriteByte(' ')
	b.WriteString(level)
	b.WriteByte(' ')
	b.WriteString(msg)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(formatValue(fields[k]))
	}

	return b.String()
}

func formatValue(value any) string {
	var s string

	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		s = v
	case error:
		s = v.Error()
	default:
		s = fmt.Sprint(v)
	}

	if len(s) == 0 {
		return `""`
	}

	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' {
			return strconv.Quote(s)
		}
	}

	return s
}
