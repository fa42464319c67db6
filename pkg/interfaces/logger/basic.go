package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
)

// BasicLogger writes plain log lines to an io.Writer. It exists so the CLI
// and examples have something to print with; hosts should wire their own
// Logger implementation.
type BasicLogger struct {
	mu     *sync.Mutex
	out    io.Writer
	fields map[string]any
}

var _ Logger = (*BasicLogger)(nil)

// New returns a basic logger that writes to stdout.
func New() *BasicLogger {
	return &BasicLogger{
		mu:     &sync.Mutex{},
		out:    os.Stdout,
		fields: make(map[string]any),
	}
}

// NewWriter returns a basic logger targeting the given writer.
func NewWriter(w io.Writer) *BasicLogger {
	l := New()
	l.out = w
	return l
}

// With returns a logger that includes the fields on every line.
func (l *BasicLogger) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return l
	}
	next := l.clone()
	for _, f := range fields {
		next.fields[f.Key] = f.Value
	}
	return next
}

func (l *BasicLogger) Debug(msg string, fields ...Field) { l.log("DEBUG", msg, fields...) }
func (l *BasicLogger) Info(msg string, fields ...Field)  { l.log("INFO", msg, fields...) }
func (l *BasicLogger) Warn(msg string, fields ...Field)  { l.log("WARN", msg, fields...) }
func (l *BasicLogger) Error(msg string, fields ...Field) { l.log("ERROR", msg, fields...) }

func (l *BasicLogger) log(level, msg string, fields ...Field) {
	line := fmt.Sprintf("[%s] %s", level, msg)
	if rendered := l.render(fields); rendered != "" {
		line += " " + rendered
	}
	l.mu.Lock()
	fmt.Fprintf(l.out, "%s\n", line)
	l.mu.Unlock()
}

func (l *BasicLogger) render(fields []Field) string {
	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}
	if len(merged) == 0 {
		return ""
	}
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, fmt.Sprint(merged[k])))
	}
	return strings.Join(parts, " ")
}

func (l *BasicLogger) clone() *BasicLogger {
	out := &BasicLogger{
		mu:     l.mu,
		out:    l.out,
		fields: make(map[string]any, len(l.fields)),
	}
	for k, v := range l.fields {
		out.fields[k] = v
	}
	return out
}
