package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// VerboseChecker reports whether debug and info lines should be written
type VerboseChecker interface {
	IsVerbose() bool
}

// Field is a key-value pair appended to a log line
type Field struct {
	Key   string
	Value interface{}
}

// sink is shared by every logger derived from the same root so that
// redirecting output (e.g. while the dashboard owns the terminal) affects
// all components at once.
type sink struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *sink) write(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.WriteString(s.w, line); err != nil {
		// Nothing sensible to do when the log sink itself fails
		_ = err
	}
}

// Logger writes component-tagged lines to stderr
type Logger struct {
	component      string
	verboseChecker VerboseChecker
	out            *sink
}

// New creates a logger for a component
func New(component string, verboseChecker VerboseChecker) *Logger {
	return &Logger{
		component:      component,
		verboseChecker: verboseChecker,
		out:            &sink{w: os.Stderr},
	}
}

// NewWithCallback creates a logger whose verbosity is read from a callback
func NewWithCallback(component string, verboseCheck func() bool) *Logger {
	return New(component, &callbackChecker{callback: verboseCheck})
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{component: "nop", out: &sink{w: io.Discard}}
}

// WithComponent derives a logger for another component sharing the same output
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		component:      component,
		verboseChecker: l.verboseChecker,
		out:            l.out,
	}
}

// SetOutput redirects this logger and every logger derived from it
func (l *Logger) SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	l.out.mu.Lock()
	l.out.w = w
	l.out.mu.Unlock()
}

type callbackChecker struct {
	callback func() bool
}

func (c *callbackChecker) IsVerbose() bool {
	if c.callback == nil {
		return false
	}
	return c.callback()
}

func (l *Logger) verbose() bool {
	return l.verboseChecker != nil && l.verboseChecker.IsVerbose()
}

// Debug logs only in verbose mode
func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.verbose() {
		l.logWithFields("DEBUG", msg, nil, args...)
	}
}

// Info logs only in verbose mode
func (l *Logger) Info(msg string, args ...interface{}) {
	if l.verbose() {
		l.logWithFields("INFO", msg, nil, args...)
	}
}

// Warn always logs
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.logWithFields("WARN", msg, nil, args...)
}

// Error always logs
func (l *Logger) Error(msg string, args ...interface{}) {
	l.logWithFields("ERROR", msg, nil, args...)
}

// DebugWithFields logs a debug line with fields in verbose mode
func (l *Logger) DebugWithFields(msg string, fields []Field, args ...interface{}) {
	if l.verbose() {
		l.logWithFields("DEBUG", msg, fields, args...)
	}
}

// InfoWithFields logs an info line with fields in verbose mode
func (l *Logger) InfoWithFields(msg string, fields []Field, args ...interface{}) {
	if l.verbose() {
		l.logWithFields("INFO", msg, fields, args...)
	}
}

// WarnWithFields always logs a warning line with fields
func (l *Logger) WarnWithFields(msg string, fields []Field, args ...interface{}) {
	l.logWithFields("WARN", msg, fields, args...)
}

func (l *Logger) logWithFields(level, msg string, fields []Field, args ...interface{}) {
	component := l.component
	if component == "" {
		component = "main"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s [%s] ", time.Now().Format("15:04:05.000"), level, component)
	if len(args) > 0 {
		fmt.Fprintf(&b, msg, args...)
	} else {
		b.WriteString(msg)
	}

	if len(fields) > 0 {
		pairs := make([]string, 0, len(fields))
		for _, field := range fields {
			pairs = append(pairs, fmt.Sprintf("%s=%v", field.Key, field.Value))
		}
		b.WriteString(" [" + strings.Join(pairs, " ") + "]")
	}
	b.WriteString("\n")

	l.out.write(b.String())
}

// F builds an arbitrary field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

func ScanID(id string) Field {
	return Field{Key: "scan_id", Value: id}
}

func File(name string) Field {
	return Field{Key: "file", Value: name}
}

func Duration(d time.Duration) Field {
	return Field{Key: "duration", Value: d.Round(time.Millisecond)}
}

func Error(err error) Field {
	return Field{Key: "error", Value: err}
}
