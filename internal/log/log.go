// Package log is ringside's structured debug log.
// Entries carry a level, a category and key=value fields, are appended to a
// file, and are fanned out to subscribers so the UI can show them live.
// Logging is off until Init is called (--debug or RINGSIDE_DEBUG).
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/zjrosen/ringside/internal/pubsub"
)

// DebugEnv enables debug logging when set to a non-empty value.
const DebugEnv = "RINGSIDE_DEBUG"

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps "debug", "info", "warn" and "error" to a Level.
// Anything else is LevelDebug.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelDebug
	}
}

// Category groups related log messages.
type Category string

const (
	CatDB      Category = "db"      // sqlite access and migrations
	CatConfig  Category = "config"  // Configuration loading/saving
	CatWatcher Category = "watcher" // Database file watcher
	CatUI      Category = "ui"      // bubbletea model updates
	CatTree    Category = "tree"    // Tree building and navigation
	CatCache   Category = "cache"   // Registration cache
	CatImport  Category = "import"  // Registration file import
	CatTrace   Category = "trace"   // Tracing provider lifecycle
)

// Logger writes formatted entries to w and publishes them on broker.
type Logger struct {
	mu       sync.Mutex
	w        io.Writer
	closer   io.Closer
	enabled  bool
	minLevel Level
	broker   *pubsub.Broker[string]
	now      func() time.Time
}

var (
	stateMu       sync.RWMutex
	defaultLogger *Logger
)

// Init starts logging to the file at path, appending to it.
// The returned function closes the file and disables logging.
func Init(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // G304: user supplied debug log path
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	install(newLogger(f, f))
	return shutdown, nil
}

// InitWriter starts logging to w. Used by tests and by commands that log to
// stderr.
func InitWriter(w io.Writer) func() {
	install(newLogger(w, nil))
	return shutdown
}

func newLogger(w io.Writer, c io.Closer) *Logger {
	return &Logger{
		w:        w,
		closer:   c,
		enabled:  true,
		minLevel: LevelDebug,
		broker:   pubsub.NewBroker[string](),
		now:      time.Now,
	}
}

func install(l *Logger) {
	stateMu.Lock()
	old := defaultLogger
	defaultLogger = l
	stateMu.Unlock()
	if old != nil {
		old.close()
	}
}

func shutdown() {
	stateMu.Lock()
	old := defaultLogger
	defaultLogger = nil
	stateMu.Unlock()
	if old != nil {
		old.close()
	}
}

func (l *Logger) close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = false
	l.broker.Close()
	if l.closer != nil {
		_ = l.closer.Close()
		l.closer = nil
	}
}

func current() *Logger {
	stateMu.RLock()
	defer stateMu.RUnlock()
	return defaultLogger
}

// SetEnabled toggles logging on/off.
func SetEnabled(enabled bool) {
	if l := current(); l != nil {
		l.mu.Lock()
		l.enabled = enabled
		l.mu.Unlock()
	}
}

// SetMinLevel drops entries below level.
func SetMinLevel(level Level) {
	if l := current(); l != nil {
		l.mu.Lock()
		l.minLevel = level
		l.mu.Unlock()
	}
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) {
	write(LevelDebug, cat, msg, fields...)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	write(LevelInfo, cat, msg, fields...)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	write(LevelWarn, cat, msg, fields...)
}

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) {
	write(LevelError, cat, msg, fields...)
}

// ErrorErr logs an error with the error value appended as the "error" field.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	write(LevelError, cat, msg, fields...)
}

func write(level Level, cat Category, msg string, fields ...any) {
	l := current()
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled || level < l.minLevel {
		return
	}

	entry := format(l.now(), level, cat, msg, fields)
	if l.w != nil {
		_, _ = io.WriteString(l.w, entry)
	}
	l.broker.Publish(pubsub.LoggedEvent, entry)
}

// format renders one line:
//
//	2025-12-06T10:45:00 [ERROR] [db] message key=value key2=value2
func format(ts time.Time, level Level, cat Category, msg string, fields []any) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s] [%s] %s", ts.Format("2006-01-02T15:04:05"), level, cat, msg)
	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(&sb, " %v=%v", fields[i], fields[i+1])
	}
	if len(fields)%2 != 0 {
		fmt.Fprintf(&sb, " %v=<missing>", fields[len(fields)-1])
	}
	sb.WriteByte('\n')
	return sb.String()
}

// LogEvent is a published log entry.
type LogEvent = pubsub.Event[string]

// LogListener delivers log entries to a bubbletea Update loop.
type LogListener = pubsub.ContinuousListener[string]

// NewListener subscribes to log entries until ctx is cancelled.
// Returns nil when logging is not initialized.
func NewListener(ctx context.Context) *LogListener {
	l := current()
	if l == nil {
		return nil
	}
	return pubsub.NewContinuousListener[string](ctx, l.broker)
}
