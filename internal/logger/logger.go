package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Level represents log severity
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case DEBUG:
		return slog.LevelDebug
	case WARN:
		return slog.LevelWarn
	case ERROR:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel converts a string to a Level, defaulting to INFO
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value any
}

// F is a shorthand for creating a Field
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Config holds logger configuration
type Config struct {
	Level      Level  // Minimum log level
	FilePath   string // Path to log file, empty disables file output
	MaxSize    int64  // Max size in bytes before rotation
	MaxAge     int    // Max age in days
	MaxBackups int    // Max number of backup files
	Console    bool   // Mirror entries to stderr
}

// DefaultConfig returns default logger configuration
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	logPath := ""
	if home != "" {
		logPath = filepath.Join(home, ".taskboard", "logs", "taskboard.log")
	}

	return Config{
		Level:      INFO,
		FilePath:   logPath,
		MaxSize:    10 * 1024 * 1024, // 10MB
		MaxAge:     7,
		MaxBackups: 5,
		Console:    false, // stderr would corrupt the TUI
	}
}

// Logger writes leveled, structured entries through a slog text handler
type Logger struct {
	config Config
	slog   *slog.Logger
	file   *rotatingFile
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = Nop()
)

// Init installs a process-wide default logger built from config.
// Only the command layer calls this; components take a *Logger explicitly.
func Init(config Config) error {
	l, err := New(config)
	if err != nil {
		return err
	}
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
	return nil
}

// Default returns the process-wide logger (a no-op logger until Init)
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// New creates a new logger instance
func New(config Config) (*Logger, error) {
	var writers []io.Writer
	l := &Logger{config: config}

	if config.FilePath != "" {
		f, err := openRotating(config)
		if err != nil {
			return nil, err
		}
		l.file = f
		writers = append(writers, f)
	}

	if config.Console {
		writers = append(writers, os.Stderr)
	}

	var out io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		out = writers[0]
	default:
		out = io.MultiWriter(writers...)
	}

	return l.withHandler(out), nil
}

// NewWriter creates a logger that writes to w, mostly useful in tests
func NewWriter(w io.Writer, level Level) *Logger {
	l := &Logger{config: Config{Level: level}}
	return l.withHandler(w)
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return NewWriter(io.Discard, ERROR+1)
}

func (l *Logger) withHandler(w io.Writer) *Logger {
	opts := &slog.HandlerOptions{
		Level:     l.config.Level.slogLevel(),
		AddSource: l.config.Level == DEBUG,
	}
	if l.config.Level > ERROR {
		opts.Level = slog.LevelError + 4
	}
	l.slog = slog.New(slog.NewTextHandler(w, opts))
	return l
}

// WithFields creates a new logger with preset fields
func (l *Logger) WithFields(fields ...Field) *Logger {
	return &Logger{
		config: l.config,
		slog:   l.slog.With(attrs(fields)...),
		file:   l.file,
	}
}

// Named tags every entry with a component name
func (l *Logger) Named(component string) *Logger {
	return l.WithFields(F("component", component))
}

// Enabled reports whether entries at level would be written
func (l *Logger) Enabled(level Level) bool {
	return l.slog.Enabled(context.Background(), level.slogLevel())
}

func (l *Logger) log(level Level, msg string, fields []Field) {
	l.slog.Log(context.Background(), level.slogLevel(), msg, attrs(fields)...)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...Field) {
	l.log(DEBUG, msg, fields)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...Field) {
	l.log(INFO, msg, fields)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...Field) {
	l.log(WARN, msg, fields)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields ...Field) {
	l.log(ERROR, msg, fields)
}

// Close closes the underlying log file, if any
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Config returns the configuration the logger was built from
func (l *Logger) Config() Config {
	return l.config
}

func attrs(fields []Field) []any {
	out := make([]any, 0, len(fields))
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			out = append(out, slog.String(f.Key, err.Error()))
			continue
		}
		out = append(out, slog.Any(f.Key, f.Value))
	}
	return out
}

// Close closes the default logger
func Close() error {
	return Default().Close()
}
