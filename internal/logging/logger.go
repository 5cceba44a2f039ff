package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// Config holds logger configuration
type Config struct {
	Level      LogLevel
	OutputFile string // empty = stderr only
	MaxSize    int64  // bytes before rotation (default: 10MB)
	MaxBackups int    // rotated files kept (default: 3)
	JSONFormat bool
	AddSource  bool
}

// Logger wraps slog.Logger with file output and rotation
type Logger struct {
	slog   *slog.Logger
	config Config
	file   *os.File
	mu     sync.Mutex
}

var (
	globalMu     sync.Mutex
	globalLogger *Logger
)

// Initialize configures the global logger and installs it as slog's default,
// so component loggers built with slog.Default().With(...) inherit it.
func Initialize(config Config) error {
	logger, err := NewLogger(config, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger != nil {
		globalLogger.Close()
	}
	globalLogger = logger
	slog.SetDefault(logger.slog)
	return nil
}

// NewLogger creates a logger writing to console and, optionally, a file
func NewLogger(config Config, console io.Writer) (*Logger, error) {
	if config.MaxSize == 0 {
		config.MaxSize = 10 * 1024 * 1024
	}
	if config.MaxBackups == 0 {
		config.MaxBackups = 3
	}

	logger := &Logger{config: config}

	writers := []io.Writer{console}
	if config.OutputFile != "" {
		dir := filepath.Dir(config.OutputFile)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
		if err := logger.rotateIfNeeded(); err != nil {
			return nil, fmt.Errorf("failed to rotate logs: %w", err)
		}

		file, err := os.OpenFile(config.OutputFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", config.OutputFile, err)
		}
		logger.file = file
		writers = append(writers, file)
	}

	out := io.MultiWriter(writers...)
	opts := &slog.HandlerOptions{
		Level:     config.Level.slogLevel(),
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	if config.JSONFormat {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	logger.slog = slog.New(handler)
	return logger, nil
}

func (l *Logger) rotateIfNeeded() error {
	info, err := os.Stat(l.config.OutputFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat log file: %w", err)
	}
	if info.Size() < l.config.MaxSize {
		return nil
	}

	for i := l.config.MaxBackups - 1; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", l.config.OutputFile, i)
		newPath := fmt.Sprintf("%s.%d", l.config.OutputFile, i+1)
		if _, err := os.Stat(oldPath); err == nil {
			os.Rename(oldPath, newPath)
		}
	}

	if err := os.Rename(l.config.OutputFile, l.config.OutputFile+".1"); err != nil {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}
	return nil
}

func (lv LogLevel) slogLevel() slog.Level {
	switch lv {
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

// ParseLevel maps "debug", "info", "warn" and "error" to a LogLevel
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG, nil
	case "", "info":
		return INFO, nil
	case "warn", "warning":
		return WARN, nil
	case "error":
		return ERROR, nil
	}
	return INFO, fmt.Errorf("unknown log level %q", s)
}

// Slog exposes the underlying slog.Logger
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// With returns a new logger with additional context
func (l *Logger) With(args ...any) *Logger {
	return &Logger{slog: l.slog.With(args...), config: l.config}
}

// Close closes the log file if one is open
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Component returns a logger tagged with the component name
func Component(name string) *slog.Logger {
	return slog.Default().With("component", name)
}

// Close closes the global logger
func Close() error {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger != nil {
		return globalLogger.Close()
	}
	return nil
}

// GetLogFilePath returns the current log file path
func GetLogFilePath() string {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger != nil {
		return globalLogger.config.OutputFile
	}
	return ""
}

// DefaultConfig returns a file-backed configuration under dir.
// Human-readable in debug, JSON otherwise.
func DefaultConfig(dir string, debugMode bool) Config {
	level := INFO
	if debugMode {
		level = DEBUG
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return Config{
		Level:      level,
		OutputFile: filepath.Join(dir, fmt.Sprintf("orgpulse_%s.log", timestamp)),
		MaxSize:    10 * 1024 * 1024,
		MaxBackups: 3,
		JSONFormat: !debugMode,
		AddSource:  debugMode,
	}
}

// ConsoleConfig logs to stderr only
func ConsoleConfig(level LogLevel) Config {
	return Config{Level: level}
}
