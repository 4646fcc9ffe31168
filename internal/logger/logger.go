package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var globalLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

// LogLevel represents different log levels
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a level name to a LogLevel, defaulting to info.
func ParseLevel(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// String returns the level name
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config holds logger configuration
type Config struct {
	Level      LogLevel
	OutputPath string // file path, "stderr", or "" / "stdout"
	Format     string // "json" or "text"
}

var output io.Closer

// InitWithConfig initializes the global structured logger
func InitWithConfig(config Config) error {
	var w io.Writer = os.Stdout
	switch config.OutputPath {
	case "", "stdout":
	case "stderr":
		w = os.Stderr
	default:
		if err := os.MkdirAll(filepath.Dir(config.OutputPath), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(config.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		output = f
	}

	globalLogger = New(w, config)
	slog.SetDefault(globalLogger)
	return nil
}

// New builds a logger writing to w without touching the global one.
func New(w io.Writer, config Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     config.Level.slogLevel(),
		AddSource: config.Level == LevelDebug,
	}
	if config.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Close closes the log file if one was opened
func Close() error {
	if output == nil {
		return nil
	}
	err := output.Close()
	output = nil
	return err
}

// Component returns a logger tagged with a component name.
func Component(name string) *slog.Logger {
	return globalLogger.With("component", name)
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	globalLogger.Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	globalLogger.Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	globalLogger.Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	globalLogger.Error(msg, args...)
}

// Fatal logs an error message and exits
func Fatal(msg string, args ...any) {
	globalLogger.Error(msg, args...)
	_ = Close()
	os.Exit(1)
}

