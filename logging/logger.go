// Package logging provides a tiny abstraction over slog so downstream code
// can depend on a minimal interface (Logger) while allowing users to plug
// any structured logger. It also offers a richer BotLogger with contextual
// helpers (component, conversation) and domain specific logging helpers for
// model calls and collaborator notifications.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger defines the minimal logging interface for the assistant. This
// allows callers to provide their own implementation or use the built-in
// adapters.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// Config configures construction of a BotLogger.
type Config struct {
	Level  slog.Level
	Format string // json or text
	Output io.Writer
}

// DefaultConfig returns a baseline JSON info level configuration.
func DefaultConfig() *Config {
	return &Config{Level: slog.LevelInfo, Format: "json", Output: os.Stdout}
}

// BotLogger wraps slog.Logger adding contextual cloning helpers and domain
// convenience methods. Cheap to copy via With* methods.
type BotLogger struct {
	logger         *slog.Logger
	component      string
	conversationID string
}

// New builds a BotLogger from a config (or defaults if nil).
func New(cfg *Config) *BotLogger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	opts := &slog.HandlerOptions{Level: cfg.Level}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(cfg.Output, opts)
	} else {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	}
	return &BotLogger{logger: slog.New(handler)}
}

// WithComponent sets the logical component (engine, temporal, transport...).
func (l *BotLogger) WithComponent(c string) *BotLogger {
	nl := *l
	nl.component = c
	return &nl
}

// WithConversation attaches the conversation identifier.
func (l *BotLogger) WithConversation(id string) *BotLogger {
	nl := *l
	nl.conversationID = id
	return &nl
}

func (l *BotLogger) attrs(args []any) []any {
	out := make([]any, 0, len(args)+4)
	if l.component != "" {
		out = append(out, "component", l.component)
	}
	if l.conversationID != "" {
		out = append(out, "conversation_id", l.conversationID)
	}
	return append(out, args...)
}

// Debug logs at debug level.
func (l *BotLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, l.attrs(args)...) }

// Info logs at info level.
func (l *BotLogger) Info(msg string, args ...any) { l.logger.Info(msg, l.attrs(args)...) }

// Warn logs at warn level.
func (l *BotLogger) Warn(msg string, args ...any) { l.logger.Warn(msg, l.attrs(args)...) }

// Error logs at error level.
func (l *BotLogger) Error(msg string, args ...any) { l.logger.Error(msg, l.attrs(args)...) }

// LogModelCall records model call latency and success.
func (l *BotLogger) LogModelCall(model string, dur time.Duration, err error) {
	args := l.attrs([]any{"model", model, "duration", dur})
	if err != nil {
		l.logger.LogAttrs(context.Background(), slog.LevelError, "model call failed",
			slog.Any("error", err), argsToAttr(args))
		return
	}
	l.logger.LogAttrs(context.Background(), slog.LevelInfo, "model call completed", argsToAttr(args))
}

func argsToAttr(args []any) slog.Attr {
	return slog.Group("call", args...)
}

// NoOpLogger discards all log messages. Useful for testing or when logging
// is disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}
