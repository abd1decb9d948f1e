// Package logger provides the structured diagnostic logger used across
// taskboard. Output goes to stderr so command output on stdout stays clean.
package logger

import (
	"io"
	"os"
	"sync/atomic"

	charmlog "github.com/charmbracelet/log"
)

// Logger is the structured logging interface used by services.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
	With(keyvals ...any) Logger
	SetLevel(level string)
}

// Config holds the logger configuration.
type Config struct {
	Level  string
	JSON   bool
	Output io.Writer
}

// charmLogger gates on a level shared with every logger derived through
// With, so SetLevel on the root applies everywhere.
type charmLogger struct {
	l     *charmlog.Logger
	level *atomic.Int64
}

// New creates a Logger writing to cfg.Output (stderr when nil).
func New(cfg Config) Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	l := charmlog.NewWithOptions(out, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           charmlog.DebugLevel,
		Prefix:          "tb",
	})
	if cfg.JSON {
		l.SetFormatter(charmlog.JSONFormatter)
	} else {
		l.SetFormatter(charmlog.TextFormatter)
	}
	level := new(atomic.Int64)
	level.Store(int64(ParseLevel(cfg.Level)))
	return &charmLogger{l: l, level: level}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return New(Config{Level: "error", Output: io.Discard})
}

// ParseLevel maps a config level name onto a charm level. Unknown names
// fall back to warn.
func ParseLevel(level string) charmlog.Level {
	switch level {
	case "debug":
		return charmlog.DebugLevel
	case "info":
		return charmlog.InfoLevel
	case "error":
		return charmlog.ErrorLevel
	default:
		return charmlog.WarnLevel
	}
}

func (c *charmLogger) enabled(level charmlog.Level) bool {
	return int64(level) >= c.level.Load()
}

func (c *charmLogger) Debug(msg string, keyvals ...any) {
	if c.enabled(charmlog.DebugLevel) {
		c.l.Debug(msg, keyvals...)
	}
}

func (c *charmLogger) Info(msg string, keyvals ...any) {
	if c.enabled(charmlog.InfoLevel) {
		c.l.Info(msg, keyvals...)
	}
}

func (c *charmLogger) Warn(msg string, keyvals ...any) {
	if c.enabled(charmlog.WarnLevel) {
		c.l.Warn(msg, keyvals...)
	}
}

func (c *charmLogger) Error(msg string, keyvals ...any) {
	if c.enabled(charmlog.ErrorLevel) {
		c.l.Error(msg, keyvals...)
	}
}

func (c *charmLogger) With(keyvals ...any) Logger {
	return &charmLogger{l: c.l.With(keyvals...), level: c.level}
}

// SetLevel changes the level of this logger and of every logger sharing
// its root.
func (c *charmLogger) SetLevel(level string) {
	c.level.Store(int64(ParseLevel(level)))
}
