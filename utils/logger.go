package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
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

// ParseLogLevel converts a config string to a LogLevel, defaulting to INFO
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "trace":
		return DEBUG
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case DEBUG:
		return zerolog.DebugLevel
	case WARN:
		return zerolog.WarnLevel
	case ERROR:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Logger is a leveled printf-style logger backed by zerolog
type Logger struct {
	zl    zerolog.Logger
	level LogLevel
}

// NewLogger creates a new logger writing JSON lines to stdout
func NewLogger(level LogLevel) *Logger {
	return NewLoggerTo(os.Stdout, level, false)
}

// NewLoggerTo creates a logger writing to out. pretty switches to
// zerolog's console writer.
func NewLoggerTo(out io.Writer, level LogLevel, pretty bool) *Logger {
	if pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	l := &Logger{zl: zerolog.New(out).With().Timestamp().Logger()}
	l.SetLevel(level)
	return l
}

func (l *Logger) event(level LogLevel) *zerolog.Event {
	switch level {
	case DEBUG:
		return l.zl.Debug()
	case WARN:
		return l.zl.Warn()
	case ERROR:
		return l.zl.Error()
	default:
		return l.zl.Info()
	}
}

func (l *Logger) log(level LogLevel, format string, v ...interface{}) {
	if level < l.level {
		return
	}
	l.event(level).Msg(fmt.Sprintf(format, v...))
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	l.log(DEBUG, format, v...)
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	l.log(INFO, format, v...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, v ...interface{}) {
	l.log(WARN, format, v...)
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.log(ERROR, format, v...)
}

// WithFields returns a new logger with the specified fields
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return &Logger{
		zl:    l.zl.With().Fields(fields).Logger(),
		level: l.level,
	}
}

// WithField returns a new logger with a single field added
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// SetLevel changes the log level
func (l *Logger) SetLevel(level LogLevel) {
	l.level = level
	l.zl = l.zl.Level(level.zerolog())
}

// Zerolog exposes the underlying logger. It is also an io.Writer, which is
// how the request logger middleware writes access lines.
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zl
}

// Global logger instance
var Log = NewLogger(INFO)

// ConfigureLog replaces the global logger. Called once from main.
func ConfigureLog(level string, pretty bool) {
	Log = NewLoggerTo(os.Stdout, ParseLogLevel(level), pretty)
}
