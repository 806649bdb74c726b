package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"

	"github.com/opendata-mcp/internal/common/discord"
)

// Logger interface defines the logging methods
type Logger interface {
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Fatal(msg string, fields ...interface{})
}

// logger implementation
type loggerImpl struct {
	zl zerolog.Logger
}

// New creates a new logger instance with the given writers
func New(writers ...io.Writer) Logger {
	multi := io.MultiWriter(writers...)
	zl := zerolog.New(multi).With().Timestamp().Logger()
	return &loggerImpl{zl: zl}
}

// NewFromConfig creates a logger instance with the configured writers,
// level, and the Discord error mirror when a webhook URL is set
func NewFromConfig(cfg LoggerConfig) Logger {
	return &loggerImpl{zl: buildLogger(cfg)}
}

// ConsoleWriter returns a console writer on stderr. Stdout carries the
// MCP stream, so human-readable logs must never go there.
func ConsoleWriter() io.Writer {
	return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
}

// FileWriter returns a file writer with rotation
func FileWriter(path string) io.Writer {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
}

// Info logs an info message
func (l *loggerImpl) Info(msg string, fields ...interface{}) {
	logWithFields(l.zl.Info(), msg, fields...)
}

// Warn logs a warning message
func (l *loggerImpl) Warn(msg string, fields ...interface{}) {
	logWithFields(l.zl.Warn(), msg, fields...)
}

// Error logs an error message
func (l *loggerImpl) Error(msg string, fields ...interface{}) {
	logWithFields(l.zl.Error(), msg, fields...)
}

// Debug logs a debug message
func (l *loggerImpl) Debug(msg string, fields ...interface{}) {
	logWithFields(l.zl.Debug(), msg, fields...)
}

// Fatal logs a fatal message and exits
func (l *loggerImpl) Fatal(msg string, fields ...interface{}) {
	logWithFields(l.zl.Fatal(), msg, fields...)
}

// Logger is the global logger abstraction
var (
	logger     zerolog.Logger
	loggerOnce sync.Once
)

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level           zerolog.Level
	Console         bool
	File            bool
	FilePath        string
	MaxSizeMB       int
	MaxBackups      int
	MaxAgeDays      int
	Compress        bool
	TimeFieldFormat string
	DiscordURL      string
}

// InitLogger initializes the global logger with the given config
func InitLogger(cfg LoggerConfig) {
	loggerOnce.Do(func() {
		logger = buildLogger(cfg)
		zerolog.TimeFieldFormat = cfg.TimeFieldFormat
	})
}

// buildLogger assembles the zerolog logger both the global and the
// instance constructors share: configured writers, level, and the
// Discord error mirror when a webhook is configured
func buildLogger(cfg LoggerConfig) zerolog.Logger {
	var writers []io.Writer

	if cfg.Console {
		consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: cfg.TimeFieldFormat}
		writers = append(writers, consoleWriter)
	}

	if cfg.File {
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		writers = append(writers, fileWriter)
	}

	zl := zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger().Level(cfg.Level)

	if cfg.DiscordURL != "" {
		zl = zl.Hook(discord.NewAlertHook(discord.NewClient(cfg.DiscordURL)))
	}
	return zl
}

// ParseLogLevel maps a config string to a zerolog level, defaulting to info
func ParseLogLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Info logs an info message
func Info(msg string, fields ...interface{}) {
	logWithFields(logger.Info(), msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...interface{}) {
	logWithFields(logger.Warn(), msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...interface{}) {
	logWithFields(logger.Error(), msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...interface{}) {
	logWithFields(logger.Debug(), msg, fields...)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, fields ...interface{}) {
	logWithFields(logger.Fatal(), msg, fields...)
}

// logWithFields adds structured fields to the event
func logWithFields(event *zerolog.Event, msg string, fields ...interface{}) {
	if len(fields) == 1 {
		if m, ok := fields[0].(map[string]interface{}); ok {
			event.Fields(m).Msg(msg)
			return
		}
	}
	// fallback: treat as key-value pairs
	if len(fields)%2 == 0 {
		for i := 0; i < len(fields); i += 2 {
			key, ok := fields[i].(string)
			if !ok {
				continue
			}
			// Special handling for error types
			if key == "error" {
				if err, ok := fields[i+1].(error); ok && err != nil {
					event = event.Err(err)
				} else {
					event = event.Interface(key, fields[i+1])
				}
			} else {
				event = event.Interface(key, fields[i+1])
			}
		}
	}
	event.Msg(msg)
}

// GetLogger returns the underlying zerolog.Logger (for advanced use)
func GetLogger() zerolog.Logger {
	return logger
}

// Example default config
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:           zerolog.InfoLevel,
		Console:         true,
		File:            true,
		FilePath:        "opendata-mcp.log",
		MaxSizeMB:       10,
		MaxBackups:      5,
		MaxAgeDays:      30,
		Compress:        true,
		TimeFieldFormat: time.RFC3339,
	}
}
