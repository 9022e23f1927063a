// Package logger provides structured logging for the vista-sdk ambient stack.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger wraps zerolog with vista-sdk-specific functionality.
type Logger struct {
	zlog zerolog.Logger
}

// Config holds logger configuration.
type Config struct {
	Level      string // debug, info, warn, error
	Pretty     bool   // pretty-print for development
	Output     io.Writer
	WithCaller bool
}

// NewLogger creates a new structured logger.
func NewLogger(cfg Config) *Logger {
	level := zerolog.InfoLevel
	switch cfg.Level {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	zlog := zerolog.New(output).
		With().
		Timestamp().
		Str("service", "vista-sdk").
		Logger()

	if cfg.WithCaller {
		zlog = zlog.With().Caller().Logger()
	}

	return &Logger{zlog: zlog}
}

// GetZerolog returns the underlying zerolog logger.
func (l *Logger) GetZerolog() *zerolog.Logger {
	return &l.zlog
}

// Info logs an info message.
func (l *Logger) Info(msg string) *zerolog.Event {
	return l.zlog.Info().Str("msg", msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string) *zerolog.Event {
	return l.zlog.Debug().Str("msg", msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) *zerolog.Event {
	return l.zlog.Warn().Str("msg", msg)
}

// Error logs an error message.
func (l *Logger) Error(msg string) *zerolog.Event {
	return l.zlog.Error().Str("msg", msg)
}

// Fatal logs a fatal message and exits.
func (l *Logger) Fatal(msg string) *zerolog.Event {
	return l.zlog.Fatal().Str("msg", msg)
}

// WithFields returns a logger with additional fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	ctx := l.zlog.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{zlog: ctx.Logger()}
}

// ResourceLogger returns a logger scoped to loading a taxonomy/locations/versioning resource.
func (l *Logger) ResourceLogger(resource string) *Logger {
	return &Logger{
		zlog: l.zlog.With().
			Str("component", "resource").
			Str("resource", resource).
			Logger(),
	}
}

// GmodLogger returns a logger scoped to GMOD construction or traversal.
func (l *Logger) GmodLogger(visVersion string) *Logger {
	return &Logger{
		zlog: l.zlog.With().
			Str("component", "gmod").
			Str("vis_version", visVersion).
			Logger(),
	}
}

// VersioningLogger returns a logger scoped to cross-version conversion.
func (l *Logger) VersioningLogger(sourceVersion, targetVersion string) *Logger {
	return &Logger{
		zlog: l.zlog.With().
			Str("component", "versioning").
			Str("source_version", sourceVersion).
			Str("target_version", targetVersion).
			Logger(),
	}
}

// LogResourceLoad logs a resource load with structured fields.
func (l *Logger) LogResourceLoad(resource string, duration time.Duration, byteCount int, err error) {
	event := l.zlog.Info().
		Str("component", "resource").
		Str("resource", resource).
		Dur("duration_ms", duration).
		Int("bytes", byteCount)

	if err != nil {
		event = l.zlog.Error().
			Str("component", "resource").
			Str("resource", resource).
			Dur("duration_ms", duration).
			Err(err)
	}

	event.Msg("resource load completed")
}

// LogGmodBuild logs GMOD construction with structured fields.
func (l *Logger) LogGmodBuild(visVersion string, duration time.Duration, nodeCount int, err error) {
	event := l.zlog.Debug().
		Str("component", "gmod").
		Str("vis_version", visVersion).
		Dur("duration_ms", duration).
		Int("node_count", nodeCount)

	if err != nil {
		event = l.zlog.Error().
			Str("component", "gmod").
			Str("vis_version", visVersion).
			Dur("duration_ms", duration).
			Err(err)
	}

	event.Msg("gmod build completed")
}

// LogCacheEvent logs a VIS cache hit/miss/eviction.
func (l *Logger) LogCacheEvent(event string, visVersion string) {
	l.zlog.Info().
		Str("component", "vis_cache").
		Str("event", event).
		Str("vis_version", visVersion).
		Msg("vis cache event")
}

// Global logger instance.
var globalLogger *Logger

// InitGlobalLogger initializes the global logger.
func InitGlobalLogger(cfg Config) {
	globalLogger = NewLogger(cfg)
	log.Logger = *globalLogger.GetZerolog()
}

// GetGlobalLogger returns the global logger instance.
func GetGlobalLogger() *Logger {
	if globalLogger == nil {
		InitGlobalLogger(Config{
			Level:  "info",
			Pretty: true,
		})
	}
	return globalLogger
}
