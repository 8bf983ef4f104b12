// =============================================================================
// Sales Analytics - Logging
// =============================================================================
//
// The pipeline logs through the small Logger interface below so that no
// package depends on a concrete logging library. The default implementation
// is backed by zerolog and writes either human-readable console output or
// JSON lines.
//
// =============================================================================

package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the logging contract used across the pipeline.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// Options controls how New builds a logger.
type Options struct {
	// Level is one of "debug", "info", "warn", "error".
	// Default: "info"
	Level string

	// Format is "console" or "json".
	// Default: "console"
	Format string

	// Output is where log lines are written.
	// Default: os.Stderr
	Output io.Writer
}

// zeroLogger adapts zerolog to the Logger interface.
type zeroLogger struct {
	log zerolog.Logger
}

// New creates a zerolog-backed Logger.
func New(opts Options) Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var w io.Writer = out
	if !strings.EqualFold(opts.Format, "json") {
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	return &zeroLogger{
		log: zerolog.New(w).Level(level).With().Timestamp().Logger(),
	}
}

// ParseLevel converts a config level name to a zerolog level.
func ParseLevel(name string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.InfoLevel, fmt.Errorf("unknown log level: %s", name)
	}
}

func (l *zeroLogger) Debug(msg string, args ...interface{}) {
	l.log.Debug().Msgf(msg, args...)
}

func (l *zeroLogger) Info(msg string, args ...interface{}) {
	l.log.Info().Msgf(msg, args...)
}

func (l *zeroLogger) Warn(msg string, args ...interface{}) {
	l.log.Warn().Msgf(msg, args...)
}

func (l *zeroLogger) Error(msg string, args ...interface{}) {
	l.log.Error().Msgf(msg, args...)
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return &zeroLogger{log: zerolog.Nop()}
}
