// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ParseLevel maps a configured level name to a zerolog level. Unknown names
// fall back to info and report false.
func ParseLevel(name string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zerolog.DebugLevel, true
	case "info", "":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "fatal":
		return zerolog.FatalLevel, true
	default:
		return zerolog.InfoLevel, false
	}
}

// New builds a logger writing to w. Pretty selects the human-readable console
// writer instead of JSON lines.
func New(w io.Writer, level string, pretty bool) zerolog.Logger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	lvl, ok := ParseLevel(level)
	logger := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	if !ok {
		logger.Warn().
			Str("configured_level", level).
			Str("default_level", lvl.String()).
			Msg("invalid log level configured, using default level")
	}
	return logger
}

// Setup builds a stderr logger and installs it as the global zerolog logger
func Setup(level string, pretty bool) zerolog.Logger {
	logger := New(os.Stderr, level, pretty)
	log.Logger = logger
	zerolog.DefaultContextLogger = &logger
	return logger
}
