package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewWithConfig builds the diagnostic logger. Diagnostics go to out
// (stderr by default) so that report lines on stdout stay clean.
func NewWithConfig(out io.Writer, level string, pretty, noColor bool) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}

	var log zerolog.Logger
	if pretty {
		output := zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    noColor,
		}
		log = zerolog.New(output).With().Timestamp().Logger()
	} else {
		log = zerolog.New(out).With().Timestamp().Logger()
	}

	return log.Level(ParseLevel(level))
}

// ParseLevel maps a config level name to a zerolog level, falling back to warn.
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.WarnLevel
	}
}
