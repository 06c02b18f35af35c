package adk

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var DebugEnabled bool

var log = newLogger(os.Stderr)

func newLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
}

// SetOutput redirects diagnostic logs, mostly for tests
func SetOutput(w io.Writer) {
	log = newLogger(w)
}

// Logger returns the diagnostics logger, honoring DebugEnabled
func Logger() zerolog.Logger {
	if DebugEnabled {
		return log.Level(zerolog.DebugLevel)
	}
	return log.Level(zerolog.InfoLevel)
}

// Debugf prints messages only if DebugEnabled is true
func Debugf(format string, args ...interface{}) {
	l := Logger()
	l.Debug().Msgf(format, args...)
}

// Infof logs an informational message
func Infof(format string, args ...interface{}) {
	l := Logger()
	l.Info().Msgf(format, args...)
}

func Warnf(format string, args ...interface{}) {
	l := Logger()
	l.Warn().Msgf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	l := Logger()
	l.Error().Msgf(format, args...)
}
