// Package logger builds the zerolog loggers used by the PSN API wrapper.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New returns a console logger for interactive use, writing to stderr.
func New() zerolog.Logger {
	return NewWithWriter(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02 15:04:05",
	})
}

// NewJSON returns a structured JSON logger, suitable for services that
// embed the wrapper.
func NewJSON() zerolog.Logger {
	return NewWithWriter(os.Stderr)
}

// NewWithWriter returns a logger writing to the given sink.
func NewWithWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

// Nop returns a disabled logger. Used when the caller supplies none.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
