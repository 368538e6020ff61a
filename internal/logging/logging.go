// Package logging configures the process-wide zerolog logger. Diagnostics go
// to stderr through a console writer so stdout stays reserved for the
// [ OK ]/[SKIP] progress lines users read.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// Setup points the global logger at stderr with the given level. Colour is
// only used when stderr is a terminal.
func Setup(level string) {
	color := term.IsTerminal(int(os.Stderr.Fd()))
	log.Logger = New(os.Stderr, level, color)
	zerolog.SetGlobalLevel(ParseLevel(level))
}

// New returns a console logger writing to w.
func New(w io.Writer, level string, color bool) zerolog.Logger {
	writer := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !color,
		TimeFormat: time.TimeOnly,
	}
	return zerolog.New(writer).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// ParseLevel converts a level name to a zerolog level. Unknown names map to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
