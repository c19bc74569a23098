// Package logging builds the zerolog loggers used by framesim.
//
// Console output is meant for people and carries a short timestamp. Any other
// output is plain JSON, one object per line.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "15:04:05.000"

// Config selects how a logger writes.
type Config struct {
	// Level is one of trace, debug, info, warn, error, or disabled. Unknown
	// values fall back to info.
	Level string

	// Console turns on the human readable writer.
	Console bool

	// Out is where the log goes. Defaults to os.Stderr.
	Out io.Writer
}

// New creates a logger from the config.
func New(cfg Config) zerolog.Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}

	if cfg.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: consoleTimeFormat}
	}

	return zerolog.New(out).
		Level(ParseLevel(cfg.Level, zerolog.InfoLevel)).
		With().
		Timestamp().
		Logger()
}

// Nop returns a logger that never writes anything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// ParseLevel converts a level name into a zerolog level, returning def when
// the name is empty or unknown.
func ParseLevel(name string, def zerolog.Level) zerolog.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return def
	}

	switch name {
	case "warning":
		return zerolog.WarnLevel
	case "off", "none":
		return zerolog.Disabled
	}

	lvl, err := zerolog.ParseLevel(name)
	if err != nil || lvl == zerolog.NoLevel {
		return def
	}

	return lvl
}
