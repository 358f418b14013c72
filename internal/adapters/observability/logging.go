package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns the service logger. dev/development gets the console
// writer with debug level; everything else is JSON at info.
func NewLogger(env string) zerolog.Logger {
	return newLogger(os.Stdout, env)
}

func newLogger(out io.Writer, env string) zerolog.Logger {
	if env == "dev" || env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Str("service", "cinefilia").Logger()
	}
	return zerolog.New(out).Level(zerolog.InfoLevel).
		With().Timestamp().Str("service", "cinefilia").Logger()
}
