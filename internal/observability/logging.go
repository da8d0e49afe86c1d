package observability

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// devEnvironment switches the logger to human-readable console output.
const devEnvironment = "dev"

// NewLogger builds the service logger tagged with service and environment.
// Unknown or empty levels fall back to info.
func NewLogger(service, environment, level string) zerolog.Logger {
	return newLogger(os.Stdout, service, environment, level)
}

func newLogger(out io.Writer, service, environment, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if environment == devEnvironment {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}

	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Str("service", service).
		Str("env", environment).
		Logger()
}
