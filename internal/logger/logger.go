// README: zerolog component loggers.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger tagged with the given component name. Output is
// JSON on stdout; LIFELINE_LOG_PRETTY=1 switches to the console writer
// for local runs.
func New(component string) zerolog.Logger {
	var l zerolog.Logger
	if os.Getenv("LIFELINE_LOG_PRETTY") == "1" {
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		l = zerolog.New(os.Stdout)
	}
	return l.With().Timestamp().Str("component", component).Logger()
}
