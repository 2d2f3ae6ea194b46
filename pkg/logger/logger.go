package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ParseLevel maps a LOG_LEVEL environment value to a zerolog level.
// Unknown or empty values default to info.
func ParseLevel(value string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Setup configures the global zerolog logger from LOG_LEVEL and LOG_FORMAT.
// LOG_FORMAT=json keeps the default structured output; anything else gets
// the human-readable console writer.
func Setup() {
	zerolog.SetGlobalLevel(ParseLevel(os.Getenv("LOG_LEVEL")))

	if strings.ToLower(os.Getenv("LOG_FORMAT")) != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		})
	}
}
