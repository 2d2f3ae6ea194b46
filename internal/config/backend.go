package config

import (
	"time"

	"github.com/rs/zerolog/log"
)

// GetBackendURL returns the base URL of the backend API the client talks to.
func GetBackendURL() string {
	return GetEnvOrDefault("STORYCHAT_API_URL", "http://localhost:8000")
}

// GetRequestTimeout returns the timeout applied to plain request/response
// calls. Streaming chat requests are exempt: a turn stays open for as long as
// the server keeps the stream alive.
func GetRequestTimeout() time.Duration {
	value := GetEnvOrDefault("STORYCHAT_REQUEST_TIMEOUT", "30s")
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Warn().Str("value", value).Msg("Invalid STORYCHAT_REQUEST_TIMEOUT, using 30s")
		return 30 * time.Second
	}
	return d
}
