package config

import (
	"os"

	"github.com/rs/zerolog/log"
)

// GetEnvOrDefault returns the value of an environment variable or a default value
func GetEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" && defaultValue == "" {
		log.Warn().Str("key", key).Msg("Empty value and default for environment variable")
	}
	if value == "" {
		return defaultValue
	}
	return value
}
