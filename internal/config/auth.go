package config

import (
	"sync"
	"time"
)

var (
	jwtSecretMu sync.RWMutex
	// JWTSecret is the secret key the dev server uses to sign access tokens.
	// In production the real backend owns token signing; this only has to
	// agree with whatever that backend is configured with.
	JWTSecret = []byte(GetEnvOrDefault("JWT_SECRET", "dev-only-secret"))
)

// SetJWTSecret temporarily changes the JWT secret and returns a function to restore it
// This is primarily used for testing
func SetJWTSecret(secret []byte) func() {
	jwtSecretMu.Lock()
	previous := JWTSecret
	JWTSecret = secret
	jwtSecretMu.Unlock()

	return func() {
		jwtSecretMu.Lock()
		JWTSecret = previous
		jwtSecretMu.Unlock()
	}
}

// GetJWTSecret returns the current JWT secret in a thread-safe manner
func GetJWTSecret() []byte {
	jwtSecretMu.RLock()
	defer jwtSecretMu.RUnlock()
	return JWTSecret
}

// GetTokenTTL returns how long dev-server access tokens stay valid.
func GetTokenTTL() time.Duration {
	value := GetEnvOrDefault("TOKEN_TTL", "12h")
	d, err := time.ParseDuration(value)
	if err != nil {
		return 12 * time.Hour
	}
	return d
}
