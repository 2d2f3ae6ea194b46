package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what the client can read out of its own access token without
// the signing key. Verification stays server-side; this exists so the CLI
// can warn about an expired session before making a doomed call.
type TokenInfo struct {
	Subject   string
	ExpiresAt time.Time
}

// Inspect parses token claims without verifying the signature.
func Inspect(token string) (TokenInfo, error) {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return TokenInfo{}, fmt.Errorf("parse access token: %w", err)
	}

	info := TokenInfo{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}

// Expired reports whether the token carries an expiry in the past.
func (t TokenInfo) Expired() bool {
	return !t.ExpiresAt.IsZero() && time.Now().After(t.ExpiresAt)
}
