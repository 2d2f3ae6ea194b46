package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, subject string, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestInspect(t *testing.T) {
	t.Run("valid token", func(t *testing.T) {
		expiry := time.Now().Add(time.Hour).Truncate(time.Second)
		info, err := Inspect(signedToken(t, "alice", expiry))
		require.NoError(t, err)
		assert.Equal(t, "alice", info.Subject)
		assert.Equal(t, expiry.Unix(), info.ExpiresAt.Unix())
		assert.False(t, info.Expired())
	})

	t.Run("expired token", func(t *testing.T) {
		info, err := Inspect(signedToken(t, "bob", time.Now().Add(-time.Hour)))
		require.NoError(t, err)
		assert.True(t, info.Expired())
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := Inspect("not-a-jwt")
		assert.Error(t, err)
	})

	t.Run("no expiry claim", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "carol"}).
			SignedString([]byte("test-secret"))
		require.NoError(t, err)

		info, err := Inspect(token)
		require.NoError(t, err)
		assert.False(t, info.Expired())
	})
}
