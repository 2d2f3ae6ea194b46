package devserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/storychat/storychat/internal/config"
	"github.com/storychat/storychat/pkg/httpext"
	"github.com/storychat/storychat/pkg/ratelimit"
)

type contextKey string

const usernameKey contextKey = "username"

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		log.Warn().Str("header", authHeader).Msg("Malformed Authorization header")
		return ""
	}
	return parts[1]
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := extractToken(r)
		if tokenString == "" {
			httpext.JsonError(w, "Not authenticated", http.StatusUnauthorized)
			return
		}

		claims := jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
			return config.GetJWTSecret(), nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			log.Warn().Err(err).Msg("Invalid access token")
			httpext.JsonError(w, "Could not validate credentials", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), usernameKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func username(r *http.Request) string {
	name, _ := r.Context().Value(usernameKey).(string)
	return name
}

func RateLimit(limitKey string) func(http.Handler) http.Handler {
	cfg := config.GetRateLimitConfig(limitKey)
	limiter := ratelimit.NewLimiter(cfg.Window, cfg.MaxHits)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			// Use X-Forwarded-For if behind proxy, otherwise remote address
			ip := r.Header.Get("X-Forwarded-For")
			if ip == "" {
				ip = r.RemoteAddr
			}

			if !limiter.Allow(ip) {
				log.Warn().Str("ip", ip).Str("limit", limitKey).Msg("Rate limit exceeded")
				httpext.JsonError(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
