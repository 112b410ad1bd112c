// Package middleware provides HTTP middleware: request logging, security
// headers, token-based authentication, role gating, and rate limiting.
package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hamroaawaz/complaint-server/internal/auth"
	"github.com/hamroaawaz/complaint-server/internal/models"
)

type contextKey string

const claimsKey contextKey = "claims"

// ClaimsFrom returns the verified claims attached to the request context by
// RequireAuth.
func ClaimsFrom(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

// StructuredLogger returns a middleware that logs HTTP requests with zap.
func StructuredLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(ww, r)

			logger.Info("HTTP Request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.statusCode),
				zap.Duration("latency", time.Since(start)),
				zap.String("request_id", r.Header.Get("X-Request-ID")),
			)
		})
	}
}

// SecurityHeaders sets baseline hardening headers on every response.
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer")

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth verifies the bearer token and attaches the decoded claims to
// the request context. Any missing, malformed, tampered, or expired token
// yields 401.
func RequireAuth(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, `{"error": "Authorization required"}`, http.StatusUnauthorized)
				return
			}

			claims := tokens.Verify(strings.TrimPrefix(authHeader, "Bearer "))
			if claims == nil {
				http.Error(w, `{"error": "Invalid or expired token"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects requests whose verified claims do not carry exactly
// the given role. There is no role hierarchy; admin does not imply staff.
// Must be mounted after RequireAuth.
func RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFrom(r.Context())
			if !ok {
				http.Error(w, `{"error": "Authorization required"}`, http.StatusUnauthorized)
				return
			}
			if claims.Role != role {
				http.Error(w, fmt.Sprintf(`{"error": "Requires %s role"}`, role), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit limits requests per client IP per minute. With a Redis client it
// uses a shared fixed-window counter; without one it falls back to an
// in-memory sliding window. Redis errors fail open.
func RateLimit(requestsPerMinute int, rdb *redis.Client) func(http.Handler) http.Handler {
	if rdb != nil {
		return redisRateLimit(requestsPerMinute, rdb)
	}
	return memoryRateLimit(requestsPerMinute)
}

func redisRateLimit(requestsPerMinute int, rdb *redis.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			window := time.Now().Unix() / 60
			key := fmt.Sprintf("ratelimit:%s:%d", clientIP(r), window)

			count, err := rdb.Incr(r.Context(), key).Result()
			if err == nil {
				if count == 1 {
					rdb.Expire(r.Context(), key, 2*time.Minute)
				}
				if count > int64(requestsPerMinute) {
					http.Error(w, `{"error": "Rate limit exceeded"}`, http.StatusTooManyRequests)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func memoryRateLimit(requestsPerMinute int) func(http.Handler) http.Handler {
	type client struct {
		count    int
		lastSeen time.Time
	}

	var (
		mu      sync.Mutex
		clients = make(map[string]*client)
	)

	// Cleanup stale entries every 5 minutes
	go func() {
		for {
			time.Sleep(5 * time.Minute)
			mu.Lock()
			for ip, c := range clients {
				if time.Since(c.lastSeen) > 2*time.Minute {
					delete(clients, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)

			mu.Lock()
			c, exists := clients[key]
			if !exists {
				clients[key] = &client{count: 1, lastSeen: time.Now()}
				mu.Unlock()
				next.ServeHTTP(w, r)
				return
			}

			if time.Since(c.lastSeen) > time.Minute {
				c.count = 1
				c.lastSeen = time.Now()
			} else {
				c.count++
			}

			if c.count > requestsPerMinute {
				mu.Unlock()
				http.Error(w, `{"error": "Rate limit exceeded"}`, http.StatusTooManyRequests)
				return
			}

			mu.Unlock()
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}
