// Package auth provides the token service (signed, time-limited identity
// tokens) and password hashing. Token verification is a pure function of
// signature and expiry; no session state is kept anywhere.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hamroaawaz/complaint-server/internal/models"
)

// DefaultTokenTTL is the token lifetime used when none is configured.
const DefaultTokenTTL = 60 * time.Minute

// Claims is the decoded identity payload carried inside a verified token.
type Claims struct {
	Phone  string      `json:"sub"`
	Role   models.Role `json:"role"`
	UserID int         `json:"id"`
}

type tokenClaims struct {
	Role   models.Role `json:"role"`
	UserID int         `json:"id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HMAC-SHA256 signed tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a token service with the given signing secret and
// token lifetime. A non-positive ttl falls back to DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given identity with an absolute expiry of
// now + ttl embedded in the payload.
func (s *TokenService) Issue(claims Claims) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Role:   claims.Role,
		UserID: claims.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Phone,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	return tok.SignedString(s.secret)
}

// Verify checks signature integrity and expiry. It returns the embedded
// claims, or nil for any malformed, tampered, or expired token. It never
// returns an error; callers treat nil as an authentication failure.
func (s *TokenService) Verify(token string) *Claims {
	var tc tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &tc, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil
	}
	return &Claims{Phone: tc.Subject, Role: tc.Role, UserID: tc.UserID}
}
