// Package utils provides token and hashing helpers shared by handlers and
// middleware.
package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned by VerifyAuthToken for any token that fails
// signature, structure or expiry checks. Callers that must stay silent about
// the specific cause (the auth gate) treat it as "no identity resolved".
var ErrInvalidToken = errors.New("invalid token")

// AuthToken is a signed JWT bound to a user together with its expiry.
// The claim set deliberately carries only the user id; role and session
// validity are resolved against the database on every request, which is
// what makes sign-out effective before the token expires.
type AuthToken struct {
	Token string
	Exp   time.Time
}

// NewAuthToken builds and signs an HS256 JWT whose subject is the user ID.
// ttl comes from the JWT_EXPIRES_IN duration string.
func NewAuthToken(secret string, userID uint64, ttl time.Duration) (AuthToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AuthToken{}, err
	}
	return AuthToken{Token: signed, Exp: exp}, nil
}

// VerifyAuthToken parses and validates a signed token and returns the user
// ID claim. Expired, malformed or foreign-signed tokens all collapse into
// ErrInvalidToken.
func VerifyAuthToken(secret, raw string) (uint64, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return 0, ErrInvalidToken
	}
	return uint64(sub), nil
}

// NewAccountToken returns a random single-use token for email verification
// or password reset. The raw value goes to the user by mail; only its
// SHA-256 hash is stored.
func NewAccountToken() (raw, hash string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(buf)
	return raw, HashAccountToken(raw), nil
}

// HashAccountToken returns the SHA-256 hex digest of a raw account token.
func HashAccountToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
