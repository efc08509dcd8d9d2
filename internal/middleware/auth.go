// Package middleware provides reusable HTTP middleware: the best-effort
// authentication gate, the explicit auth/role guards, and the Redis-backed
// response cache and rate limiter.
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/estate-marketplace/internal/repository"
	"github.com/iliyamo/estate-marketplace/internal/utils"
)

// Context keys under which the gate stores the resolved identity.
const (
	ctxUserID    = "user_id"
	ctxRole      = "role"
	ctxSessionID = "session_id"
)

// TokenCookie is the name of the HTTP-only cookie carrying the auth token.
const TokenCookie = "token"

// Authenticate is the gate run on every request before routing. It never
// rejects: any failure along the chain (no cookie, bad token, unknown or
// deleted user, no live session) simply leaves the request unauthenticated
// and lets the route's own guards decide. The session lookup is what makes
// sign-out effective while the token is still cryptographically valid.
func Authenticate(secret string, users *repository.UserRepo, sessions *repository.SessionRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(TokenCookie)
			if err != nil || cookie.Value == "" {
				return next(c)
			}
			userID, err := utils.VerifyAuthToken(secret, cookie.Value)
			if err != nil {
				return next(c)
			}
			ctx := c.Request().Context()
			u, err := users.GetByID(ctx, userID)
			if err != nil {
				return next(c)
			}
			s, err := sessions.LatestValidForUser(ctx, userID)
			if err != nil {
				return next(c)
			}
			c.Set(ctxUserID, u.ID)
			c.Set(ctxRole, u.Role)
			c.Set(ctxSessionID, s.ID)
			return next(c)
		}
	}
}

// RequireAuth fails the request when the gate resolved no identity.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := UserID(c); !ok {
			return unauthorized(c)
		}
		return next(c)
	}
}

// RequireRole fails the request when the resolved role is absent or not in
// the accepted set. The response body is identical to RequireAuth's so a
// client cannot tell which check failed.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(ctxRole).(string)
			if !ok || !allowed[role] {
				return unauthorized(c)
			}
			return next(c)
		}
	}
}

// UserID returns the authenticated user's id, if the gate resolved one.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(ctxUserID).(uint64)
	return id, ok
}

// Role returns the authenticated user's role, if any.
func Role(c echo.Context) (string, bool) {
	role, ok := c.Get(ctxRole).(string)
	return role, ok
}

// SessionID returns the session resolved for this request, if any.
func SessionID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(ctxSessionID).(uint64)
	return id, ok
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"status":  http.StatusUnauthorized,
		"message": "Authentication required",
		"title":   "Unauthorized",
	})
}
