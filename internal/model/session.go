package model

import "time"

// Session mirrors the 'sessions' table: one row per successful sign-up or
// sign-in. A user accumulates several concurrently valid sessions across
// devices; each can be revoked on its own. Valid starts true and only ever
// transitions to false.
type Session struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"userId"`
	Valid     bool      `json:"valid"`
	UserAgent string    `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
