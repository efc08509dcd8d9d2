package model

import "time"

// RatingMin and RatingMax bound the accepted review scale. Values outside
// the range never reach the database.
const (
	RatingMin = 1
	RatingMax = 5
)

// Review mirrors the 'reviews' table: one rating plus comment by a user
// against one estate. Every create/update/delete of a review triggers a
// recompute of the target estate's aggregate fields.
type Review struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"userId"`
	EstateID  uint64    `json:"estateId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
