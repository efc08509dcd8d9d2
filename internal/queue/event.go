// Package queue defines message payloads exchanged over the message broker
// and the background consumer for them.
package queue

// ReviewCreatedEvent is published after a review is persisted and its
// estate aggregates are recomputed. It carries enough for downstream
// consumers (owner notifications, analytics) without querying the primary
// database.
type ReviewCreatedEvent struct {
	EventID       string  `json:"event_id"`
	ReviewID      uint64  `json:"review_id"`
	EstateID      uint64  `json:"estate_id"`
	EstateTitle   string  `json:"estate_title"`
	OwnerID       uint64  `json:"owner_id"`
	AuthorID      uint64  `json:"author_id"`
	Rating        int     `json:"rating"`
	AverageRating float64 `json:"average_rating"`
	ReviewsCount  int     `json:"reviews_count"`
	CreatedAt     string  `json:"created_at"`
}
