package model

import "time"

// User mirrors the 'users' table. PasswordHash is nil for accounts created
// through an external identity provider and is excluded from JSON so it can
// never leak through a handler response. Deletion is soft: IsDeleted flips
// to true and the row stays.
//
// Rating and ReviewsCount are derived aggregates over reviews received on
// the user's estates; they are recomputed, never authored directly.
type User struct {
	ID                          uint64     `json:"id"`
	FirstName                   string     `json:"firstName"`
	LastName                    string     `json:"lastName"`
	Email                       string     `json:"email"`
	PasswordHash                *string    `json:"-"`
	Role                        string     `json:"role"`
	PhoneNumber                 *string    `json:"phoneNumber,omitempty"`
	ImageURL                    *string    `json:"imageUrl,omitempty"`
	About                       *string    `json:"about,omitempty"`
	IsActive                    bool       `json:"isActive"`
	IsVerified                  bool       `json:"isVerified"`
	IsDeleted                   bool       `json:"isDeleted"`
	VerificationToken           *string    `json:"-"`
	VerificationTokenExpiresAt  *time.Time `json:"-"`
	PasswordResetToken          *string    `json:"-"`
	PasswordResetTokenExpiresAt *time.Time `json:"-"`
	Birthday                    *time.Time `json:"birthday,omitempty"`
	Rating                      float64    `json:"rating"`
	ReviewsCount                int        `json:"reviewsCount"`
	CreatedAt                   time.Time  `json:"createdAt"`
	UpdatedAt                   time.Time  `json:"updatedAt"`
}
