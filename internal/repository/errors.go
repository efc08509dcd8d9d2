// Package repository contains data access logic separated from HTTP
// handlers. This file defines sentinel errors reused across repositories so
// handlers can map failure scenarios to response codes without inspecting
// driver errors.
package repository

import "errors"

// ErrEmailExists is returned when a signup collides with an existing email.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when a user row is absent or soft-deleted.
var ErrUserNotFound = errors.New("user not found")

// ErrEstateNotFound is returned when an estate cannot be found, including
// the case where it was deleted between a review write and its recompute.
var ErrEstateNotFound = errors.New("estate not found")

// ErrReviewNotFound is returned when a review row is absent.
var ErrReviewNotFound = errors.New("review not found")

// ErrTokenInvalid is returned when an account token (verification or
// password reset) is unknown or past its expiry.
var ErrTokenInvalid = errors.New("token invalid or expired")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")
