package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/estate-marketplace/internal/model"
)

// SessionRepo persists login sessions. One row is created on every
// successful sign-up and sign-in, so a user holds several valid sessions
// across devices. Invalidation is one-way: valid never goes back to true.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Create inserts a session row for the user and returns it populated.
func (r *SessionRepo) Create(ctx context.Context, userID uint64, userAgent string) (*model.Session, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO sessions (user_id, user_agent) VALUES (?,?)",
		userID, userAgent)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	var s model.Session
	err = r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, valid, user_agent, created_at, updated_at FROM sessions WHERE id=?",
		id).Scan(&s.ID, &s.UserID, &s.Valid, &s.UserAgent, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// LatestValidForUser returns the newest still-valid session for a user.
// The auth gate uses this to bind token validity to session validity: no
// live session means no resolved identity, even for an unexpired token.
func (r *SessionRepo) LatestValidForUser(ctx context.Context, userID uint64) (*model.Session, error) {
	var s model.Session
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, valid, user_agent, created_at, updated_at
		 FROM sessions WHERE user_id=? AND valid=1 ORDER BY id DESC LIMIT 1`,
		userID).Scan(&s.ID, &s.UserID, &s.Valid, &s.UserAgent, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &s, nil
}

// ListActive returns all valid sessions for a user, newest first.
func (r *SessionRepo) ListActive(ctx context.Context, userID uint64) ([]*model.Session, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, valid, user_agent, created_at, updated_at
		 FROM sessions WHERE user_id=? AND valid=1 ORDER BY id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Session{}
	for rows.Next() {
		s := new(model.Session)
		if err := rows.Scan(&s.ID, &s.UserID, &s.Valid, &s.UserAgent, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Invalidate flips valid to false for one session owned by the user.
// Idempotent: invalidating an already-invalid or unknown session is not an
// error.
func (r *SessionRepo) Invalidate(ctx context.Context, id, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET valid=0, updated_at=CURRENT_TIMESTAMP WHERE id=? AND user_id=? AND valid=1",
		id, userID)
	return err
}

// InvalidateAll flips valid to false for every session of the user.
// Used by sign-out-all; rows are kept for the active-sessions history.
func (r *SessionRepo) InvalidateAll(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET valid=0, updated_at=CURRENT_TIMESTAMP WHERE user_id=? AND valid=1", userID)
	return err
}

// DeleteAllForUser hard-deletes every session row of the user. Only
// account deletion calls this; elsewhere invalidation keeps the rows.
func (r *SessionRepo) DeleteAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE user_id=?", userID)
	return err
}
