package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/estate-marketplace/internal/model"
	"github.com/iliyamo/estate-marketplace/internal/utils"
)

const userColumns = `id, first_name, last_name, email, password_hash, role,
	phone_number, image_url, about, is_active, is_verified, is_deleted,
	verification_token, verification_token_expires_at,
	password_reset_token, password_reset_token_expires_at,
	birthday, rating, reviews_count, created_at, updated_at`

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// UserUpdate carries the optional profile fields accepted by update-me.
// Nil pointers mean "leave unchanged". Password is the only field that is
// transformed before persistence: it always passes through bcrypt.
type UserUpdate struct {
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	ImageURL    *string
	About       *string
	Birthday    *time.Time
	Password    *string
}

// Create hashes the password and inserts the user. Email uniqueness is
// enforced by the store; a duplicate key collision maps to ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User, password string, cost int) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (first_name, last_name, email, password_hash, role) VALUES (?,?,?,?,?)",
		u.FirstName, u.LastName, u.Email, hash, u.Role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	got, err := r.GetByID(ctx, u.ID)
	if err != nil {
		return err
	}
	*u = *got
	return nil
}

// GetByEmail fetches a user by normalized email, including soft-deleted
// rows; sign-up needs to see those to keep emails unique.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByCredentials resolves a non-deleted user whose password matches.
// Both an unknown email and a wrong password return ErrUserNotFound so the
// caller cannot tell which check failed.
func (r *UserRepo) GetByCredentials(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := r.getOne(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? AND is_deleted=0 LIMIT 1", email)
	if err != nil {
		return nil, err
	}
	if u.PasswordHash == nil || !utils.VerifyPassword(*u.PasswordHash, password) {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// GetByID fetches a non-deleted user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return r.getOne(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? AND is_deleted=0 LIMIT 1", id)
}

// Update applies the non-nil fields of upd to the user row. A password
// change rewrites password_hash through bcrypt; the hash is never supplied
// by callers.
func (r *UserRepo) Update(ctx context.Context, id uint64, upd UserUpdate, bcryptCost int) (*model.User, error) {
	sets := []string{}
	args := []any{}
	add := func(col string, v any) {
		sets = append(sets, col+"=?")
		args = append(args, v)
	}
	if upd.FirstName != nil {
		add("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		add("last_name", *upd.LastName)
	}
	if upd.PhoneNumber != nil {
		add("phone_number", *upd.PhoneNumber)
	}
	if upd.ImageURL != nil {
		add("image_url", *upd.ImageURL)
	}
	if upd.About != nil {
		add("about", *upd.About)
	}
	if upd.Birthday != nil {
		add("birthday", *upd.Birthday)
	}
	if upd.Password != nil {
		hash, err := utils.HashPassword(*upd.Password, bcryptCost)
		if err != nil {
			return nil, err
		}
		add("password_hash", hash)
	}
	if len(sets) > 0 {
		q := "UPDATE users SET " + strings.Join(sets, ", ") +
			", updated_at=CURRENT_TIMESTAMP WHERE id=? AND is_deleted=0"
		args = append(args, id)
		if _, err := r.DB.ExecContext(ctx, q, args...); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// SoftDelete flips is_deleted without removing the row.
func (r *UserRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_deleted=1, updated_at=CURRENT_TIMESTAMP WHERE id=? AND is_deleted=0", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetVerificationToken stores the hash of a freshly issued verification
// token together with its expiry.
func (r *UserRepo) SetVerificationToken(ctx context.Context, id uint64, hash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET verification_token=?, verification_token_expires_at=? WHERE id=? AND is_deleted=0",
		hash, exp, id)
	return err
}

// VerifyByToken marks the matching user verified and burns the token.
// Unknown or expired tokens return ErrTokenInvalid.
func (r *UserRepo) VerifyByToken(ctx context.Context, hash string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET is_verified=1, verification_token=NULL, verification_token_expires_at=NULL
		 WHERE verification_token=? AND verification_token_expires_at > ? AND is_deleted=0`,
		hash, time.Now().UTC())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTokenInvalid
	}
	return nil
}

// SetPasswordResetToken stores the hash of a password reset token.
func (r *UserRepo) SetPasswordResetToken(ctx context.Context, id uint64, hash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_reset_token=?, password_reset_token_expires_at=? WHERE id=? AND is_deleted=0",
		hash, exp, id)
	return err
}

// ResetPasswordByToken rewrites the password hash for the user holding a
// live reset token and burns the token.
func (r *UserRepo) ResetPasswordByToken(ctx context.Context, hash, newPassword string, bcryptCost int) error {
	pwHash, err := utils.HashPassword(newPassword, bcryptCost)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET password_hash=?, password_reset_token=NULL, password_reset_token_expires_at=NULL
		 WHERE password_reset_token=? AND password_reset_token_expires_at > ? AND is_deleted=0`,
		pwHash, hash, time.Now().UTC())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTokenInvalid
	}
	return nil
}

func (r *UserRepo) getOne(ctx context.Context, q string, args ...any) (*model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, q, args...).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role,
		&u.PhoneNumber, &u.ImageURL, &u.About, &u.IsActive, &u.IsVerified, &u.IsDeleted,
		&u.VerificationToken, &u.VerificationTokenExpiresAt,
		&u.PasswordResetToken, &u.PasswordResetTokenExpiresAt,
		&u.Birthday, &u.Rating, &u.ReviewsCount, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
