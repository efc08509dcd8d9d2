package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/estate-marketplace/internal/model"
)

const reviewColumns = "id, user_id, estate_id, rating, comment, created_at, updated_at"

// ReviewRepo persists reviews and owns the rating recompute. Every mutation
// runs in a single transaction: the target estate row is locked first, the
// review is written, then averageRating/reviewsCount are recomputed from
// the full review set and persisted. The lock makes the recompute atomic
// with the write and serializes concurrent recomputes per estate.
type ReviewRepo struct{ DB *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

// summarizeRatings returns the review count and unweighted mean of the
// ratings. The empty set is defined as (0, 0) rather than a division by
// zero.
func summarizeRatings(ratings []int) (avg float64, count int) {
	if len(ratings) == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings)), len(ratings)
}

// Create inserts a review and recomputes the estate's aggregates.
// Returns ErrEstateNotFound when the target estate does not exist.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = lockEstate(ctx, tx, rv.EstateID); err != nil {
		return err
	}
	var res sql.Result
	res, err = tx.ExecContext(ctx,
		"INSERT INTO reviews (user_id, estate_id, rating, comment) VALUES (?,?,?,?)",
		rv.UserID, rv.EstateID, rv.Rating, rv.Comment)
	if err != nil {
		return err
	}
	var id int64
	if id, err = res.LastInsertId(); err != nil {
		return err
	}
	rv.ID = uint64(id)
	if err = recomputeEstateRating(ctx, tx, rv.EstateID); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}

	got, err := r.GetByID(ctx, rv.ID)
	if err != nil {
		return err
	}
	*rv = *got
	return nil
}

// Update rewrites rating and comment of a review authored by authorID and
// recomputes the estate's aggregates.
func (r *ReviewRepo) Update(ctx context.Context, id, authorID uint64, rating int, comment string) (*model.Review, error) {
	rv, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rv.UserID != authorID {
		return nil, ErrForbidden
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = lockEstate(ctx, tx, rv.EstateID); err != nil {
		return nil, err
	}
	if _, err = tx.ExecContext(ctx,
		"UPDATE reviews SET rating=?, comment=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		rating, comment, id); err != nil {
		return nil, err
	}
	if err = recomputeEstateRating(ctx, tx, rv.EstateID); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a review authored by authorID and recomputes the estate's
// aggregates.
func (r *ReviewRepo) Delete(ctx context.Context, id, authorID uint64) error {
	rv, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rv.UserID != authorID {
		return ErrForbidden
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = lockEstate(ctx, tx, rv.EstateID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM reviews WHERE id=?", id); err != nil {
		return err
	}
	if err = recomputeEstateRating(ctx, tx, rv.EstateID); err != nil {
		return err
	}
	return tx.Commit()
}

// GetByID fetches one review.
func (r *ReviewRepo) GetByID(ctx context.Context, id uint64) (*model.Review, error) {
	var rv model.Review
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE id=? LIMIT 1", id).
		Scan(&rv.ID, &rv.UserID, &rv.EstateID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &rv, nil
}

// ListByAuthor returns reviews written by the user, newest first.
func (r *ReviewRepo) ListByAuthor(ctx context.Context, userID uint64) ([]*model.Review, error) {
	return r.list(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE user_id=? ORDER BY id DESC", userID)
}

// ListReceived returns reviews left on estates owned by the user.
func (r *ReviewRepo) ListReceived(ctx context.Context, ownerID uint64) ([]*model.Review, error) {
	return r.list(ctx,
		`SELECT r.id, r.user_id, r.estate_id, r.rating, r.comment, r.created_at, r.updated_at
		 FROM reviews r JOIN estates e ON e.id = r.estate_id
		 WHERE e.user_id=? ORDER BY r.id DESC`, ownerID)
}

func (r *ReviewRepo) list(ctx context.Context, q string, args ...any) ([]*model.Review, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Review{}
	for rows.Next() {
		rv := new(model.Review)
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.EstateID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// lockEstate takes a row lock on the estate for the duration of the
// transaction. A concurrently deleted estate surfaces as ErrEstateNotFound
// instead of being silently swallowed.
func lockEstate(ctx context.Context, tx *sql.Tx, estateID uint64) error {
	var id uint64
	err := tx.QueryRowContext(ctx, "SELECT id FROM estates WHERE id=? FOR UPDATE", estateID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrEstateNotFound
	}
	return err
}

// recomputeEstateRating reloads every rating for the estate, summarizes
// them and persists the aggregates. Must run inside the transaction that
// mutated the review set.
func recomputeEstateRating(ctx context.Context, tx *sql.Tx, estateID uint64) error {
	rows, err := tx.QueryContext(ctx, "SELECT rating FROM reviews WHERE estate_id=?", estateID)
	if err != nil {
		return err
	}
	defer rows.Close()

	var ratings []int
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return err
		}
		ratings = append(ratings, n)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	avg, count := summarizeRatings(ratings)
	_, err = tx.ExecContext(ctx,
		"UPDATE estates SET average_rating=?, reviews_count=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		avg, count, estateID)
	return err
}
