package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/estate-marketplace/internal/model"
)

func TestSummarizeRatings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		ratings   []int
		wantAvg   float64
		wantCount int
	}{
		{"empty set is zero not NaN", nil, 0, 0},
		{"single", []int{4}, 4, 1},
		{"pair", []int{4, 2}, 3, 2},
		{"all fives", []int{5, 5, 5}, 5, 3},
		{"uneven mean", []int{5, 4}, 4.5, 2},
		{"bounds", []int{1, 5}, 3, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			avg, count := summarizeRatings(tt.ratings)
			assert.Equal(t, tt.wantAvg, avg)
			assert.Equal(t, tt.wantCount, count)
		})
	}
}

func TestReviewCreateRecomputesAggregates(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM estates WHERE id=\\? FOR UPDATE").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(uint64(7), uint64(3), 4, "solid place").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery("SELECT rating FROM reviews WHERE estate_id=\\?").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"rating"}).AddRow(4).AddRow(2))
	mock.ExpectExec("UPDATE estates SET average_rating=\\?, reviews_count=\\?").
		WithArgs(3.0, 2, uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT (.+) FROM reviews WHERE id=\\?").
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "estate_id", "rating", "comment", "created_at", "updated_at",
		}).AddRow(11, 7, 3, 4, "solid place", now, now))

	repo := NewReviewRepo(db)
	rv := &model.Review{UserID: 7, EstateID: 3, Rating: 4, Comment: "solid place"}
	require.NoError(t, repo.Create(context.Background(), rv))

	assert.Equal(t, uint64(11), rv.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewCreateMissingEstate(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM estates WHERE id=\\? FOR UPDATE").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	repo := NewReviewRepo(db)
	rv := &model.Review{UserID: 7, EstateID: 99, Rating: 5}
	err = repo.Create(context.Background(), rv)

	assert.ErrorIs(t, err, ErrEstateNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewDeleteByNonAuthor(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM reviews WHERE id=\\?").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "estate_id", "rating", "comment", "created_at", "updated_at",
		}).AddRow(5, 1, 3, 4, "", now, now))

	repo := NewReviewRepo(db)
	err = repo.Delete(context.Background(), 5, 2)

	// No transaction starts when the author check fails.
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewDeleteRecomputesToZero(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM reviews WHERE id=\\?").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "estate_id", "rating", "comment", "created_at", "updated_at",
		}).AddRow(5, 2, 3, 4, "", now, now))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM estates WHERE id=\\? FOR UPDATE").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec("DELETE FROM reviews WHERE id=\\?").
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT rating FROM reviews WHERE estate_id=\\?").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"rating"}))
	mock.ExpectExec("UPDATE estates SET average_rating=\\?, reviews_count=\\?").
		WithArgs(0.0, 0, uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewReviewRepo(db)
	require.NoError(t, repo.Delete(context.Background(), 5, 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}
