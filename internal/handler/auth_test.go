package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/estate-marketplace/internal/config"
	"github.com/iliyamo/estate-marketplace/internal/mail"
	"github.com/iliyamo/estate-marketplace/internal/repository"
	"github.com/iliyamo/estate-marketplace/internal/utils"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:    "handler-test-secret",
		JWTExpiresIn: time.Hour,
		BcryptCost:   bcrypt.MinCost,
		ClientURL:    "http://localhost:3000",
	}
}

func buildAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	h := NewAuthHandler(testConfig(),
		repository.NewUserRepo(db),
		repository.NewSessionRepo(db),
		mail.NewMailer(testConfig()))
	return h, mock, func() { db.Close() }
}

func jsonRequest(method, target, body string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req, httptest.NewRecorder()
}

func TestSignUpDuplicateEmail(t *testing.T) {
	t.Parallel()

	h, mock, closeDB := buildAuthHandler(t)
	defer closeDB()

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'ada@example.com'"))

	req, rec := jsonRequest(http.MethodPost, "/api/sign-up", `{
		"firstName":"Ada","lastName":"Lovelace",
		"email":"ada@example.com","password":"secret1","confirmPassword":"secret1"
	}`)
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.SignUp(c))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "DuplicateEmail")
	// No retry, no session row, no cookie.
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Empty(t, rec.Result().Cookies())
}

func TestSignUpRejectsShortPassword(t *testing.T) {
	t.Parallel()

	h, mock, closeDB := buildAuthHandler(t)
	defer closeDB()

	req, rec := jsonRequest(http.MethodPost, "/api/sign-up", `{
		"firstName":"Ada","lastName":"Lovelace",
		"email":"ada@example.com","password":"abc","confirmPassword":"abc"
	}`)
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.SignUp(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ValidationFailed")
	assert.Contains(t, rec.Body.String(), "password")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignUpRejectsMismatchedConfirmation(t *testing.T) {
	t.Parallel()

	h, mock, closeDB := buildAuthHandler(t)
	defer closeDB()

	req, rec := jsonRequest(http.MethodPost, "/api/sign-up", `{
		"firstName":"Ada","lastName":"Lovelace",
		"email":"ada@example.com","password":"secret1","confirmPassword":"secret2"
	}`)
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.SignUp(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignInWrongPassword(t *testing.T) {
	t.Parallel()

	h, mock, closeDB := buildAuthHandler(t)
	defer closeDB()

	hash, err := utils.HashPassword("right-password", bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now().UTC()
	mock.ExpectQuery("FROM users WHERE email=\\? AND is_deleted=0").
		WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "first_name", "last_name", "email", "password_hash", "role",
			"phone_number", "image_url", "about", "is_active", "is_verified", "is_deleted",
			"verification_token", "verification_token_expires_at",
			"password_reset_token", "password_reset_token_expires_at",
			"birthday", "rating", "reviews_count", "created_at", "updated_at",
		}).AddRow(1, "Ada", "Lovelace", "ada@example.com", hash, "USER",
			nil, nil, nil, true, true, false,
			nil, nil, nil, nil,
			nil, 0.0, 0, now, now))

	req, rec := jsonRequest(http.MethodPost, "/api/sign-in",
		`{"email":"ada@example.com","password":"wrong-password"}`)
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.SignIn(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "InvalidCredentials")
	// The failed attempt creates no session and sets no cookie.
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Empty(t, rec.Result().Cookies())
}

func TestDeleteMeSoftDeletesAndDropsSessions(t *testing.T) {
	t.Parallel()

	h, mock, closeDB := buildAuthHandler(t)
	defer closeDB()

	// The user row is flagged, never removed; session rows are removed.
	mock.ExpectExec("UPDATE users SET is_deleted=1").
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM sessions WHERE user_id=\\?").
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	req, rec := jsonRequest(http.MethodDelete, "/api/delete-me", "")
	c := echo.New().NewContext(req, rec)
	c.Set("user_id", uint64(7))

	require.NoError(t, h.DeleteMe(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())

	// The auth cookie is cleared alongside.
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestDeleteMeAlreadyDeleted(t *testing.T) {
	t.Parallel()

	h, mock, closeDB := buildAuthHandler(t)
	defer closeDB()

	mock.ExpectExec("UPDATE users SET is_deleted=1").
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	req, rec := jsonRequest(http.MethodDelete, "/api/delete-me", "")
	c := echo.New().NewContext(req, rec)
	c.Set("user_id", uint64(7))

	require.NoError(t, h.DeleteMe(c))

	// Sessions stay untouched when no user row was flagged.
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignInUnknownEmailSameShape(t *testing.T) {
	t.Parallel()

	h, mock, closeDB := buildAuthHandler(t)
	defer closeDB()

	mock.ExpectQuery("FROM users WHERE email=\\? AND is_deleted=0").
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	req, rec := jsonRequest(http.MethodPost, "/api/sign-in",
		`{"email":"ghost@example.com","password":"whatever1"}`)
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.SignIn(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "InvalidCredentials")
	assert.NoError(t, mock.ExpectationsWereMet())
}
