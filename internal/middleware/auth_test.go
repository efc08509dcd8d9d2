package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/estate-marketplace/internal/repository"
	"github.com/iliyamo/estate-marketplace/internal/utils"
)

const testSecret = "gate-test-secret"

func userRows(id uint64, role string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "first_name", "last_name", "email", "password_hash", "role",
		"phone_number", "image_url", "about", "is_active", "is_verified", "is_deleted",
		"verification_token", "verification_token_expires_at",
		"password_reset_token", "password_reset_token_expires_at",
		"birthday", "rating", "reviews_count", "created_at", "updated_at",
	}).AddRow(id, "Ada", "Lovelace", "ada@example.com", "$2a$04$hash", role,
		nil, nil, nil, true, true, false,
		nil, nil, nil, nil,
		nil, 0.0, 0, now, now)
}

func sessionRows(id, userID uint64) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "user_id", "valid", "user_agent", "created_at", "updated_at"}).
		AddRow(id, userID, true, "test", now, now)
}

// runGate sends a request through Authenticate into a probe handler that
// records what identity, if any, was resolved.
func runGate(t *testing.T, cookie *http.Cookie, users *repository.UserRepo, sessions *repository.SessionRepo) (gotUID uint64, gotOK bool, gotSID uint64) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Authenticate(testSecret, users, sessions)(func(c echo.Context) error {
		gotUID, gotOK = UserID(c)
		gotSID, _ = SessionID(c)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return gotUID, gotOK, gotSID
}

func TestAuthenticateResolvesIdentity(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM users WHERE id=\\?").
		WithArgs(uint64(42)).
		WillReturnRows(userRows(42, "USER"))
	mock.ExpectQuery("FROM sessions WHERE user_id=\\? AND valid=1").
		WithArgs(uint64(42)).
		WillReturnRows(sessionRows(9, 42))

	tok, err := utils.NewAuthToken(testSecret, 42, time.Hour)
	require.NoError(t, err)

	uid, ok, sid := runGate(t, &http.Cookie{Name: TokenCookie, Value: tok.Token},
		repository.NewUserRepo(db), repository.NewSessionRepo(db))

	assert.True(t, ok)
	assert.Equal(t, uint64(42), uid)
	assert.Equal(t, uint64(9), sid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthenticateWithoutCookie(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, ok, _ := runGate(t, nil,
		repository.NewUserRepo(db), repository.NewSessionRepo(db))

	// No database access happens without a cookie.
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthenticateBadToken(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tok, err := utils.NewAuthToken("some-other-secret", 42, time.Hour)
	require.NoError(t, err)

	_, ok, _ := runGate(t, &http.Cookie{Name: TokenCookie, Value: tok.Token},
		repository.NewUserRepo(db), repository.NewSessionRepo(db))

	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthenticateNoLiveSession(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM users WHERE id=\\?").
		WithArgs(uint64(42)).
		WillReturnRows(userRows(42, "USER"))
	// Every session was invalidated: the token is still unexpired, yet no
	// identity must be resolved.
	mock.ExpectQuery("FROM sessions WHERE user_id=\\? AND valid=1").
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "valid", "user_agent", "created_at", "updated_at"}))

	tok, err := utils.NewAuthToken(testSecret, 42, time.Hour)
	require.NoError(t, err)

	_, ok, _ := runGate(t, &http.Cookie{Name: TokenCookie, Value: tok.Token},
		repository.NewUserRepo(db), repository.NewSessionRepo(db))

	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	e := echo.New()

	t.Run("anonymous gets 401", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := RequireAuth(func(c echo.Context) error {
			t.Fatal("handler must not run")
			return nil
		})(c)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("resolved identity passes", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("user_id", uint64(1))

		called := false
		err := RequireAuth(func(c echo.Context) error {
			called = true
			return c.NoContent(http.StatusOK)
		})(c)
		require.NoError(t, err)
		assert.True(t, called)
	})
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	e := echo.New()

	tests := []struct {
		name     string
		role     any
		wantPass bool
	}{
		{"admin allowed", "ADMIN", true},
		{"user rejected", "USER", false},
		{"no role rejected", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tt.role != nil {
				c.Set("role", tt.role)
			}

			called := false
			err := RequireRole("ADMIN")(func(c echo.Context) error {
				called = true
				return c.NoContent(http.StatusOK)
			})(c)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPass, called)
			if !tt.wantPass {
				assert.Equal(t, http.StatusUnauthorized, rec.Code)
			}
		})
	}
}
