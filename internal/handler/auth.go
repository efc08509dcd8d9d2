package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/estate-marketplace/internal/config"
	"github.com/iliyamo/estate-marketplace/internal/mail"
	"github.com/iliyamo/estate-marketplace/internal/middleware"
	"github.com/iliyamo/estate-marketplace/internal/model"
	"github.com/iliyamo/estate-marketplace/internal/repository"
	"github.com/iliyamo/estate-marketplace/internal/utils"
	"github.com/iliyamo/estate-marketplace/internal/validation"
)

// accountTokenTTL bounds verification and password reset tokens.
const accountTokenTTL = 10 * time.Minute

// AuthHandler bundles dependencies for account and session endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Sessions *repository.SessionRepo
	Mailer   *mail.Mailer
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, s *repository.SessionRepo, m *mail.Mailer) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Sessions: s, Mailer: m}
}

// ----- DTOs -----

type signUpReq struct {
	FirstName       string `json:"firstName" validate:"required,min=2"`
	LastName        string `json:"lastName" validate:"required,min=2"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type signInReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type updateMeReq struct {
	FirstName   *string    `json:"firstName" validate:"omitempty,min=2"`
	LastName    *string    `json:"lastName" validate:"omitempty,min=2"`
	PhoneNumber *string    `json:"phoneNumber"`
	ImageURL    *string    `json:"imageUrl"`
	About       *string    `json:"about" validate:"omitempty,max=1000"`
	Birthday    *time.Time `json:"birthday"`
	Password    *string    `json:"password" validate:"omitempty,min=6"`
}

// SignUp creates the user, opens its first session and sets the auth
// cookie. The session is created only after the token was issued so a
// failure mid-sequence leaves no half-open login behind.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, titleValidationFailed, "Invalid request body")
	}
	if errs := validation.Check(req); errs != nil {
		return failValidation(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u := &model.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Role:      model.RoleUser,
	}
	if err := h.Users.Create(ctx, u, req.Password, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return fail(c, http.StatusConflict, titleDuplicateEmail, "Email already exists")
		}
		return failInternal(c)
	}

	// Verification mail is best-effort; account creation already happened.
	if raw, hash, err := utils.NewAccountToken(); err == nil {
		exp := time.Now().UTC().Add(accountTokenTTL)
		if err := h.Users.SetVerificationToken(ctx, u.ID, hash, exp); err == nil {
			if err := h.Mailer.SendVerificationEmail(u.Email, raw); err != nil {
				log.Printf("mail: verification send failed for user %d: %v", u.ID, err)
			}
		}
	}

	tok, err := utils.NewAuthToken(h.Cfg.JWTSecret, u.ID, h.Cfg.JWTExpiresIn)
	if err != nil {
		return failInternal(c)
	}
	if _, err := h.Sessions.Create(ctx, u.ID, c.Request().UserAgent()); err != nil {
		return failInternal(c)
	}

	setAuthCookie(c, tok.Token, tok.Exp)
	return respond(c, http.StatusCreated, "Signed up successfully", u)
}

// SignIn verifies credentials, opens a new session and sets the cookie.
// Wrong email and wrong password produce identical responses, and no
// session row is created on failure.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, titleValidationFailed, "Invalid request body")
	}
	if errs := validation.Check(req); errs != nil {
		return failValidation(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByCredentials(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return fail(c, http.StatusUnauthorized, titleInvalidCredentials, "Invalid credentials")
		}
		return failInternal(c)
	}

	tok, err := utils.NewAuthToken(h.Cfg.JWTSecret, u.ID, h.Cfg.JWTExpiresIn)
	if err != nil {
		return failInternal(c)
	}
	if _, err := h.Sessions.Create(ctx, u.ID, c.Request().UserAgent()); err != nil {
		return failInternal(c)
	}

	setAuthCookie(c, tok.Token, tok.Exp)
	return respond(c, http.StatusOK, "Signed in successfully", u)
}

// SignOut invalidates the current session and clears the cookie. The token
// stays cryptographically valid until expiry, but without a live session
// the gate will no longer resolve an identity from it.
func (h *AuthHandler) SignOut(c echo.Context) error {
	uid, _ := middleware.UserID(c)
	sid, _ := middleware.SessionID(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Sessions.Invalidate(ctx, sid, uid); err != nil {
		return failInternal(c)
	}
	clearAuthCookie(c)
	return respond(c, http.StatusOK, "Signed out successfully", nil)
}

// GetMe returns the authenticated user.
func (h *AuthHandler) GetMe(c echo.Context) error {
	uid, _ := middleware.UserID(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return failNotFound(c, "User not found")
		}
		return failInternal(c)
	}
	return respond(c, http.StatusOK, "User fetched successfully", u)
}

// UpdateMe applies a partial profile update. A password change goes
// through the bcrypt helper inside the repository; the hash itself is
// never accepted from the client.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	uid, _ := middleware.UserID(c)

	var req updateMeReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, titleValidationFailed, "Invalid request body")
	}
	if errs := validation.Check(req); errs != nil {
		return failValidation(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.Update(ctx, uid, repository.UserUpdate{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		ImageURL:    req.ImageURL,
		About:       req.About,
		Birthday:    req.Birthday,
		Password:    req.Password,
	}, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return failNotFound(c, "User not found")
		}
		return failInternal(c)
	}
	return respond(c, http.StatusOK, "User updated successfully", u)
}

// DeleteMe soft-deletes the account and hard-deletes every session row.
// The user row stays for referential integrity; only the flag flips.
func (h *AuthHandler) DeleteMe(c echo.Context) error {
	uid, _ := middleware.UserID(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.SoftDelete(ctx, uid); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return failNotFound(c, "User not found")
		}
		return failInternal(c)
	}
	if err := h.Sessions.DeleteAllForUser(ctx, uid); err != nil {
		return failInternal(c)
	}
	clearAuthCookie(c)
	return respond(c, http.StatusOK, "Account deleted successfully", nil)
}

// GetActiveSessions lists the caller's valid sessions.
func (h *AuthHandler) GetActiveSessions(c echo.Context) error {
	uid, _ := middleware.UserID(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	sessions, err := h.Sessions.ListActive(ctx, uid)
	if err != nil {
		return failInternal(c)
	}
	return respond(c, http.StatusOK, "Active sessions fetched successfully", sessions)
}

// DeleteSession invalidates one session by id. Scoped to the caller, and
// idempotent like the underlying update.
func (h *AuthHandler) DeleteSession(c echo.Context) error {
	uid, _ := middleware.UserID(c)
	sid, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, titleValidationFailed, "Invalid session id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Sessions.Invalidate(ctx, sid, uid); err != nil {
		return failInternal(c)
	}
	return respond(c, http.StatusOK, "Session deleted successfully", nil)
}

// DeleteAllSessions invalidates every session of the caller, including the
// current one; the cookie is cleared along with it.
func (h *AuthHandler) DeleteAllSessions(c echo.Context) error {
	uid, _ := middleware.UserID(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Sessions.InvalidateAll(ctx, uid); err != nil {
		return failInternal(c)
	}
	clearAuthCookie(c)
	return respond(c, http.StatusOK, "All sessions deleted successfully", nil)
}

// setAuthCookie delivers the token as an HTTP-only, secure, cross-site
// cookie so browser clients on the frontend origin can use it.
func setAuthCookie(c echo.Context, token string, exp time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Expires:  exp,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func clearAuthCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
