package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/estate-marketplace/internal/repository"
	"github.com/iliyamo/estate-marketplace/internal/utils"
	"github.com/iliyamo/estate-marketplace/internal/validation"
)

type forgotPasswordReq struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordReq struct {
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// VerifyEmail consumes a verification token from the link in the mail.
// Only the SHA-256 of the token is stored, so the raw path parameter is
// hashed before lookup.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	raw := c.Param("token")
	if raw == "" {
		return fail(c, http.StatusBadRequest, titleValidationFailed, "Missing token")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.VerifyByToken(ctx, utils.HashAccountToken(raw)); err != nil {
		if errors.Is(err, repository.ErrTokenInvalid) {
			return fail(c, http.StatusBadRequest, titleValidationFailed, "Invalid or expired token")
		}
		return failInternal(c)
	}
	return respond(c, http.StatusOK, "Email verified successfully", nil)
}

// ForgotPassword issues a reset token and mails the link. The response is
// 200 whether or not the email exists so the endpoint cannot be used to
// probe for accounts.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, titleValidationFailed, "Invalid request body")
	}
	if errs := validation.Check(req); errs != nil {
		return failValidation(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	const accepted = "If the email exists, a reset link has been sent"

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil || u.IsDeleted {
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			log.Printf("account: forgot-password lookup failed: %v", err)
		}
		return respond(c, http.StatusOK, accepted, nil)
	}

	raw, hash, err := utils.NewAccountToken()
	if err != nil {
		return failInternal(c)
	}
	exp := time.Now().UTC().Add(accountTokenTTL)
	if err := h.Users.SetPasswordResetToken(ctx, u.ID, hash, exp); err != nil {
		return failInternal(c)
	}
	if err := h.Mailer.SendPasswordResetEmail(u.Email, raw); err != nil {
		log.Printf("mail: reset send failed for user %d: %v", u.ID, err)
	}
	return respond(c, http.StatusOK, accepted, nil)
}

// ResetPassword rewrites the password for the holder of a live reset
// token. The token is single-use; the update burns it.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	raw := c.Param("token")
	if raw == "" {
		return fail(c, http.StatusBadRequest, titleValidationFailed, "Missing token")
	}

	var req resetPasswordReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, titleValidationFailed, "Invalid request body")
	}
	if errs := validation.Check(req); errs != nil {
		return failValidation(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.ResetPasswordByToken(ctx, utils.HashAccountToken(raw), req.Password, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrTokenInvalid) {
			return fail(c, http.StatusBadRequest, titleValidationFailed, "Invalid or expired token")
		}
		return failInternal(c)
	}
	return respond(c, http.StatusOK, "Password reset successfully", nil)
}
