package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/estate-marketplace/internal/validation"
)

// Failure titles form the error taxonomy. Every failure response carries
// {status, message, title}; stack traces and internal identifiers stay in
// the server log.
const (
	titleDuplicateEmail     = "DuplicateEmail"
	titleInvalidCredentials = "InvalidCredentials"
	titleNotFound           = "NotFound"
	titleValidationFailed   = "ValidationFailed"
	titleForbidden          = "Forbidden"
	titleInternalError      = "InternalError"
)

// respond writes the success envelope used across the API.
func respond(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, echo.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

// fail writes the uniform failure shape.
func fail(c echo.Context, status int, title, message string) error {
	return c.JSON(status, echo.Map{
		"status":  status,
		"message": message,
		"title":   title,
	})
}

// failValidation writes a 400 with field-level detail.
func failValidation(c echo.Context, errs []validation.FieldError) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"status":  http.StatusBadRequest,
		"message": "Validation failed",
		"title":   titleValidationFailed,
		"errors":  errs,
	})
}

func failNotFound(c echo.Context, message string) error {
	return fail(c, http.StatusNotFound, titleNotFound, message)
}

func failInternal(c echo.Context) error {
	return fail(c, http.StatusInternalServerError, titleInternalError, "Something went wrong!")
}

// ErrorHandler is the Echo catch-all for anything handlers did not
// classify. The real cause is logged server-side only.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	log.Printf("unhandled error: %v", err)
	if he, ok := err.(*echo.HTTPError); ok && he.Code == http.StatusNotFound {
		_ = failNotFound(c, "Route not found")
		return
	}
	_ = failInternal(c)
}

// reqCtx bounds the duration of database calls issued by one handler.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
