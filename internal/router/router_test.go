package router

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRegisterRouteTable(t *testing.T) {
	t.Parallel()

	e := echo.New()
	Register(e, Handlers{})

	registered := map[string]bool{}
	for _, r := range e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	want := []string{
		http.MethodGet + " /healthz",
		http.MethodPost + " /api/sign-up",
		http.MethodPost + " /api/sign-in",
		http.MethodPost + " /api/sign-out",
		http.MethodGet + " /api/get-me",
		http.MethodPut + " /api/update-me",
		http.MethodDelete + " /api/delete-me",
		http.MethodGet + " /api/get-active-sessions",
		http.MethodDelete + " /api/delete-session/:id",
		http.MethodDelete + " /api/delete-all-sessions",
		http.MethodPost + " /api/verify-email/:token",
		http.MethodPost + " /api/forgot-password",
		http.MethodPut + " /api/reset-password/:token",
		http.MethodGet + " /api/get-estates",
		http.MethodGet + " /api/get-estate/:id",
		http.MethodGet + " /api/get-top-viewed-estates-by/:by",
		http.MethodPost + " /api/create-estate",
		http.MethodPut + " /api/update-estate/:id",
		http.MethodDelete + " /api/delete-estate/:id",
		http.MethodGet + " /api/get-my-estates",
		http.MethodPost + " /api/create-review/:estateId",
		http.MethodPut + " /api/update-review/:id",
		http.MethodDelete + " /api/delete-review/:id",
		http.MethodGet + " /api/get-created-reviews",
		http.MethodGet + " /api/get-received-reviews",
		http.MethodPost + " /api/seed-estates",
	}
	for _, route := range want {
		assert.True(t, registered[route], "missing route %s", route)
	}
}
