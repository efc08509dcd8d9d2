// Package router wires handlers onto the Echo instance. Route-level guards
// live here so the full access picture of the API is visible in one place.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/estate-marketplace/internal/handler"
	"github.com/iliyamo/estate-marketplace/internal/middleware"
	"github.com/iliyamo/estate-marketplace/internal/model"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth    *handler.AuthHandler
	Estates *handler.EstateHandler
	Reviews *handler.ReviewHandler
	Seed    *handler.SeedHandler

	// Cache wraps the public estate reads. Nil or pass-through when Redis
	// is unavailable.
	Cache echo.MiddlewareFunc
}

// Register mounts every route. The authentication gate itself runs
// globally (set up in main); here only the per-route guards apply.
func Register(e *echo.Echo, h Handlers) {
	e.GET("/healthz", handler.Health)

	api := e.Group("/api")

	// Account and sessions.
	api.POST("/sign-up", h.Auth.SignUp)
	api.POST("/sign-in", h.Auth.SignIn)
	api.POST("/sign-out", h.Auth.SignOut, middleware.RequireAuth)
	api.GET("/get-me", h.Auth.GetMe, middleware.RequireAuth)
	api.PUT("/update-me", h.Auth.UpdateMe, middleware.RequireAuth)
	api.DELETE("/delete-me", h.Auth.DeleteMe, middleware.RequireAuth)
	api.GET("/get-active-sessions", h.Auth.GetActiveSessions, middleware.RequireAuth)
	api.DELETE("/delete-session/:id", h.Auth.DeleteSession, middleware.RequireAuth)
	api.DELETE("/delete-all-sessions", h.Auth.DeleteAllSessions, middleware.RequireAuth)
	api.POST("/verify-email/:token", h.Auth.VerifyEmail)
	api.POST("/forgot-password", h.Auth.ForgotPassword)
	api.PUT("/reset-password/:token", h.Auth.ResetPassword)

	// Estates. The two public reads go through the response cache.
	cached := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	if h.Cache != nil {
		cached = h.Cache
	}
	api.GET("/get-estates", h.Estates.GetEstates, cached)
	api.GET("/get-estate/:id", h.Estates.GetEstate)
	api.GET("/get-top-viewed-estates-by/:by", h.Estates.GetTopViewedEstatesBy, cached)
	api.POST("/create-estate", h.Estates.CreateEstate, middleware.RequireAuth)
	api.PUT("/update-estate/:id", h.Estates.UpdateEstate, middleware.RequireAuth)
	api.DELETE("/delete-estate/:id", h.Estates.DeleteEstate, middleware.RequireAuth)
	api.GET("/get-my-estates", h.Estates.GetMyEstates, middleware.RequireAuth)

	// Reviews.
	api.POST("/create-review/:estateId", h.Reviews.CreateReview, middleware.RequireAuth)
	api.PUT("/update-review/:id", h.Reviews.UpdateReview, middleware.RequireAuth)
	api.DELETE("/delete-review/:id", h.Reviews.DeleteReview, middleware.RequireAuth)
	api.GET("/get-created-reviews", h.Reviews.GetCreatedReviews, middleware.RequireAuth)
	api.GET("/get-received-reviews", h.Reviews.GetReceivedReviews, middleware.RequireAuth)

	// Demo data.
	api.POST("/seed-estates", h.Seed.SeedEstates,
		middleware.RequireAuth, middleware.RequireRole(model.RoleAdmin))
}
