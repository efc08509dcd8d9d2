package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/estate-marketplace/internal/middleware"
	"github.com/iliyamo/estate-marketplace/internal/model"
	"github.com/iliyamo/estate-marketplace/internal/queue"
	"github.com/iliyamo/estate-marketplace/internal/repository"
	queue_publisher "github.com/iliyamo/estate-marketplace/internal/service"
	"github.com/iliyamo/estate-marketplace/internal/validation"
)

// ReviewHandler serves review endpoints and owns the review.created
// event fan-out.
type ReviewHandler struct {
	Reviews *repository.ReviewRepo
	Estates *repository.EstateRepo
}

func NewReviewHandler(r *repository.ReviewRepo, e *repository.EstateRepo) *ReviewHandler {
	return &ReviewHandler{Reviews: r, Estates: e}
}

type reviewReq struct {
	Rating  int    `json:"rating" validate:"required,rating"`
	Comment string `json:"comment" validate:"omitempty,max=1000"`
}

// CreateReview adds a review to an estate. The rating is validated before
// any store call; an out-of-range value never reaches the database. On
// success a review.created event is published asynchronously so the owner
// can be notified without holding the request open.
func (h *ReviewHandler) CreateReview(c echo.Context) error {
	uid, _ := middleware.UserID(c)
	estateID, err := strconv.ParseUint(c.Param("estateId"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, titleValidationFailed, "Invalid estate id")
	}

	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, titleValidationFailed, "Invalid request body")
	}
	if errs := validation.Check(req); errs != nil {
		return failValidation(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rv := &model.Review{
		UserID:   uid,
		EstateID: estateID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}
	if err := h.Reviews.Create(ctx, rv); err != nil {
		if errors.Is(err, repository.ErrEstateNotFound) {
			return failNotFound(c, "Estate not found")
		}
		return failInternal(c)
	}

	h.publishCreated(ctx, rv)

	return respond(c, http.StatusOK, "Review created successfully", rv)
}

// UpdateReview rewrites a review authored by the caller.
func (h *ReviewHandler) UpdateReview(c echo.Context) error {
	uid, _ := middleware.UserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, titleValidationFailed, "Invalid review id")
	}

	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, titleValidationFailed, "Invalid request body")
	}
	if errs := validation.Check(req); errs != nil {
		return failValidation(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rv, err := h.Reviews.Update(ctx, id, uid, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReviewNotFound):
			return failNotFound(c, "Review not found")
		case errors.Is(err, repository.ErrEstateNotFound):
			return failNotFound(c, "Estate not found")
		case errors.Is(err, repository.ErrForbidden):
			return fail(c, http.StatusForbidden, titleForbidden, "You do not own this review")
		}
		return failInternal(c)
	}
	return respond(c, http.StatusOK, "Review updated successfully", rv)
}

// DeleteReview removes a review authored by the caller.
func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	uid, _ := middleware.UserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, titleValidationFailed, "Invalid review id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Reviews.Delete(ctx, id, uid); err != nil {
		switch {
		case errors.Is(err, repository.ErrReviewNotFound):
			return failNotFound(c, "Review not found")
		case errors.Is(err, repository.ErrEstateNotFound):
			return failNotFound(c, "Estate not found")
		case errors.Is(err, repository.ErrForbidden):
			return fail(c, http.StatusForbidden, titleForbidden, "You do not own this review")
		}
		return failInternal(c)
	}
	return respond(c, http.StatusOK, "Review deleted successfully", nil)
}

// GetCreatedReviews lists reviews written by the caller.
func (h *ReviewHandler) GetCreatedReviews(c echo.Context) error {
	uid, _ := middleware.UserID(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	reviews, err := h.Reviews.ListByAuthor(ctx, uid)
	if err != nil {
		return failInternal(c)
	}
	return respond(c, http.StatusOK, "Reviews fetched successfully", reviews)
}

// GetReceivedReviews lists reviews left on estates the caller owns.
func (h *ReviewHandler) GetReceivedReviews(c echo.Context) error {
	uid, _ := middleware.UserID(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	reviews, err := h.Reviews.ListReceived(ctx, uid)
	if err != nil {
		return failInternal(c)
	}
	return respond(c, http.StatusOK, "Reviews fetched successfully", reviews)
}

// publishCreated loads the post-recompute estate and hands the event to the
// broker in the background. Event loss is tolerated; the review itself is
// already committed.
func (h *ReviewHandler) publishCreated(ctx context.Context, rv *model.Review) {
	e, err := h.Estates.GetByID(ctx, rv.EstateID)
	if err != nil {
		log.Printf("review: load estate %d for event failed: %v", rv.EstateID, err)
		return
	}
	ev := queue.ReviewCreatedEvent{
		EventID:       uuid.NewString(),
		ReviewID:      rv.ID,
		EstateID:      e.ID,
		EstateTitle:   e.Title,
		OwnerID:       e.UserID,
		AuthorID:      rv.UserID,
		Rating:        rv.Rating,
		AverageRating: e.AverageRating,
		ReviewsCount:  e.ReviewsCount,
		CreatedAt:     rv.CreatedAt.UTC().Format(time.RFC3339),
	}
	go func() {
		pctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishReviewCreated(pctx, ev)
	}()
}
