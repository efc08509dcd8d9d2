package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/estate-marketplace/internal/middleware"
	"github.com/iliyamo/estate-marketplace/internal/model"
	"github.com/iliyamo/estate-marketplace/internal/repository"
	"github.com/iliyamo/estate-marketplace/internal/validation"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// EstateHandler serves the listing endpoints.
type EstateHandler struct {
	Estates *repository.EstateRepo
}

func NewEstateHandler(e *repository.EstateRepo) *EstateHandler {
	return &EstateHandler{Estates: e}
}

// ----- DTOs -----

type locationReq struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	City      string  `json:"city" validate:"required,min=2"`
	State     string  `json:"state" validate:"required,min=2"`
	Country   string  `json:"country" validate:"required,min=2"`
}

type createEstateReq struct {
	Category        string      `json:"category" validate:"required,category"`
	Type            string      `json:"type" validate:"required,estate_type"`
	Condition       string      `json:"condition" validate:"required,condition"`
	Status          string      `json:"status" validate:"omitempty,status"`
	RentPeriod      string      `json:"rentPeriod" validate:"omitempty,rent_period"`
	Title           string      `json:"title" validate:"required,min=2"`
	Description     string      `json:"description" validate:"required,min=10"`
	Price           float64     `json:"price" validate:"required,gt=0"`
	Images          []string    `json:"images" validate:"omitempty,dive,url"`
	VideoURL        *string     `json:"videoUrl" validate:"omitempty,url"`
	FloorPlanURL    *string     `json:"floorPlanUrl" validate:"omitempty,url"`
	TotalFloors     int         `json:"totalFloors" validate:"gte=0"`
	FloorNumber     int         `json:"floorNumber" validate:"gte=0"`
	Bedrooms        int         `json:"bedrooms" validate:"gte=0"`
	Bathrooms       int         `json:"bathrooms" validate:"gte=0"`
	Area            int         `json:"area" validate:"required,gt=0"`
	YearBuilt       int         `json:"yearBuilt" validate:"omitempty,gte=1800"`
	Amenities       []string    `json:"amenities" validate:"omitempty,dive,amenity"`
	PriceNegotiable bool        `json:"priceNegotiable"`
	OpenToVisitors  bool        `json:"openToVisitors"`
	Location        locationReq `json:"location" validate:"required"`
}

type updateEstateReq struct {
	Category        *string      `json:"category" validate:"omitempty,category"`
	Type            *string      `json:"type" validate:"omitempty,estate_type"`
	Condition       *string      `json:"condition" validate:"omitempty,condition"`
	Status          *string      `json:"status" validate:"omitempty,status"`
	RentPeriod      *string      `json:"rentPeriod" validate:"omitempty,rent_period"`
	Title           *string      `json:"title" validate:"omitempty,min=2"`
	Description     *string      `json:"description" validate:"omitempty,min=10"`
	Price           *float64     `json:"price" validate:"omitempty,gt=0"`
	Images          []string     `json:"images" validate:"omitempty,dive,url"`
	VideoURL        *string      `json:"videoUrl" validate:"omitempty,url"`
	FloorPlanURL    *string      `json:"floorPlanUrl" validate:"omitempty,url"`
	TotalFloors     *int         `json:"totalFloors" validate:"omitempty,gte=0"`
	FloorNumber     *int         `json:"floorNumber" validate:"omitempty,gte=0"`
	Bedrooms        *int         `json:"bedrooms" validate:"omitempty,gte=0"`
	Bathrooms       *int         `json:"bathrooms" validate:"omitempty,gte=0"`
	Area            *int         `json:"area" validate:"omitempty,gt=0"`
	YearBuilt       *int         `json:"yearBuilt" validate:"omitempty,gte=1800"`
	Amenities       []string     `json:"amenities" validate:"omitempty,dive,amenity"`
	PriceNegotiable *bool        `json:"priceNegotiable"`
	OpenToVisitors  *bool        `json:"openToVisitors"`
	Location        *locationReq `json:"location"`
}

// parseEstateFilter builds a typed filter from the query string. Every
// recognized parameter is validated here; an unknown enum value, malformed
// number or unknown sort key is a field error, not a silent drop.
func parseEstateFilter(c echo.Context) (repository.EstateFilter, []validation.FieldError) {
	f := repository.EstateFilter{
		Page:     1,
		Limit:    defaultPageLimit,
		SortBy:   "created_at",
		SortDesc: true,
	}
	var errs []validation.FieldError
	bad := func(field, msg string) {
		errs = append(errs, validation.FieldError{Field: field, Message: msg})
	}

	f.Search = strings.TrimSpace(c.QueryParam("search"))

	if v := c.QueryParam("minPrice"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil || p < 0 {
			bad("minPrice", "must be a non-negative number")
		} else {
			f.MinPrice = &p
		}
	}
	if v := c.QueryParam("maxPrice"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil || p < 0 {
			bad("maxPrice", "must be a non-negative number")
		} else {
			f.MaxPrice = &p
		}
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		bad("minPrice", "must not exceed maxPrice")
	}

	enumParam := func(name string, valid func(string) bool, dst *string) {
		v := c.QueryParam(name)
		if v == "" {
			return
		}
		v = model.NormalizeEnum(v)
		if !valid(v) {
			bad(name, "is not a valid value")
			return
		}
		*dst = v
	}
	enumParam("category", model.ValidCategory, &f.Category)
	enumParam("type", model.ValidType, &f.Type)
	enumParam("condition", model.ValidCondition, &f.Condition)
	enumParam("status", model.ValidStatus, &f.Status)
	enumParam("rentPeriod", model.ValidRentPeriod, &f.RentPeriod)

	// Amenities arrive "-"-joined, e.g. amenities=PARKING-POOL.
	if v := c.QueryParam("amenities"); v != "" {
		for _, a := range strings.Split(v, "-") {
			a = model.NormalizeEnum(a)
			if a == "" {
				continue
			}
			if !model.ValidAmenity(a) {
				bad("amenities", "contains an invalid value")
				break
			}
			f.Amenities = append(f.Amenities, a)
		}
	}

	if v := c.QueryParam("openToVisitors"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			bad("openToVisitors", "must be a boolean")
		} else {
			f.OpenToVisitors = &b
		}
	}

	if v := c.QueryParam("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			bad("page", "must be a positive integer")
		} else {
			f.Page = n
		}
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPageLimit {
			bad("limit", "must be between 1 and "+strconv.Itoa(maxPageLimit))
		} else {
			f.Limit = n
		}
	}

	// sortBy uses a leading '-' for descending, e.g. "-createdAt".
	if v := c.QueryParam("sortBy"); v != "" {
		key := v
		desc := false
		if strings.HasPrefix(key, "-") {
			desc = true
			key = key[1:]
		}
		col, ok := repository.SortColumn(key)
		if !ok {
			bad("sortBy", "is not a sortable field")
		} else {
			f.SortBy = col
			f.SortDesc = desc
		}
	}

	return f, errs
}

// GetEstates runs the filtered, paginated listing search.
func (h *EstateHandler) GetEstates(c echo.Context) error {
	f, errs := parseEstateFilter(c)
	if errs != nil {
		return failValidation(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	estates, total, err := h.Estates.Search(ctx, f)
	if err != nil {
		return failInternal(c)
	}
	return respond(c, http.StatusOK, "Estates fetched successfully", echo.Map{
		"estates":    estates,
		"total":      total,
		"pagination": repository.NewPagination(f.Page, f.Limit, total),
	})
}

// CreateEstate creates a listing owned by the caller.
func (h *EstateHandler) CreateEstate(c echo.Context) error {
	uid, _ := middleware.UserID(c)

	var req createEstateReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, titleValidationFailed, "Invalid request body")
	}
	normalizeCreateEstate(&req)
	if errs := validation.Check(req); errs != nil {
		return failValidation(c, errs)
	}
	if req.Category == model.CategoryRent && req.RentPeriod == "" {
		return failValidation(c, []validation.FieldError{
			{Field: "rentPeriod", Message: "is required for rentals"},
		})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	e := &model.Estate{
		UserID:          uid,
		Category:        req.Category,
		Type:            req.Type,
		Condition:       req.Condition,
		Status:          req.Status,
		RentPeriod:      req.RentPeriod,
		Title:           req.Title,
		Description:     req.Description,
		Price:           req.Price,
		Images:          req.Images,
		VideoURL:        req.VideoURL,
		FloorPlanURL:    req.FloorPlanURL,
		TotalFloors:     req.TotalFloors,
		FloorNumber:     req.FloorNumber,
		Bedrooms:        req.Bedrooms,
		Bathrooms:       req.Bathrooms,
		Area:            req.Area,
		YearBuilt:       req.YearBuilt,
		Amenities:       req.Amenities,
		PriceNegotiable: req.PriceNegotiable,
		OpenToVisitors:  req.OpenToVisitors,
		Location: model.Location{
			Latitude:  req.Location.Latitude,
			Longitude: req.Location.Longitude,
			City:      req.Location.City,
			State:     req.Location.State,
			Country:   req.Location.Country,
		},
	}
	if err := h.Estates.Create(ctx, e); err != nil {
		return failInternal(c)
	}
	return respond(c, http.StatusCreated, "Estate created successfully", e)
}

// GetEstate fetches one listing and bumps its view counter. The bump is
// fire-and-forget relative to the read: a failed increment never hides the
// estate.
func (h *EstateHandler) GetEstate(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, titleValidationFailed, "Invalid estate id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	_ = h.Estates.IncrementViews(ctx, id)

	e, err := h.Estates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEstateNotFound) {
			return failNotFound(c, "Estate not found")
		}
		return failInternal(c)
	}
	return respond(c, http.StatusOK, "Estate fetched successfully", e)
}

// UpdateEstate applies a partial update to a listing the caller owns.
func (h *EstateHandler) UpdateEstate(c echo.Context) error {
	uid, _ := middleware.UserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, titleValidationFailed, "Invalid estate id")
	}

	var req updateEstateReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, titleValidationFailed, "Invalid request body")
	}
	normalizeUpdateEstate(&req)
	if errs := validation.Check(req); errs != nil {
		return failValidation(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	upd := repository.EstateUpdate{
		Category:        req.Category,
		Type:            req.Type,
		Condition:       req.Condition,
		Status:          req.Status,
		RentPeriod:      req.RentPeriod,
		Title:           req.Title,
		Description:     req.Description,
		Price:           req.Price,
		Images:          req.Images,
		VideoURL:        req.VideoURL,
		FloorPlanURL:    req.FloorPlanURL,
		TotalFloors:     req.TotalFloors,
		FloorNumber:     req.FloorNumber,
		Bedrooms:        req.Bedrooms,
		Bathrooms:       req.Bathrooms,
		Area:            req.Area,
		YearBuilt:       req.YearBuilt,
		Amenities:       req.Amenities,
		PriceNegotiable: req.PriceNegotiable,
		OpenToVisitors:  req.OpenToVisitors,
	}
	if req.Location != nil {
		upd.Location = &model.Location{
			Latitude:  req.Location.Latitude,
			Longitude: req.Location.Longitude,
			City:      req.Location.City,
			State:     req.Location.State,
			Country:   req.Location.Country,
		}
	}

	e, err := h.Estates.Update(ctx, id, uid, upd)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEstateNotFound):
			return failNotFound(c, "Estate not found")
		case errors.Is(err, repository.ErrForbidden):
			return fail(c, http.StatusForbidden, titleForbidden, "You do not own this estate")
		}
		return failInternal(c)
	}
	return respond(c, http.StatusOK, "Estate updated successfully", e)
}

// DeleteEstate removes a listing the caller owns, reviews included.
func (h *EstateHandler) DeleteEstate(c echo.Context) error {
	uid, _ := middleware.UserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, titleValidationFailed, "Invalid estate id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Estates.Delete(ctx, id, uid); err != nil {
		switch {
		case errors.Is(err, repository.ErrEstateNotFound):
			return failNotFound(c, "Estate not found")
		case errors.Is(err, repository.ErrForbidden):
			return fail(c, http.StatusForbidden, titleForbidden, "You do not own this estate")
		}
		return failInternal(c)
	}
	return respond(c, http.StatusOK, "Estate deleted successfully", nil)
}

// GetMyEstates lists the caller's own estates through the same filter and
// pagination machinery as the public search.
func (h *EstateHandler) GetMyEstates(c echo.Context) error {
	uid, _ := middleware.UserID(c)

	f, errs := parseEstateFilter(c)
	if errs != nil {
		return failValidation(c, errs)
	}
	f.OwnerID = uid

	ctx, cancel := reqCtx(c)
	defer cancel()

	estates, total, err := h.Estates.Search(ctx, f)
	if err != nil {
		return failInternal(c)
	}
	return respond(c, http.StatusOK, "Estates fetched successfully", echo.Map{
		"estates":    estates,
		"total":      total,
		"pagination": repository.NewPagination(f.Page, f.Limit, total),
	})
}

// GetTopViewedEstatesBy groups estates by a whitelisted field and returns
// the three groups with the highest peak view count.
func (h *EstateHandler) GetTopViewedEstatesBy(c echo.Context) error {
	col, ok := repository.GroupColumn(c.Param("by"))
	if !ok {
		return fail(c, http.StatusBadRequest, titleValidationFailed, "Invalid grouping field")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	groups, err := h.Estates.TopViewedBy(ctx, col)
	if err != nil {
		return failInternal(c)
	}
	return respond(c, http.StatusOK, "Top viewed estates fetched successfully", groups)
}

func normalizeCreateEstate(req *createEstateReq) {
	req.Category = model.NormalizeEnum(req.Category)
	req.Type = model.NormalizeEnum(req.Type)
	req.Condition = model.NormalizeEnum(req.Condition)
	req.Status = model.NormalizeEnum(req.Status)
	req.RentPeriod = model.NormalizeEnum(req.RentPeriod)
	for i, a := range req.Amenities {
		req.Amenities[i] = model.NormalizeEnum(a)
	}
}

func normalizeUpdateEstate(req *updateEstateReq) {
	norm := func(p *string) {
		if p != nil {
			*p = model.NormalizeEnum(*p)
		}
	}
	norm(req.Category)
	norm(req.Type)
	norm(req.Condition)
	norm(req.Status)
	norm(req.RentPeriod)
	for i, a := range req.Amenities {
		req.Amenities[i] = model.NormalizeEnum(a)
	}
}
