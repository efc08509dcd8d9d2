package handler

import (
	"fmt"
	"net/http"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/estate-marketplace/internal/middleware"
	"github.com/iliyamo/estate-marketplace/internal/model"
	"github.com/iliyamo/estate-marketplace/internal/repository"
)

const seedEstateCount = 50

// SeedHandler regenerates demo data. Admin only; the route is gated by the
// role middleware.
type SeedHandler struct {
	Estates *repository.EstateRepo
}

func NewSeedHandler(e *repository.EstateRepo) *SeedHandler {
	return &SeedHandler{Estates: e}
}

// SeedEstates wipes all estates and reviews, then inserts a fresh batch of
// generated listings owned by the calling admin.
func (h *SeedHandler) SeedEstates(c echo.Context) error {
	uid, _ := middleware.UserID(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Estates.DeleteAll(ctx); err != nil {
		return failInternal(c)
	}

	for i := 0; i < seedEstateCount; i++ {
		e := fakeEstate(uid)
		if err := h.Estates.Create(ctx, e); err != nil {
			return failInternal(c)
		}
	}
	return respond(c, http.StatusCreated,
		fmt.Sprintf("Seeded %d estates", seedEstateCount), nil)
}

func fakeEstate(ownerID uint64) *model.Estate {
	categories := []string{model.CategoryRent, model.CategorySale}
	category := categories[gofakeit.Number(0, len(categories)-1)]

	types := []string{
		model.TypeApartment, model.TypeHouse, model.TypeVilla, model.TypeStudio,
		model.TypeOffice, model.TypeLand, model.TypeCommercial,
	}
	conditions := []string{model.ConditionNew, model.ConditionRenovated, model.ConditionOld}
	statuses := []string{model.StatusAvailable, model.StatusRented, model.StatusSold, model.StatusPending}
	amenities := model.Amenities()

	rentPeriod := ""
	if category == model.CategoryRent {
		periods := []string{
			model.RentPeriodDaily, model.RentPeriodWeekly,
			model.RentPeriodMonthly, model.RentPeriodYearly,
		}
		rentPeriod = periods[gofakeit.Number(0, len(periods)-1)]
	}

	picked := []string{}
	for _, a := range amenities {
		if gofakeit.Bool() {
			picked = append(picked, a)
		}
	}

	addr := gofakeit.Address()
	return &model.Estate{
		UserID:      ownerID,
		Category:    category,
		Type:        types[gofakeit.Number(0, len(types)-1)],
		Condition:   conditions[gofakeit.Number(0, len(conditions)-1)],
		Status:      statuses[gofakeit.Number(0, len(statuses)-1)],
		RentPeriod:  rentPeriod,
		Title:       gofakeit.Sentence(4),
		Description: gofakeit.Paragraph(1, 3, 12, " "),
		Price:       gofakeit.Price(200, 2_000_000),
		Images: []string{
			gofakeit.URL(),
			gofakeit.URL(),
		},
		TotalFloors:     gofakeit.Number(1, 30),
		FloorNumber:     gofakeit.Number(0, 30),
		Bedrooms:        gofakeit.Number(1, 6),
		Bathrooms:       gofakeit.Number(1, 4),
		Area:            gofakeit.Number(25, 600),
		YearBuilt:       gofakeit.Number(1950, 2025),
		Amenities:       picked,
		PriceNegotiable: gofakeit.Bool(),
		OpenToVisitors:  gofakeit.Bool(),
		Location: model.Location{
			Latitude:  addr.Latitude,
			Longitude: addr.Longitude,
			City:      addr.City,
			State:     addr.State,
			Country:   gofakeit.Country(),
		},
	}
}
