package model

import "time"

// Location is embedded in an estate row as flat columns. The coordinate
// pair is stored and indexed but no query in the API uses it yet.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	Country   string  `json:"country"`
}

// Estate mirrors the 'estates' table: one property listing owned by a user.
// Images and Amenities are stored as JSON arrays in the row.
//
// AverageRating and ReviewsCount are derived state. They are written only
// by the review repository's recompute step; the estate update path never
// touches them.
type Estate struct {
	ID              uint64    `json:"id"`
	UserID          uint64    `json:"userId"`
	Category        string    `json:"category"`
	Type            string    `json:"type"`
	Condition       string    `json:"condition"`
	Status          string    `json:"status"`
	RentPeriod      string    `json:"rentPeriod"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	Images          []string  `json:"images"`
	VideoURL        *string   `json:"videoUrl,omitempty"`
	FloorPlanURL    *string   `json:"floorPlanUrl,omitempty"`
	TotalFloors     int       `json:"totalFloors"`
	FloorNumber     int       `json:"floorNumber"`
	Bedrooms        int       `json:"bedrooms"`
	Bathrooms       int       `json:"bathrooms"`
	Area            int       `json:"area"`
	YearBuilt       int       `json:"yearBuilt"`
	Amenities       []string  `json:"amenities"`
	PriceNegotiable bool      `json:"priceNegotiable"`
	Views           int       `json:"views"`
	OpenToVisitors  bool      `json:"openToVisitors"`
	AverageRating   float64   `json:"averageRating"`
	ReviewsCount    int       `json:"reviewsCount"`
	Location        Location  `json:"location"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
