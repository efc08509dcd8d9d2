// Package model defines the persisted entities and their closed
// enumerations. Enum values arrive as strings from JSON bodies and query
// parameters; the Valid* helpers are the single place where membership is
// checked, so repositories can trust any value that reached them.
package model

import "strings"

// Role names the access level stored on a user row.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// ValidRole reports whether s is a known role.
func ValidRole(s string) bool {
	return s == RoleUser || s == RoleAdmin
}

// Estate categories: whether the listing is offered for rent or for sale.
const (
	CategoryRent = "RENT"
	CategorySale = "SALE"
)

// Estate types.
const (
	TypeApartment  = "APARTMENT"
	TypeHouse      = "HOUSE"
	TypeVilla      = "VILLA"
	TypeStudio     = "STUDIO"
	TypeOffice     = "OFFICE"
	TypeLand       = "LAND"
	TypeCommercial = "COMMERCIAL"
)

// Estate conditions.
const (
	ConditionNew       = "NEW"
	ConditionRenovated = "RENOVATED"
	ConditionOld       = "OLD"
)

// Estate statuses.
const (
	StatusAvailable = "AVAILABLE"
	StatusRented    = "RENTED"
	StatusSold      = "SOLD"
	StatusPending   = "PENDING"
)

// Rent periods. MONTHLY is the schema default.
const (
	RentPeriodDaily   = "DAILY"
	RentPeriodWeekly  = "WEEKLY"
	RentPeriodMonthly = "MONTHLY"
	RentPeriodYearly  = "YEARLY"
)

var (
	categories  = set(CategoryRent, CategorySale)
	types       = set(TypeApartment, TypeHouse, TypeVilla, TypeStudio, TypeOffice, TypeLand, TypeCommercial)
	conditions  = set(ConditionNew, ConditionRenovated, ConditionOld)
	statuses    = set(StatusAvailable, StatusRented, StatusSold, StatusPending)
	rentPeriods = set(RentPeriodDaily, RentPeriodWeekly, RentPeriodMonthly, RentPeriodYearly)
	amenities   = set(
		"PARKING", "POOL", "GYM", "ELEVATOR", "BALCONY", "GARDEN",
		"AIR_CONDITIONING", "HEATING", "FURNISHED", "SECURITY",
		"INTERNET", "PET_FRIENDLY",
	)
)

func ValidCategory(s string) bool   { return categories[s] }
func ValidType(s string) bool       { return types[s] }
func ValidCondition(s string) bool  { return conditions[s] }
func ValidStatus(s string) bool     { return statuses[s] }
func ValidRentPeriod(s string) bool { return rentPeriods[s] }
func ValidAmenity(s string) bool    { return amenities[s] }

// Amenities returns all known amenity values. Used by the seeder.
func Amenities() []string {
	out := make([]string, 0, len(amenities))
	for a := range amenities {
		out = append(out, a)
	}
	return out
}

// NormalizeEnum upper-cases and trims a raw enum candidate before lookup.
func NormalizeEnum(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func set(vals ...string) map[string]bool {
	m := make(map[string]bool, len(vals))
	for _, v := range vals {
		m[v] = true
	}
	return m
}
