package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnumMembership(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidCategory(CategoryRent))
	assert.True(t, ValidType(TypeVilla))
	assert.True(t, ValidCondition(ConditionRenovated))
	assert.True(t, ValidStatus(StatusPending))
	assert.True(t, ValidRentPeriod(RentPeriodYearly))
	assert.True(t, ValidAmenity("PET_FRIENDLY"))

	// Membership is exact: casing matters, unknown values are out.
	assert.False(t, ValidCategory("rent"))
	assert.False(t, ValidType("CASTLE"))
	assert.False(t, ValidAmenity(""))
	assert.False(t, ValidRole("SUPERADMIN"))
}

func TestNormalizeEnum(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "RENT", NormalizeEnum("  rent "))
	assert.Equal(t, "PET_FRIENDLY", NormalizeEnum("pet_friendly"))
	assert.Equal(t, "", NormalizeEnum("   "))
}

func TestAmenitiesComplete(t *testing.T) {
	t.Parallel()

	all := Amenities()
	assert.Len(t, all, 12)
	for _, a := range all {
		assert.True(t, ValidAmenity(a))
	}
}
