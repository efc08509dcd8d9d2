package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email  string `json:"email" validate:"required,email"`
	Rating int    `json:"rating" validate:"required,rating"`
	Type   string `json:"type" validate:"omitempty,estate_type"`
}

func TestCheckValid(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Check(sample{Email: "a@b.com", Rating: 3, Type: "HOUSE"}))
	assert.Nil(t, Check(sample{Email: "a@b.com", Rating: 1}))
	assert.Nil(t, Check(sample{Email: "a@b.com", Rating: 5}))
}

func TestCheckCollectsFieldErrors(t *testing.T) {
	t.Parallel()

	errs := Check(sample{Email: "not-an-email", Rating: 9, Type: "CASTLE"})
	require.Len(t, errs, 3)

	byField := map[string]string{}
	for _, e := range errs {
		byField[e.Field] = e.Message
	}
	assert.Equal(t, "must be a valid email", byField["email"])
	assert.Equal(t, "must be between 1 and 5", byField["rating"])
	assert.Equal(t, "is not a valid value", byField["type"])
}

type nested struct {
	Location struct {
		City string `json:"city" validate:"required"`
	} `json:"location"`
}

func TestCheckNestedFieldNames(t *testing.T) {
	t.Parallel()

	errs := Check(nested{})
	require.Len(t, errs, 1)
	assert.Equal(t, "location.city", errs[0].Field)
}
