// Package validation wraps go-playground/validator so request bodies are
// checked before a handler runs. Schema failures short-circuit with
// field-level detail; nothing invalid reaches a repository.
package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/estate-marketplace/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Closed enumerations from the data model. Values are normalized by the
	// binding layer before validation runs.
	_ = v.RegisterValidation("category", enum(model.ValidCategory))
	_ = v.RegisterValidation("estate_type", enum(model.ValidType))
	_ = v.RegisterValidation("condition", enum(model.ValidCondition))
	_ = v.RegisterValidation("status", enum(model.ValidStatus))
	_ = v.RegisterValidation("rent_period", enum(model.ValidRentPeriod))
	_ = v.RegisterValidation("amenity", enum(model.ValidAmenity))
	_ = v.RegisterValidation("rating", func(fl validator.FieldLevel) bool {
		n := fl.Field().Int()
		return n >= model.RatingMin && n <= model.RatingMax
	})
	return v
}

func enum(valid func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return valid(fl.Field().String())
	}
}

// FieldError describes one failed field for the ValidationFailed response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Check validates a bound request struct and returns one entry per failed
// field, or nil when the value is valid.
func Check(v any) []FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Message: "invalid request body"}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fieldName(fe),
			Message: message(fe),
		})
	}
	return out
}

func fieldName(fe validator.FieldError) string {
	// StructNamespace looks like "createEstateReq.Location.City"; drop the
	// struct name and lower-case the first letter of each part to match the
	// JSON field naming.
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToLower(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, ".")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "eqfield":
		return "must match " + fe.Param()
	case "rating":
		return fmt.Sprintf("must be between %d and %d", model.RatingMin, model.RatingMax)
	case "category", "estate_type", "condition", "status", "rent_period", "amenity":
		return "is not a valid value"
	default:
		return "is invalid"
	}
}
