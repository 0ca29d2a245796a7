package services

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"property-insights/apperr"
	"property-insights/models"
)

var validate = validator.New()

// pageRequest carries the paging arguments through struct validation.
type pageRequest struct {
	Page  int `validate:"min=1"`
	Limit int `validate:"min=1,max=1000"`
}

// validateStruct runs struct-tag validation and maps failures to InvalidInput.
func validateStruct(op string, v any) error {
	if err := validate.Struct(v); err != nil {
		var msgs []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value()))
			}
		} else {
			msgs = append(msgs, err.Error())
		}
		return apperr.InvalidInput(strings.Join(msgs, "; ")).WithOp(op)
	}
	return nil
}

// validateRange rejects ranges whose lower bound exceeds the upper bound.
// Bounds are never swapped silently.
func validateRange(op, name string, r *models.Range) error {
	if r == nil || r.Min == nil || r.Max == nil {
		return nil
	}
	if *r.Min > *r.Max {
		return apperr.InvalidInput(fmt.Sprintf("%s: min %.2f exceeds max %.2f", name, *r.Min, *r.Max)).WithOp(op)
	}
	return nil
}

// validateBudget rejects a budget whose min exceeds its max.
func validateBudget(op string, b *models.Budget) error {
	if b == nil {
		return nil
	}
	return validateRange(op, "budget", &models.Range{Min: b.Min, Max: b.Max})
}
