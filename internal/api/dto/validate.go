package dto

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/nailfeed-service/pkg/util"
)

var validate = validator.New()

// Validate checks struct-level constraints and converts failures into the
// service's validation error shape. Runs before any transaction opens.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[strings.ToLower(fe.Field())] = fe.Tag()
	}
	return apperrors.NewValidationError("invalid payload", details)
}
