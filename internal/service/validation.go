package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/org-services/pkg/util/errorutil"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json names so error details match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateID rejects identifiers that can never name a stored record.
func validateID(resource string, id int64) error {
	if id <= 0 {
		return apperrors.NewBadRequest(
			fmt.Sprintf("%s id must be a positive number", resource),
			map[string]any{"id": id},
		)
	}
	return nil
}

// validateKey rejects blank lookup keys such as a department code or SKU.
func validateKey(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.NewBadRequest(
			fmt.Sprintf("%s must not be blank", field),
			map[string]any{"field": field},
		)
	}
	return nil
}

func validatePayload(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	details := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = describeRule(fe)
	}
	return apperrors.NewValidationError("invalid payload", details)
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}
