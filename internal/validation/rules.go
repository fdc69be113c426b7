// Package validation provides custom validation rules shared across the
// action request DTOs.
package validation

import (
	"encoding/base64"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/secretsmanager/internal/errors"
)

// WrapValidationError wraps a jellydator/validation error as the internal
// ErrInvalidInput sentinel, so handlers map it through the same boundary
// as every other input error.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// Base64 validates that a string is valid base64-encoded data, the wire
// encoding AWS uses for SecretBinary fields.
var Base64 = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_base64_type", "must be a string")
	}
	if s == "" {
		return nil
	}
	if _, err := base64.StdEncoding.DecodeString(s); err != nil {
		return validation.NewError("validation_base64", "must be valid base64-encoded data")
	}
	return nil
})

// OptionalRange validates that an int is either zero (meaning "not
// specified", left for the use case to default) or within [min, max].
func OptionalRange(min, max int) validation.Rule {
	return validation.By(func(value interface{}) error {
		n, ok := value.(int)
		if !ok {
			return validation.NewError("validation_optional_range_type", "must be an integer")
		}
		if n == 0 {
			return nil
		}
		if n < min || n > max {
			return validation.NewError("validation_optional_range", "must be between the allowed bounds")
		}
		return nil
	})
}
