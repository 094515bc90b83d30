package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks struct fields, returning field -> failed tag.
func Validate(v interface{}) map[string]string {
	return Fields(validate.Struct(v))
}

// Fields extracts a field -> failed tag map from a validation error. Gin's
// binding errors unwrap to the same type, so handlers can hand bind errors
// straight here. Returns nil for nil or non-validation errors.
func Fields(err error) map[string]string {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
