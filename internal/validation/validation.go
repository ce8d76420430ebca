package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Struct validates a payload against its struct tags and returns a
// field → message map, or nil when the payload is valid.
func Struct(payload any) map[string]string {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		fields["payload"] = "invalid payload"
		return fields
	}

	for _, fieldErr := range validationErrors {
		name := strings.ToLower(fieldErr.Field())
		switch fieldErr.Tag() {
		case "required":
			fields[name] = fmt.Sprintf("the %s field is required", name)
		case "min":
			fields[name] = fmt.Sprintf("the %s field must be at least %s characters", name, fieldErr.Param())
		case "max":
			fields[name] = fmt.Sprintf("the %s field must be at most %s characters", name, fieldErr.Param())
		default:
			fields[name] = fmt.Sprintf("the %s field is invalid", name)
		}
	}

	return fields
}
