package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// EmailRegex is a simple email validation regex
var EmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(),
	}
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationErrors converts validation errors to a user-friendly format
func FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			field := strings.ToLower(e.Field())
			switch e.Tag() {
			case "required":
				errors[field] = fmt.Sprintf("%s is required", e.Field())
			case "email":
				errors[field] = "Invalid email format"
			case "min":
				errors[field] = fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
			case "max":
				errors[field] = fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
			case "oneof":
				errors[field] = fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param())
			case "gte":
				errors[field] = fmt.Sprintf("%s must be greater than or equal to %s", e.Field(), e.Param())
			case "lte":
				errors[field] = fmt.Sprintf("%s must be less than or equal to %s", e.Field(), e.Param())
			default:
				errors[field] = fmt.Sprintf("%s is invalid", e.Field())
			}
		}
	}

	return errors
}

// ValidateEmail checks if an email is valid
func ValidateEmail(email string) bool {
	if len(email) < 3 || len(email) > 254 {
		return false
	}
	return EmailRegex.MatchString(email)
}

// SanitizeString removes null bytes and trims whitespace
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	return strings.TrimSpace(s)
}
