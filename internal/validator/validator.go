package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground validator for outbound payloads: profile
// edits and comment submissions are checked before they hit the wire.
type Validator struct {
	validate *validator.Validate
}

// New creates a new validator.
func New() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate validates a struct against its `validate` tags.
func (v *Validator) Validate(s any) error {
	if err := v.validate.Struct(s); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

func (v *Validator) formatValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, fieldMessage(e))
	}
	return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", e.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", e.Field(), e.Param())
	default:
		return fmt.Sprintf("%s failed validation for %s", e.Field(), e.Tag())
	}
}

// ValidateStruct is a helper for one-off validation.
func ValidateStruct(s any) error {
	return New().Validate(s)
}
