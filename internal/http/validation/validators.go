package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/soulearn/volunteer-api/internal/domain/model"
)

// Validator is a function that validates a string value and returns an error message if invalid.
type Validator func(v string) string

// Required validates that a field is not empty and does not exceed maxLen characters.
// Uses rune count for proper Unicode support.
func Required(fieldName string, maxLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return fieldName + " is required."
		}
		if utf8.RuneCountInString(v) > maxLen {
			return fmt.Sprintf("%s cannot exceed %d characters.", fieldName, maxLen)
		}
		return ""
	}
}

// Email validates that a field is a syntactically acceptable email address.
func Email(fieldName string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return fieldName + " is required."
		}
		if !model.ValidEmail(v) {
			return "Enter a valid email address."
		}
		return ""
	}
}

// FieldValidator provides a fluent API for validating multiple fields.
type FieldValidator struct {
	errors map[string]string
}

// New creates a new FieldValidator instance.
func New() *FieldValidator {
	return &FieldValidator{errors: make(map[string]string)}
}

// Validate validates a field with one or more validators.
// It stops at the first error for each field.
func (fv *FieldValidator) Validate(field, value string, validators ...Validator) *FieldValidator {
	for _, v := range validators {
		if err := v(value); err != "" {
			fv.errors[field] = err
			break // Stop at first error per field
		}
	}
	return fv
}

// Errors returns the accumulated validation errors.
func (fv *FieldValidator) Errors() map[string]string {
	return fv.errors
}

// RegistrationInput carries the raw registration form fields.
type RegistrationInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// RegistrationForm checks the registration form the way the signup page
// reports problems: a single message for the first failure found, empty
// string when the form passes. Field-level policy (password strength,
// name length) is enforced by the domain model afterwards.
func RegistrationForm(in RegistrationInput) string {
	if strings.TrimSpace(in.Name) == "" ||
		strings.TrimSpace(in.Email) == "" ||
		in.Password == "" ||
		in.ConfirmPassword == "" {
		return "All fields are required"
	}
	if !model.ValidEmail(in.Email) {
		return "Invalid email format"
	}
	if in.Password != in.ConfirmPassword {
		return "Passwords do not match"
	}
	return ""
}
