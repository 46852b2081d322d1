// Package validation provides custom validation rules for the application.
package validation

import (
	"reflect"
	"regexp"
	"strings"
	"unicode"

	validation "github.com/jellydator/validation"

	apperrors "github.com/souqdz/marketplace/internal/errors"
)

var (
	// phoneRegex accepts an optional leading + followed by 7 to 15 digits.
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

	// emailRegex is intentionally loose: one @, no spaces, a dot in the domain.
	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// PhoneNumber validates a customer phone number.
type PhoneNumber struct{}

// Validate checks the value is a plausible phone number.
func (PhoneNumber) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_phone", "phone number must be a string")
	}
	if !phoneRegex.MatchString(s) {
		return validation.NewError("validation_phone", "must be a valid phone number")
	}
	return nil
}

// CardNumber validates a card number used during the simulated checkout.
// Only the last four digits are ever persisted; the rule still requires the
// full value to look like a card number so truncation has something real to cut.
type CardNumber struct{}

// Validate checks the value is 12 to 19 digits.
func (CardNumber) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_card_number", "card number must be a string")
	}
	if len(s) < 12 || len(s) > 19 {
		return validation.NewError("validation_card_number", "card number must be 12 to 19 digits")
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return validation.NewError("validation_card_number", "card number must contain only digits")
		}
	}
	return nil
}

// EmailAddress validates a recipient email address.
type EmailAddress struct{}

// Validate checks the value looks like an email address.
func (EmailAddress) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_email", "email must be a string")
	}
	if !emailRegex.MatchString(s) {
		return validation.NewError("validation_email", "must be a valid email address")
	}
	return nil
}

// OneOf validates that a string value is one of the allowed choices.
// Used for the order enums (contact preference, statuses, risk level).
// Named string types are accepted through reflection.
type OneOf struct {
	Choices []string
}

// Validate checks membership in Choices.
func (o OneOf) Validate(value interface{}) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.String {
		return validation.NewError("validation_one_of", "value must be a string")
	}
	s := rv.String()
	for _, c := range o.Choices {
		if s == c {
			return nil
		}
	}
	return validation.NewError("validation_one_of", "must be one of: "+strings.Join(o.Choices, ", "))
}
