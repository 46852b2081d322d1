package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/souqdz/marketplace/internal/errors"
)

func TestWrapValidationError(t *testing.T) {
	assert.Nil(t, WrapValidationError(nil))

	err := WrapValidationError(assert.AnError)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
}

func TestPhoneNumber(t *testing.T) {
	rule := PhoneNumber{}

	valid := []string{"+213555123456", "0555123456", "1234567"}
	for _, v := range valid {
		assert.NoError(t, rule.Validate(v), v)
	}

	invalid := []interface{}{"", "abc", "+", "12345", "+1 555 123", 42}
	for _, v := range invalid {
		assert.Error(t, rule.Validate(v))
	}
}

func TestCardNumber(t *testing.T) {
	rule := CardNumber{}

	assert.NoError(t, rule.Validate("4111111111111234"))
	assert.NoError(t, rule.Validate("411111111111"))

	invalid := []interface{}{"", "1234", "41111111111x1234", "41111111111111111111", nil}
	for _, v := range invalid {
		assert.Error(t, rule.Validate(v))
	}
}

func TestEmailAddress(t *testing.T) {
	rule := EmailAddress{}

	assert.NoError(t, rule.Validate("buyer@example.com"))
	assert.NoError(t, rule.Validate("a.b+tag@shop.example.dz"))

	invalid := []interface{}{"", "no-at-sign", "two@@example.com", "spaces in@example.com", "user@nodot", 9}
	for _, v := range invalid {
		assert.Error(t, rule.Validate(v))
	}
}

func TestOneOf(t *testing.T) {
	rule := OneOf{Choices: []string{"whatsapp", "email", "sms", "call"}}

	assert.NoError(t, rule.Validate("whatsapp"))
	assert.NoError(t, rule.Validate("call"))
	assert.ErrorContains(t, rule.Validate("pigeon"), "must be one of: whatsapp, email, sms, call")
	assert.Error(t, rule.Validate(1))

	// Named string types pass through reflection
	type contactPref string
	assert.NoError(t, rule.Validate(contactPref("email")))
	assert.Error(t, rule.Validate(contactPref("fax")))
}
