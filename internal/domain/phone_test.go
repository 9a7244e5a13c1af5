package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCanonicalPhone(t *testing.T) {
	cases := map[string]bool{
		"+911111111111":     true,
		"+16502530000":      true,
		"+12345678":         true,
		"+6834002":          true,
		"+29023456":         true,
		"+12345":            true,
		"+1234":             false,
		"+1":                false,
		"911111111111":      false,
		"+0911111111":       false,
		"+91 1111111111":    false,
		"+9111111111111111": false,
		"":                  false,
	}
	for phone, want := range cases {
		assert.Equal(t, want, IsCanonicalPhone(phone), phone)
	}
}

func TestValidatePhone(t *testing.T) {
	err := ValidatePhone("phone_number", "")
	assert.True(t, errors.Is(err, ErrValidation))
	assert.EqualError(t, err, "invalid phone_number: is required")

	err = ValidatePhone("phone_number", "12ab")
	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.Equal(t, "phone_number", vErr.Field)

	assert.NoError(t, ValidatePhone("phone_number", "+911111111111"))
}

func TestPhoneLookupItems(t *testing.T) {
	identity := ResultItem{Name: StringPtr("Alice"), PhoneNumber: "+911111111111", IsRegisteredIdentity: true}
	contacts := []ResultItem{{Name: StringPtr("Ali"), PhoneNumber: "+911111111111"}}

	assert.Equal(t, []ResultItem{identity}, PhoneLookup{Identity: &identity, Contacts: contacts}.Items())
	assert.Equal(t, contacts, PhoneLookup{Contacts: contacts}.Items())
	assert.Empty(t, PhoneLookup{}.Items())
}
