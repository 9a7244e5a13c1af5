package domain

// MaxNameLength bounds display names accepted from callers.
const MaxNameLength = 255

// IsCanonicalPhone reports whether phone is in the E.164 form produced by the boundary normalizer:
// a leading '+', a non-zero first digit and 5 to 15 digits in total. Small numbering plans
// such as Niue or Saint Helena issue numbers well under 8 digits including the country code.
func IsCanonicalPhone(phone string) bool {
	if len(phone) < 6 || len(phone) > 16 || phone[0] != '+' || phone[1] == '0' {
		return false
	}
	for i := 1; i < len(phone); i++ {
		if phone[i] < '0' || phone[i] > '9' {
			return false
		}
	}
	return true
}

// ValidatePhone returns a ValidationError for field when phone is not canonical.
func ValidatePhone(field, phone string) error {
	if phone == "" {
		return NewValidationError(field, "is required")
	}
	if !IsCanonicalPhone(phone) {
		return NewValidationError(field, "must be a normalized E.164 number")
	}
	return nil
}
