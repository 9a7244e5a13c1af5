// Package phone normalizes caller-supplied phone numbers into the E.164 form used as the
// directory join key. It runs once at the transport boundary.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/trustcall/trustcall-directory-service/internal/domain"
)

// Normalizer parses numbers relative to a default region.
type Normalizer struct {
	region string
}

// NewNormalizer returns a Normalizer for region, an ISO 3166-1 alpha-2 code such as "IN".
func NewNormalizer(region string) *Normalizer {
	return &Normalizer{region: strings.ToUpper(region)}
}

// Normalize parses raw and returns its E.164 form. Numbers that fail to parse or are not
// valid for their region yield a *domain.ValidationError for field.
func (n *Normalizer) Normalize(field, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", domain.NewValidationError(field, "is required")
	}
	parsed, err := phonenumbers.Parse(raw, n.region)
	if err != nil {
		return "", domain.NewValidationError(field, "invalid phone number format")
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return "", domain.NewValidationError(field, "invalid phone number")
	}
	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}
