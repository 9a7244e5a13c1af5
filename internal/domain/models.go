// trustcall-directory-service/internal/domain/models.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Identity is a registered account. Its phone number is unique and never changes after registration.
type Identity struct {
	ID          uuid.UUID `json:"id"`
	PhoneNumber string    `json:"phone_number"`
	DisplayName string    `json:"display_name"`
	Email       *string   `json:"email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ContactEntry is an address-book record owned by one identity. The target number does not have to
// belong to a registered identity.
type ContactEntry struct {
	ID          int64     `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	PhoneNumber string    `json:"phone_number"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// SpamReport records that a reporter flagged a number. At most one exists per (reporter, phone).
type SpamReport struct {
	ID          int64     `json:"id"`
	ReporterID  uuid.UUID `json:"reporter_id"`
	PhoneNumber string    `json:"phone_number"`
	ReportedAt  time.Time `json:"reported_at"`
}

// ResultItem is one entry of a search or detail answer.
type ResultItem struct {
	Name                 *string `json:"name"`
	PhoneNumber          string  `json:"phone_number"`
	SpamLikelihood       float64 `json:"spam_likelihood"`
	Email                *string `json:"email"`
	IsRegisteredIdentity bool    `json:"is_registered_user"`
}

// PhoneLookup is the answer to a phone search: either the registered identity owning the number,
// or the distinct contact entries that name it.
type PhoneLookup struct {
	Identity *ResultItem  `json:"identity,omitempty"`
	Contacts []ResultItem `json:"contacts,omitempty"`
}

// Items flattens the lookup into a list, identity first.
func (p PhoneLookup) Items() []ResultItem {
	if p.Identity != nil {
		return []ResultItem{*p.Identity}
	}
	return p.Contacts
}

// SpamTally is the number of reports filed against one phone number.
type SpamTally struct {
	PhoneNumber string `json:"phone_number"`
	ReportCount int64  `json:"report_count"`
}

// DailyTally is the number of reports filed during one UTC day.
type DailyTally struct {
	Day         time.Time `json:"day"`
	ReportCount int64     `json:"report_count"`
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// SpamReportedEvent is published after a spam report commits.
type SpamReportedEvent struct {
	ReportID    int64     `json:"report_id"`
	ReporterID  uuid.UUID `json:"reporter_id"`
	PhoneNumber string    `json:"phone_number"`
	ReportedAt  time.Time `json:"reported_at"`
}
