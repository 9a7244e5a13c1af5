package server

import (
	"time"

	"github.com/trustcall/trustcall-directory-service/internal/domain"
)

// Phone numbers arrive in any format the default region understands and are normalized
// before they reach the service.

type RegisterIdentityRequest struct {
	IdentityID  string `json:"identity_id" validate:"required,uuid"`
	PhoneNumber string `json:"phone_number" validate:"required,max=32"`
}

type RegisterIdentityResponse struct{}

type AddContactRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,max=32"`
	Name        string `json:"name" validate:"required,max=255"`
}

type AddContactResponse struct {
	Contact *domain.ContactEntry `json:"contact"`
}

type ReportSpamRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,max=32"`
}

type ReportSpamResponse struct {
	ReportID    int64     `json:"report_id"`
	PhoneNumber string    `json:"phone_number"`
	ReportedAt  time.Time `json:"reported_at"`
}

type GetSpamScoreRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,max=32"`
}

type GetSpamScoreResponse struct {
	PhoneNumber    string  `json:"phone_number"`
	SpamLikelihood float64 `json:"spam_likelihood"`
}

type SearchByNameRequest struct {
	Query string `json:"query" validate:"required,max=255"`
}

type SearchByNameResponse struct {
	Results []domain.ResultItem `json:"results"`
}

type SearchByPhoneRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,max=32"`
}

// SearchByPhoneResponse holds one registered identity, or the contact entries naming the number.
type SearchByPhoneResponse struct {
	Registered bool                `json:"registered"`
	Results    []domain.ResultItem `json:"results"`
}

type PersonDetailRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,max=32"`
}

type PersonDetailResponse struct {
	Person domain.ResultItem `json:"person"`
}

type TopSpamNumbersRequest struct {
	Limit int `json:"limit" validate:"gte=0"`
}

type TopSpamNumbersResponse struct {
	Numbers []domain.SpamTally `json:"numbers"`
}

type SpamTrendsRequest struct{}

type SpamTrendsResponse struct {
	Days []domain.DailyTally `json:"days"`
}
