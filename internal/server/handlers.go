package server

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/trustcall/trustcall-directory-service/internal/domain"
	"github.com/trustcall/trustcall-directory-service/internal/phone"
	"github.com/trustcall/trustcall-directory-service/internal/service"
)

// handler implements DirectoryServer on top of the directory service. It owns the boundary
// work: request validation and phone normalization.
type handler struct {
	svc      service.DirectoryService
	phones   *phone.Normalizer
	validate *validator.Validate
	log      zerolog.Logger
}

// NewHandler builds the DirectoryServer implementation.
func NewHandler(svc service.DirectoryService, phones *phone.Normalizer, log zerolog.Logger) DirectoryServer {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &handler{svc: svc, phones: phones, validate: v, log: log}
}

func (h *handler) RegisterIdentity(ctx context.Context, req *RegisterIdentityRequest) (*RegisterIdentityResponse, error) {
	if err := h.check(req); err != nil {
		return nil, err
	}
	number, err := h.phones.Normalize("phone_number", req.PhoneNumber)
	if err != nil {
		return nil, err
	}
	identity := domain.Identity{ID: uuid.MustParse(req.IdentityID), PhoneNumber: number}
	if err := h.svc.RegisterIdentityHook(ctx, identity); err != nil {
		return nil, err
	}
	return &RegisterIdentityResponse{}, nil
}

func (h *handler) AddContact(ctx context.Context, req *AddContactRequest) (*AddContactResponse, error) {
	owner, err := requesterFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.check(req); err != nil {
		return nil, err
	}
	number, err := h.phones.Normalize("phone_number", req.PhoneNumber)
	if err != nil {
		return nil, err
	}
	entry, err := h.svc.AddContact(ctx, owner, number, req.Name)
	if err != nil {
		return nil, err
	}
	return &AddContactResponse{Contact: entry}, nil
}

func (h *handler) ReportSpam(ctx context.Context, req *ReportSpamRequest) (*ReportSpamResponse, error) {
	reporter, err := requesterFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.check(req); err != nil {
		return nil, err
	}
	number, err := h.phones.Normalize("phone_number", req.PhoneNumber)
	if err != nil {
		return nil, err
	}
	report, err := h.svc.ReportSpam(ctx, reporter, number)
	if err != nil {
		return nil, err
	}
	return &ReportSpamResponse{ReportID: report.ID, PhoneNumber: report.PhoneNumber, ReportedAt: report.ReportedAt}, nil
}

func (h *handler) GetSpamScore(ctx context.Context, req *GetSpamScoreRequest) (*GetSpamScoreResponse, error) {
	if err := h.check(req); err != nil {
		return nil, err
	}
	number, err := h.phones.Normalize("phone_number", req.PhoneNumber)
	if err != nil {
		return nil, err
	}
	score, err := h.svc.ScoreFor(ctx, number)
	if err != nil {
		return nil, err
	}
	return &GetSpamScoreResponse{PhoneNumber: number, SpamLikelihood: score}, nil
}

func (h *handler) SearchByName(ctx context.Context, req *SearchByNameRequest) (*SearchByNameResponse, error) {
	requester, err := requesterFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.check(req); err != nil {
		return nil, err
	}
	items, err := h.svc.SearchByName(ctx, req.Query, requester)
	if err != nil {
		return nil, err
	}
	return &SearchByNameResponse{Results: nonNil(items)}, nil
}

func (h *handler) SearchByPhone(ctx context.Context, req *SearchByPhoneRequest) (*SearchByPhoneResponse, error) {
	requester, err := requesterFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.check(req); err != nil {
		return nil, err
	}
	number, err := h.phones.Normalize("phone_number", req.PhoneNumber)
	if err != nil {
		return nil, err
	}
	lookup, err := h.svc.SearchByPhone(ctx, number, requester)
	if err != nil {
		return nil, err
	}
	return &SearchByPhoneResponse{Registered: lookup.Identity != nil, Results: nonNil(lookup.Items())}, nil
}

func (h *handler) PersonDetail(ctx context.Context, req *PersonDetailRequest) (*PersonDetailResponse, error) {
	requester, err := requesterFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.check(req); err != nil {
		return nil, err
	}
	number, err := h.phones.Normalize("phone_number", req.PhoneNumber)
	if err != nil {
		return nil, err
	}
	item, err := h.svc.PersonDetail(ctx, number, requester)
	if err != nil {
		return nil, err
	}
	return &PersonDetailResponse{Person: item}, nil
}

func (h *handler) TopSpamNumbers(ctx context.Context, req *TopSpamNumbersRequest) (*TopSpamNumbersResponse, error) {
	if err := h.check(req); err != nil {
		return nil, err
	}
	tallies, err := h.svc.TopSpamNumbers(ctx, req.Limit)
	if err != nil {
		return nil, err
	}
	if tallies == nil {
		tallies = []domain.SpamTally{}
	}
	return &TopSpamNumbersResponse{Numbers: tallies}, nil
}

func (h *handler) SpamTrends(ctx context.Context, _ *SpamTrendsRequest) (*SpamTrendsResponse, error) {
	days, err := h.svc.SpamTrends(ctx)
	if err != nil {
		return nil, err
	}
	if days == nil {
		days = []domain.DailyTally{}
	}
	return &SpamTrendsResponse{Days: days}, nil
}

// check runs struct validation and reports the first failing field as a domain.ValidationError.
func (h *handler) check(req any) error {
	err := h.validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domain.NewValidationError("request", err.Error())
	}
	fe := fieldErrs[0]
	return domain.NewValidationError(fe.Field(), reason(fe))
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "uuid":
		return "must be a UUID"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	}
	return "failed " + fe.Tag() + " check"
}

func nonNil(items []domain.ResultItem) []domain.ResultItem {
	if items == nil {
		return []domain.ResultItem{}
	}
	return items
}
