// trustcall-directory-service/internal/service/resolution.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/trustcall/trustcall-directory-service/internal/cache"
	"github.com/trustcall/trustcall-directory-service/internal/domain"
	"github.com/trustcall/trustcall-directory-service/internal/logger"
	"github.com/trustcall/trustcall-directory-service/internal/repository"
)

// Lookup operations recorded in metrics.
const (
	OpSearchByName  = "search_by_name"
	OpSearchByPhone = "search_by_phone"
	OpPersonDetail  = "person_detail"
)

// privateFields travel with a cached answer but are only copied into the response after
// the visibility gate passes for the current requester.
type privateFields struct {
	IdentityID uuid.UUID `json:"identity_id"`
	Email      *string   `json:"email,omitempty"`
}

type phoneEntry struct {
	Lookup  domain.PhoneLookup `json:"lookup"`
	Private *privateFields     `json:"private,omitempty"`
}

type detailEntry struct {
	Item    domain.ResultItem `json:"item"`
	Private *privateFields    `json:"private,omitempty"`
}

type resolutionService struct {
	repo        repository.DirectoryRepository
	reputation  ReputationService
	cache       *cache.ReadThrough
	ttl         time.Duration
	concurrency int
	recorder    Recorder
	log         zerolog.Logger
}

// NewResolutionService builds the resolution engine on top of a reputation engine.
func NewResolutionService(repo repository.DirectoryRepository, reputation ReputationService, rt *cache.ReadThrough, opts Options, log zerolog.Logger) ResolutionService {
	opts = opts.withDefaults()
	if rt == nil {
		rt = cache.NewReadThrough(nil, nil)
	}
	return &resolutionService{
		repo:        repo,
		reputation:  reputation,
		cache:       rt,
		ttl:         opts.SearchTTL,
		concurrency: opts.ScoreConcurrency,
		recorder:    opts.Recorder,
		log:         log,
	}
}

func (s *resolutionService) SearchByName(ctx context.Context, query string, requesterID uuid.UUID) ([]domain.ResultItem, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, domain.NewValidationError("query", "is required")
	}
	if len(q) > domain.MaxNameLength {
		return nil, domain.NewValidationError("query", "is too long")
	}
	if requesterID == uuid.Nil {
		return nil, domain.NewValidationError("requester_id", "is required")
	}
	defer s.observe(OpSearchByName, time.Now())

	items, err := cache.Fetch(ctx, s.cache, cache.NamespaceName, cache.NameKey(requesterID, q), s.ttl, func(ctx context.Context) ([]domain.ResultItem, error) {
		return s.loadByName(ctx, q, requesterID)
	})
	if err != nil {
		return nil, err
	}

	logger.ContextLogger(ctx, s.log).Debug().
		Str("event", logger.EventSearchByName).
		Dict("attributes", zerolog.Dict().
			Str("requester_id", requesterID.String()).
			Int("results", len(items))).
		Msg("Name search served")
	return items, nil
}

func (s *resolutionService) loadByName(ctx context.Context, query string, requesterID uuid.UUID) ([]domain.ResultItem, error) {
	identities, err := s.repo.SearchIdentitiesByName(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search identities: %w", err)
	}
	contacts, err := s.repo.SearchContactEntriesByName(ctx, requesterID, query)
	if err != nil {
		return nil, fmt.Errorf("search contact entries: %w", err)
	}

	fromIdentities := make([]candidate, 0, len(identities))
	for _, identity := range identities {
		fromIdentities = append(fromIdentities, candidate{name: identity.DisplayName, phone: identity.PhoneNumber, registered: true})
	}
	fromContacts := make([]candidate, 0, len(contacts))
	for _, entry := range contacts {
		fromContacts = append(fromContacts, candidate{name: entry.DisplayName, phone: entry.PhoneNumber})
	}
	rankCandidates(fromIdentities, query)
	rankCandidates(fromContacts, query)
	ranked := mergeSources(fromIdentities, fromContacts)

	phones := make([]string, len(ranked))
	for i, c := range ranked {
		phones[i] = c.phone
	}
	scores, err := s.scores(ctx, phones)
	if err != nil {
		return nil, err
	}

	items := make([]domain.ResultItem, 0, len(ranked))
	for _, c := range ranked {
		items = append(items, domain.ResultItem{
			Name:                 domain.StringPtr(c.name),
			PhoneNumber:          c.phone,
			SpamLikelihood:       scores[c.phone],
			IsRegisteredIdentity: c.registered,
		})
	}
	return items, nil
}

func (s *resolutionService) SearchByPhone(ctx context.Context, phone string, requesterID uuid.UUID) (domain.PhoneLookup, error) {
	if err := domain.ValidatePhone("phone_number", phone); err != nil {
		return domain.PhoneLookup{}, err
	}
	if requesterID == uuid.Nil {
		return domain.PhoneLookup{}, domain.NewValidationError("requester_id", "is required")
	}
	defer s.observe(OpSearchByPhone, time.Now())

	entry, err := cache.Fetch(ctx, s.cache, cache.NamespacePhone, cache.PhoneKey(phone), s.ttl, func(ctx context.Context) (phoneEntry, error) {
		return s.loadByPhone(ctx, phone)
	})
	if err != nil {
		return domain.PhoneLookup{}, err
	}

	lookup := entry.Lookup
	if lookup.Identity != nil {
		email, err := s.revealEmail(ctx, requesterID, entry.Private)
		if err != nil {
			return domain.PhoneLookup{}, err
		}
		lookup.Identity.Email = email
	}

	logger.ContextLogger(ctx, s.log).Debug().
		Str("event", logger.EventSearchByPhone).
		Dict("attributes", zerolog.Dict().
			Str("requester_id", requesterID.String()).
			Bool("registered", lookup.Identity != nil).
			Int("results", len(lookup.Items()))).
		Msg("Phone search served")
	return lookup, nil
}

func (s *resolutionService) loadByPhone(ctx context.Context, phone string) (phoneEntry, error) {
	score, err := s.reputation.ScoreFor(ctx, phone)
	if err != nil {
		return phoneEntry{}, err
	}

	identity, err := s.repo.FindIdentityByPhone(ctx, phone)
	if err == nil {
		return phoneEntry{
			Lookup: domain.PhoneLookup{Identity: &domain.ResultItem{
				Name:                 domain.StringPtr(identity.DisplayName),
				PhoneNumber:          identity.PhoneNumber,
				SpamLikelihood:       score,
				IsRegisteredIdentity: true,
			}},
			Private: &privateFields{IdentityID: identity.ID, Email: identity.Email},
		}, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return phoneEntry{}, fmt.Errorf("find identity by phone: %w", err)
	}

	entries, err := s.repo.FindContactEntriesByPhone(ctx, phone)
	if err != nil {
		return phoneEntry{}, fmt.Errorf("find contact entries by phone: %w", err)
	}
	type namePhone struct{ name, phone string }
	seen := make(map[namePhone]struct{}, len(entries))
	contacts := make([]domain.ResultItem, 0, len(entries))
	for _, e := range entries {
		key := namePhone{e.DisplayName, e.PhoneNumber}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		contacts = append(contacts, domain.ResultItem{
			Name:           domain.StringPtr(e.DisplayName),
			PhoneNumber:    e.PhoneNumber,
			SpamLikelihood: score,
		})
	}
	return phoneEntry{Lookup: domain.PhoneLookup{Contacts: contacts}}, nil
}

func (s *resolutionService) PersonDetail(ctx context.Context, phone string, requesterID uuid.UUID) (domain.ResultItem, error) {
	if err := domain.ValidatePhone("phone_number", phone); err != nil {
		return domain.ResultItem{}, err
	}
	if requesterID == uuid.Nil {
		return domain.ResultItem{}, domain.NewValidationError("requester_id", "is required")
	}
	defer s.observe(OpPersonDetail, time.Now())

	entry, err := cache.Fetch(ctx, s.cache, cache.NamespaceDetail, cache.DetailKey(phone), s.ttl, func(ctx context.Context) (detailEntry, error) {
		return s.loadDetail(ctx, phone)
	})
	if err != nil {
		return domain.ResultItem{}, err
	}

	item := entry.Item
	email, err := s.revealEmail(ctx, requesterID, entry.Private)
	if err != nil {
		return domain.ResultItem{}, err
	}
	item.Email = email

	logger.ContextLogger(ctx, s.log).Debug().
		Str("event", logger.EventPersonDetail).
		Dict("attributes", zerolog.Dict().
			Str("requester_id", requesterID.String()).
			Bool("registered", item.IsRegisteredIdentity)).
		Msg("Person detail served")
	return item, nil
}

func (s *resolutionService) loadDetail(ctx context.Context, phone string) (detailEntry, error) {
	score, err := s.reputation.ScoreFor(ctx, phone)
	if err != nil {
		return detailEntry{}, err
	}
	entry := detailEntry{Item: domain.ResultItem{PhoneNumber: phone, SpamLikelihood: score}}

	identity, err := s.repo.FindIdentityByPhone(ctx, phone)
	if err == nil {
		entry.Item.Name = domain.StringPtr(identity.DisplayName)
		entry.Item.IsRegisteredIdentity = true
		entry.Private = &privateFields{IdentityID: identity.ID, Email: identity.Email}
		return entry, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return detailEntry{}, fmt.Errorf("find identity by phone: %w", err)
	}

	// Unregistered numbers take the earliest name any owner saved for them.
	contacts, err := s.repo.FindContactEntriesByPhone(ctx, phone)
	if err != nil {
		return detailEntry{}, fmt.Errorf("find contact entries by phone: %w", err)
	}
	if len(contacts) > 0 {
		earliest := contacts[0]
		for _, c := range contacts[1:] {
			if c.ID < earliest.ID {
				earliest = c
			}
		}
		entry.Item.Name = domain.StringPtr(earliest.DisplayName)
	}
	return entry, nil
}

// revealEmail applies the mutual-visibility gate: the email is returned only when the matched
// identity has the requester's own phone number saved as a contact.
func (s *resolutionService) revealEmail(ctx context.Context, requesterID uuid.UUID, private *privateFields) (*string, error) {
	if private == nil || private.Email == nil {
		return nil, nil
	}

	requester, err := s.repo.FindIdentityByID(ctx, requesterID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find requester: %w", err)
	}
	if _, err := s.repo.FindContactEntry(ctx, private.IdentityID, requester.PhoneNumber); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find contact entry: %w", err)
	}

	logger.ContextLogger(ctx, s.log).Debug().
		Str("event", logger.EventEmailRevealed).
		Dict("attributes", zerolog.Dict().
			Str("requester_id", requesterID.String()).
			Str("identity_id", private.IdentityID.String())).
		Msg("Email revealed to requester")
	email := *private.Email
	return &email, nil
}

// scores fetches one score per distinct phone with bounded concurrency.
func (s *resolutionService) scores(ctx context.Context, phones []string) (map[string]float64, error) {
	out := make(map[string]float64, len(phones))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	seen := make(map[string]struct{}, len(phones))
	for _, phone := range phones {
		if _, dup := seen[phone]; dup {
			continue
		}
		seen[phone] = struct{}{}
		g.Go(func() error {
			score, err := s.reputation.ScoreFor(gctx, phone)
			if err != nil {
				return err
			}
			mu.Lock()
			out[phone] = score
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *resolutionService) observe(operation string, start time.Time) {
	s.recorder.ObserveLookup(operation, time.Since(start).Seconds())
}
