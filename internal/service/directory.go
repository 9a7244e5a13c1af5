// trustcall-directory-service/internal/service/directory.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/trustcall/trustcall-directory-service/internal/cache"
	"github.com/trustcall/trustcall-directory-service/internal/domain"
	"github.com/trustcall/trustcall-directory-service/internal/logger"
	"github.com/trustcall/trustcall-directory-service/internal/repository"
)

type directoryService struct {
	ReputationService
	ResolutionService

	repo     repository.DirectoryRepository
	cache    *cache.ReadThrough
	recorder Recorder
	log      zerolog.Logger
}

// NewDirectoryService wires the reputation and resolution engines over one store and cache.
func NewDirectoryService(repo repository.DirectoryRepository, rt *cache.ReadThrough, opts Options, log zerolog.Logger) DirectoryService {
	opts = opts.withDefaults()
	if rt == nil {
		rt = cache.NewReadThrough(nil, nil)
	}
	reputation := NewReputationService(repo, rt, opts, log)
	return &directoryService{
		ReputationService: reputation,
		ResolutionService: NewResolutionService(repo, reputation, rt, opts, log),
		repo:              repo,
		cache:             rt,
		recorder:          opts.Recorder,
		log:               log,
	}
}

// RegisterIdentityHook runs after the external registration flow stored identity. Phone and
// detail answers for the number may now resolve to the identity, so they are dropped.
func (s *directoryService) RegisterIdentityHook(ctx context.Context, identity domain.Identity) error {
	if identity.ID == uuid.Nil {
		return domain.NewValidationError("identity_id", "is required")
	}
	if err := domain.ValidatePhone("phone_number", identity.PhoneNumber); err != nil {
		return err
	}
	if err := s.invalidatePhone(ctx, identity.PhoneNumber); err != nil {
		return err
	}

	logger.ContextLogger(ctx, s.log).Info().
		Str("event", logger.EventIdentityRegistered).
		Dict("attributes", zerolog.Dict().
			Str("identity_id", identity.ID.String()).
			Str("phone_number", identity.PhoneNumber)).
		Msg("Identity registration observed")
	return nil
}

func (s *directoryService) AddContact(ctx context.Context, ownerID uuid.UUID, phone, name string) (*domain.ContactEntry, error) {
	l := *logger.ContextLogger(ctx, s.log)

	if ownerID == uuid.Nil {
		return nil, domain.NewValidationError("owner_id", "is required")
	}
	if err := domain.ValidatePhone("phone_number", phone); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", "is required")
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.NewValidationError("name", "is too long")
	}

	entry, err := s.repo.InsertContactEntry(ctx, domain.ContactEntry{OwnerID: ownerID, PhoneNumber: phone, DisplayName: name})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			l.Warn().
				Str("event", logger.EventContactConflict).
				Dict("attributes", zerolog.Dict().
					Str("owner_id", ownerID.String()).
					Str("phone_number", phone)).
				Msg("Contact entry already exists")
			return nil, domain.ErrDuplicateContact
		case errors.Is(err, repository.ErrNotFound):
			return nil, domain.NewValidationError("owner_id", "is not a registered identity")
		}
		l.Error().
			Str("event", logger.EventStoreError).
			Err(err).
			Msg("Contact entry insert failed")
		return nil, fmt.Errorf("insert contact entry: %w", err)
	}
	s.recorder.IncrementContactsAdded()

	if err := s.invalidatePhone(ctx, phone); err != nil {
		return nil, err
	}

	l.Info().
		Str("event", logger.EventContactAdded).
		Dict("attributes", zerolog.Dict().
			Int64("contact_id", entry.ID).
			Str("owner_id", ownerID.String()).
			Str("phone_number", phone)).
		Msg("Contact entry created")
	return entry, nil
}

// TopSpamNumbers returns the most reported numbers. A non-positive limit means the default;
// larger limits are capped.
func (s *directoryService) TopSpamNumbers(ctx context.Context, limit int) ([]domain.SpamTally, error) {
	if limit <= 0 {
		limit = DefaultTopSpamLimit
	}
	if limit > MaxTopSpamLimit {
		limit = MaxTopSpamLimit
	}
	tallies, err := s.repo.TopSpamNumbers(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("top spam numbers: %w", err)
	}
	return tallies, nil
}

func (s *directoryService) SpamTrends(ctx context.Context) ([]domain.DailyTally, error) {
	trends, err := s.repo.SpamTrends(ctx)
	if err != nil {
		return nil, fmt.Errorf("spam trends: %w", err)
	}
	return trends, nil
}

func (s *directoryService) invalidatePhone(ctx context.Context, phone string) error {
	keys := []string{cache.PhoneKey(phone), cache.DetailKey(phone)}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		logger.ContextLogger(ctx, s.log).Error().
			Str("event", logger.EventStoreError).
			Err(err).
			Dict("attributes", zerolog.Dict().
				Str("phone_number", phone)).
			Msg("Phone cache invalidation failed")
		return err
	}
	logger.ContextLogger(ctx, s.log).Debug().
		Str("event", logger.EventCacheInvalidated).
		Dict("attributes", zerolog.Dict().
			Strs("keys", keys)).
		Msg("Cache entries invalidated")
	return nil
}
