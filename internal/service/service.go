// trustcall-directory-service/internal/service/service.go
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/trustcall/trustcall-directory-service/internal/domain"
)

// ReputationService computes and caches spam-likelihood scores.
type ReputationService interface {
	ScoreFor(ctx context.Context, phone string) (float64, error)
	ReportSpam(ctx context.Context, reporterID uuid.UUID, phone string) (*domain.SpamReport, error)
	// RecalculateScore recomputes the score from the store and overwrites the cached entry.
	RecalculateScore(ctx context.Context, phone string) (float64, error)
}

// ResolutionService answers name and phone queries for a requester.
type ResolutionService interface {
	SearchByName(ctx context.Context, query string, requesterID uuid.UUID) ([]domain.ResultItem, error)
	SearchByPhone(ctx context.Context, phone string, requesterID uuid.UUID) (domain.PhoneLookup, error)
	PersonDetail(ctx context.Context, phone string, requesterID uuid.UUID) (domain.ResultItem, error)
}

// DirectoryService is the boundary used by the transport layer.
type DirectoryService interface {
	ReputationService
	ResolutionService

	RegisterIdentityHook(ctx context.Context, identity domain.Identity) error
	AddContact(ctx context.Context, ownerID uuid.UUID, phone, name string) (*domain.ContactEntry, error)

	// Analytics
	TopSpamNumbers(ctx context.Context, limit int) ([]domain.SpamTally, error)
	SpamTrends(ctx context.Context) ([]domain.DailyTally, error)
}

// EventPublisher delivers domain events after a write commits.
type EventPublisher interface {
	PublishSpamReported(ctx context.Context, event domain.SpamReportedEvent) error
}

// Recorder receives service-level measurements. *metrics.Metrics satisfies it.
type Recorder interface {
	RecordSpamReport(outcome string)
	IncrementContactsAdded()
	ObserveLookup(operation string, seconds float64)
	RecordEventPublished(outcome string)
}

// Options tunes the engines. Zero values fall back to the defaults below.
type Options struct {
	ScoreTTL         time.Duration
	SearchTTL        time.Duration
	ScoreConcurrency int
	Publisher        EventPublisher
	Recorder         Recorder
}

const (
	DefaultScoreTTL         = time.Hour
	DefaultSearchTTL        = 5 * time.Minute
	DefaultScoreConcurrency = 8

	DefaultTopSpamLimit = 10
	MaxTopSpamLimit     = 100
)

func (o Options) withDefaults() Options {
	if o.ScoreTTL <= 0 {
		o.ScoreTTL = DefaultScoreTTL
	}
	if o.SearchTTL <= 0 {
		o.SearchTTL = DefaultSearchTTL
	}
	if o.ScoreConcurrency <= 0 {
		o.ScoreConcurrency = DefaultScoreConcurrency
	}
	if o.Publisher == nil {
		o.Publisher = nopPublisher{}
	}
	if o.Recorder == nil {
		o.Recorder = nopRecorder{}
	}
	return o
}

type nopPublisher struct{}

func (nopPublisher) PublishSpamReported(context.Context, domain.SpamReportedEvent) error { return nil }

type nopRecorder struct{}

func (nopRecorder) RecordSpamReport(string) {}
func (nopRecorder) IncrementContactsAdded() {}
func (nopRecorder) ObserveLookup(string, float64) {}
func (nopRecorder) RecordEventPublished(string) {}
