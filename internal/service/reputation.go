// trustcall-directory-service/internal/service/reputation.go
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/trustcall/trustcall-directory-service/internal/cache"
	"github.com/trustcall/trustcall-directory-service/internal/domain"
	"github.com/trustcall/trustcall-directory-service/internal/logger"
	"github.com/trustcall/trustcall-directory-service/internal/repository"
)

// Spam report outcomes recorded in metrics.
const (
	OutcomeAccepted  = "accepted"
	OutcomeDuplicate = "duplicate"
	OutcomeError     = "error"
	OutcomeOK        = "ok"
)

type reputationService struct {
	repo      repository.DirectoryRepository
	cache     *cache.ReadThrough
	ttl       time.Duration
	publisher EventPublisher
	recorder  Recorder
	log       zerolog.Logger
}

// NewReputationService builds the reputation engine. A nil read-through disables caching.
func NewReputationService(repo repository.DirectoryRepository, rt *cache.ReadThrough, opts Options, log zerolog.Logger) ReputationService {
	opts = opts.withDefaults()
	if rt == nil {
		rt = cache.NewReadThrough(nil, nil)
	}
	return &reputationService{
		repo:      repo,
		cache:     rt,
		ttl:       opts.ScoreTTL,
		publisher: opts.Publisher,
		recorder:  opts.Recorder,
		log:       log,
	}
}

// Likelihood is the share of all spam reports filed against one number, as a percentage
// clamped to [0, 100] and rounded to two decimals. It is 0 when no reports exist.
func Likelihood(count, total int64) float64 {
	if total <= 0 || count <= 0 {
		return 0
	}
	v := float64(count) / float64(total) * 100
	v = math.Min(100, math.Max(0, v))
	return math.Round(v*100) / 100
}

func (s *reputationService) ScoreFor(ctx context.Context, phone string) (float64, error) {
	if err := domain.ValidatePhone("phone_number", phone); err != nil {
		return 0, err
	}
	return cache.Fetch(ctx, s.cache, cache.NamespaceScore, cache.ScoreKey(phone), s.ttl, func(ctx context.Context) (float64, error) {
		return s.compute(ctx, phone)
	})
}

func (s *reputationService) RecalculateScore(ctx context.Context, phone string) (float64, error) {
	if err := domain.ValidatePhone("phone_number", phone); err != nil {
		return 0, err
	}
	score, err := s.compute(ctx, phone)
	if err != nil {
		return 0, err
	}
	if err := s.cache.Store(ctx, cache.ScoreKey(phone), score, s.ttl); err != nil {
		return 0, err
	}

	logger.ContextLogger(ctx, s.log).Debug().
		Str("event", logger.EventScoreWarmed).
		Dict("attributes", zerolog.Dict().
			Str("phone_number", phone).
			Float64("spam_likelihood", score)).
		Msg("Spam score recalculated")
	return score, nil
}

func (s *reputationService) ReportSpam(ctx context.Context, reporterID uuid.UUID, phone string) (*domain.SpamReport, error) {
	l := *logger.ContextLogger(ctx, s.log)

	if reporterID == uuid.Nil {
		return nil, domain.NewValidationError("reporter_id", "is required")
	}
	if err := domain.ValidatePhone("phone_number", phone); err != nil {
		return nil, err
	}

	report, err := s.repo.InsertSpamReport(ctx, reporterID, phone)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			s.recorder.RecordSpamReport(OutcomeDuplicate)
			l.Warn().
				Str("event", logger.EventSpamDuplicate).
				Dict("attributes", zerolog.Dict().
					Str("reporter_id", reporterID.String()).
					Str("phone_number", phone)).
				Msg("Duplicate spam report rejected")
			return nil, domain.ErrDuplicateReport
		case errors.Is(err, repository.ErrNotFound):
			s.recorder.RecordSpamReport(OutcomeError)
			return nil, domain.NewValidationError("reporter_id", "is not a registered identity")
		}
		s.recorder.RecordSpamReport(OutcomeError)
		l.Error().
			Str("event", logger.EventStoreError).
			Err(err).
			Msg("Spam report insert failed")
		return nil, fmt.Errorf("insert spam report: %w", err)
	}
	s.recorder.RecordSpamReport(OutcomeAccepted)

	// The score is recomputed lazily on the next read.
	if err := s.cache.Invalidate(ctx, cache.ScoreKey(phone)); err != nil {
		l.Error().
			Str("event", logger.EventStoreError).
			Err(err).
			Dict("attributes", zerolog.Dict().
				Str("phone_number", phone)).
			Msg("Score cache invalidation failed after report commit")
		return nil, err
	}

	s.publish(ctx, l, report)

	l.Info().
		Str("event", logger.EventSpamReported).
		Dict("attributes", zerolog.Dict().
			Int64("report_id", report.ID).
			Str("reporter_id", reporterID.String()).
			Str("phone_number", phone)).
		Msg("Spam report recorded")
	return report, nil
}

// publish never fails the write; the report is already committed.
func (s *reputationService) publish(ctx context.Context, l zerolog.Logger, report *domain.SpamReport) {
	event := domain.SpamReportedEvent{
		ReportID:    report.ID,
		ReporterID:  report.ReporterID,
		PhoneNumber: report.PhoneNumber,
		ReportedAt:  report.ReportedAt,
	}
	if err := s.publisher.PublishSpamReported(ctx, event); err != nil {
		s.recorder.RecordEventPublished(OutcomeError)
		l.Error().
			Str("event", logger.EventPublishFailed).
			Err(err).
			Dict("attributes", zerolog.Dict().
				Int64("report_id", report.ID).
				Str("phone_number", report.PhoneNumber)).
			Msg("Spam report event could not be published")
		return
	}
	s.recorder.RecordEventPublished(OutcomeOK)
}

func (s *reputationService) compute(ctx context.Context, phone string) (float64, error) {
	count, err := s.repo.CountSpamReports(ctx, phone)
	if err != nil {
		return 0, fmt.Errorf("count spam reports: %w", err)
	}
	total, err := s.repo.CountAllSpamReports(ctx)
	if err != nil {
		return 0, fmt.Errorf("count all spam reports: %w", err)
	}
	score := Likelihood(count, total)

	logger.ContextLogger(ctx, s.log).Debug().
		Str("event", logger.EventScoreComputed).
		Dict("attributes", zerolog.Dict().
			Str("phone_number", phone).
			Int64("report_count", count).
			Int64("total_reports", total).
			Float64("spam_likelihood", score)).
		Msg("Spam score computed")
	return score, nil
}
