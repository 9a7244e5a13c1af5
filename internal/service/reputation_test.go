package service_test

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/trustcall/trustcall-directory-service/internal/cache"
	"github.com/trustcall/trustcall-directory-service/internal/domain"
	"github.com/trustcall/trustcall-directory-service/internal/repository"
	"github.com/trustcall/trustcall-directory-service/internal/repository/mocks"
	"github.com/trustcall/trustcall-directory-service/internal/service"
)

func TestLikelihood(t *testing.T) {
	cases := []struct {
		count, total int64
		want         float64
	}{
		{0, 0, 0},
		{3, 0, 0},
		{0, 10, 0},
		{1, 4, 25},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{5, 5, 100},
		{7, 5, 100},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, service.Likelihood(tc.count, tc.total), "count=%d total=%d", tc.count, tc.total)
	}
}

func TestLikelihoodIsMonotonicInCount(t *testing.T) {
	const total = 37
	prev := service.Likelihood(0, total)
	for count := int64(1); count <= total; count++ {
		got := service.Likelihood(count, total)
		assert.GreaterOrEqual(t, got, prev)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 100.0)
		prev = got
	}
}

type ReputationSuite struct {
	directorySuite
}

func TestReputationSuite(t *testing.T) {
	suite.Run(t, new(ReputationSuite))
}

func (s *ReputationSuite) TestScoreIsZeroWithoutReports() {
	score, err := s.svc.ScoreFor(s.ctx, "+919999999999")
	s.Require().NoError(err)
	s.Equal(0.0, score)
}

func (s *ReputationSuite) TestDuplicateReportIsRejected() {
	reporter := s.identity("Reporter", "+911000000001", nil)
	phone := "+919000000001"

	_, err := s.svc.ReportSpam(s.ctx, reporter.ID, phone)
	s.Require().NoError(err)
	_, err = s.svc.ReportSpam(s.ctx, reporter.ID, phone)
	s.ErrorIs(err, domain.ErrDuplicateReport)

	count, err := s.store.CountSpamReports(s.ctx, phone)
	s.Require().NoError(err)
	s.Equal(int64(1), count)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.SpamReports.WithLabelValues(service.OutcomeAccepted)))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.SpamReports.WithLabelValues(service.OutcomeDuplicate)))
}

func (s *ReputationSuite) TestConcurrentReportsFromDifferentReportersAllSucceed() {
	phone := "+919000000002"
	const reporters = 20

	var wg sync.WaitGroup
	errs := make([]error, reporters)
	for i := 0; i < reporters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.svc.ReportSpam(s.ctx, uuid.New(), phone)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		s.NoError(err)
	}
	count, err := s.store.CountSpamReports(s.ctx, phone)
	s.Require().NoError(err)
	s.Equal(int64(reporters), count)
}

func (s *ReputationSuite) TestCachedScoreIsStableUntilReport() {
	target, other := "+919000000003", "+919000000004"
	s.report(uuid.New(), target)
	s.report(uuid.New(), other)

	first, err := s.svc.ScoreFor(s.ctx, target)
	s.Require().NoError(err)
	raw, err := s.backend.Get(s.ctx, cache.ScoreKey(target))
	s.Require().NoError(err)

	second, err := s.svc.ScoreFor(s.ctx, target)
	s.Require().NoError(err)
	rawAgain, err := s.backend.Get(s.ctx, cache.ScoreKey(target))
	s.Require().NoError(err)

	s.Equal(50.0, first)
	s.Equal(first, second)
	s.Equal(raw, rawAgain)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.CacheHits.WithLabelValues(cache.NamespaceScore)))

	s.report(uuid.New(), target)
	third, err := s.svc.ScoreFor(s.ctx, target)
	s.Require().NoError(err)
	s.Equal(66.67, third)
}

func (s *ReputationSuite) TestOtherScoresStayCachedUntilExpiry() {
	target, other := "+919000000005", "+919000000006"
	s.report(uuid.New(), target)
	s.report(uuid.New(), other)

	cached, err := s.svc.ScoreFor(s.ctx, other)
	s.Require().NoError(err)
	s.Equal(50.0, cached)

	// A report against target changes the global total but only target's entry is dropped.
	s.report(uuid.New(), target)
	stale, err := s.svc.ScoreFor(s.ctx, other)
	s.Require().NoError(err)
	s.Equal(50.0, stale)

	fresh, err := s.svc.RecalculateScore(s.ctx, other)
	s.Require().NoError(err)
	s.Equal(33.33, fresh)
	got, err := s.svc.ScoreFor(s.ctx, other)
	s.Require().NoError(err)
	s.Equal(33.33, got)
}

func (s *ReputationSuite) TestReportPublishesEvent() {
	reporter := uuid.New()
	report, err := s.svc.ReportSpam(s.ctx, reporter, "+919000000007")
	s.Require().NoError(err)

	events := s.publisher.published()
	s.Require().Len(events, 1)
	s.Equal(report.ID, events[0].ReportID)
	s.Equal(reporter, events[0].ReporterID)
	s.Equal("+919000000007", events[0].PhoneNumber)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.EventsPublished.WithLabelValues(service.OutcomeOK)))
}

func (s *ReputationSuite) TestPublishFailureDoesNotFailCommittedReport() {
	s.publisher.err = errBrokerDown

	_, err := s.svc.ReportSpam(s.ctx, uuid.New(), "+919000000008")
	s.Require().NoError(err)

	count, err := s.store.CountSpamReports(s.ctx, "+919000000008")
	s.Require().NoError(err)
	s.Equal(int64(1), count)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.EventsPublished.WithLabelValues(service.OutcomeError)))
}

func (s *ReputationSuite) TestValidationHappensBeforeStoreAccess() {
	ctrl := gomock.NewController(s.T())
	repo := mocks.NewMockDirectoryRepository(ctrl)
	svc := service.NewReputationService(repo, nil, service.Options{}, zerolog.Nop())

	_, err := svc.ReportSpam(s.ctx, uuid.Nil, "+919000000009")
	s.ErrorIs(err, domain.ErrValidation)
	_, err = svc.ReportSpam(s.ctx, uuid.New(), "9000000009")
	s.ErrorIs(err, domain.ErrValidation)
	_, err = svc.ScoreFor(s.ctx, "")
	s.ErrorIs(err, domain.ErrValidation)
}

func TestReputationPropagatesStoreFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDirectoryRepository(ctrl)
	svc := service.NewReputationService(repo, cache.NewReadThrough(cache.NewMemory(), nil), service.Options{}, zerolog.Nop())
	ctx := t.Context()

	repo.EXPECT().CountSpamReports(gomock.Any(), "+919000000010").Return(int64(0), repository.ErrDatabase)
	_, err := svc.ScoreFor(ctx, "+919000000010")
	assert.ErrorIs(t, err, repository.ErrDatabase)

	repo.EXPECT().InsertSpamReport(gomock.Any(), gomock.Any(), "+919000000010").Return(nil, repository.ErrDatabase)
	_, err = svc.ReportSpam(ctx, uuid.New(), "+919000000010")
	assert.ErrorIs(t, err, repository.ErrDatabase)
	assert.NotErrorIs(t, err, domain.ErrDuplicateReport)

	repo.EXPECT().InsertSpamReport(gomock.Any(), gomock.Any(), "+919000000010").Return(nil, repository.ErrNotFound)
	_, err = svc.ReportSpam(ctx, uuid.New(), "+919000000010")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
