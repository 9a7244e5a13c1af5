package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"

	"github.com/trustcall/trustcall-directory-service/internal/cache"
	"github.com/trustcall/trustcall-directory-service/internal/domain"
	"github.com/trustcall/trustcall-directory-service/internal/metrics"
	"github.com/trustcall/trustcall-directory-service/internal/repository/memory"
	"github.com/trustcall/trustcall-directory-service/internal/service"
)

// directorySuite runs the service against the in-memory store and cache.
type directorySuite struct {
	suite.Suite
	ctx       context.Context
	store     *memory.Store
	backend   *cache.Memory
	metrics   *metrics.Metrics
	publisher *recordingPublisher
	svc       service.DirectoryService
}

func (s *directorySuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.backend = cache.NewMemory()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.publisher = &recordingPublisher{}
	s.svc = service.NewDirectoryService(s.store, cache.NewReadThrough(s.backend, s.metrics), service.Options{
		ScoreTTL:  time.Hour,
		SearchTTL: 5 * time.Minute,
		Publisher: s.publisher,
		Recorder:  s.metrics,
	}, zerolog.Nop())
}

func (s *directorySuite) identity(name, phone string, email *string) domain.Identity {
	saved, err := s.store.SaveIdentity(s.ctx, domain.Identity{DisplayName: name, PhoneNumber: phone, Email: email})
	s.Require().NoError(err)
	return *saved
}

func (s *directorySuite) contact(owner uuid.UUID, phone, name string) {
	_, err := s.svc.AddContact(s.ctx, owner, phone, name)
	s.Require().NoError(err)
}

func (s *directorySuite) report(reporter uuid.UUID, phone string) {
	_, err := s.svc.ReportSpam(s.ctx, reporter, phone)
	s.Require().NoError(err)
}

func names(items []domain.ResultItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item.Name == nil {
			out = append(out, "")
			continue
		}
		out = append(out, *item.Name)
	}
	return out
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.SpamReportedEvent
	err    error
}

func (p *recordingPublisher) PublishSpamReported(_ context.Context, event domain.SpamReportedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) published() []domain.SpamReportedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.SpamReportedEvent(nil), p.events...)
}

var errBrokerDown = errors.New("broker down")
