// trustcall-directory-service/internal/repository/memory/memory.go
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trustcall/trustcall-directory-service/internal/domain"
	"github.com/trustcall/trustcall-directory-service/internal/repository"
)

type ownerPhone struct {
	owner uuid.UUID
	phone string
}

// Store is an in-memory DirectoryRepository for local runs and tests. A single mutex guards
// all maps, which makes the (reporter, phone) check-and-insert atomic.
type Store struct {
	mu         sync.RWMutex
	identities map[uuid.UUID]domain.Identity
	byPhone    map[string]uuid.UUID
	contacts   map[ownerPhone]domain.ContactEntry
	reports    map[ownerPhone]domain.SpamReport
	nextID     int64
	now        func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the timestamp source used for created and reported times.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates an empty Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		identities: make(map[uuid.UUID]domain.Identity),
		byPhone:    make(map[string]uuid.UUID),
		contacts:   make(map[ownerPhone]domain.ContactEntry),
		reports:    make(map[ownerPhone]domain.SpamReport),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveIdentity stores an identity the way the external registration flow would.
// It returns ErrConflict when the id or phone number is already taken.
func (s *Store) SaveIdentity(_ context.Context, identity domain.Identity) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if identity.ID == uuid.Nil {
		identity.ID = uuid.New()
	}
	if _, ok := s.identities[identity.ID]; ok {
		return nil, repository.ErrConflict
	}
	if _, ok := s.byPhone[identity.PhoneNumber]; ok {
		return nil, repository.ErrConflict
	}
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = s.now().UTC()
	}
	s.identities[identity.ID] = identity
	s.byPhone[identity.PhoneNumber] = identity.ID
	return &identity, nil
}

func (s *Store) FindIdentityByID(_ context.Context, id uuid.UUID) (*domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	identity, ok := s.identities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &identity, nil
}

func (s *Store) FindIdentityByPhone(_ context.Context, phone string) (*domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byPhone[phone]
	if !ok {
		return nil, repository.ErrNotFound
	}
	identity := s.identities[id]
	return &identity, nil
}

func (s *Store) SearchIdentitiesByName(_ context.Context, query string) ([]domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(query)
	var out []domain.Identity
	for _, identity := range s.identities {
		if strings.Contains(strings.ToLower(identity.DisplayName), needle) {
			out = append(out, identity)
		}
	}
	return out, nil
}

func (s *Store) FindContactEntry(_ context.Context, ownerID uuid.UUID, phone string) (*domain.ContactEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.contacts[ownerPhone{owner: ownerID, phone: phone}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &entry, nil
}

func (s *Store) FindContactEntriesByPhone(_ context.Context, phone string) ([]domain.ContactEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.ContactEntry
	for key, entry := range s.contacts {
		if key.phone == phone {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayName != out[j].DisplayName {
			return out[i].DisplayName < out[j].DisplayName
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) SearchContactEntriesByName(_ context.Context, ownerID uuid.UUID, query string) ([]domain.ContactEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(query)
	var out []domain.ContactEntry
	for key, entry := range s.contacts {
		if key.owner == ownerID && strings.Contains(strings.ToLower(entry.DisplayName), needle) {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (s *Store) InsertContactEntry(_ context.Context, entry domain.ContactEntry) (*domain.ContactEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := ownerPhone{owner: entry.OwnerID, phone: entry.PhoneNumber}
	if _, ok := s.contacts[key]; ok {
		return nil, repository.ErrConflict
	}
	s.nextID++
	entry.ID = s.nextID
	entry.CreatedAt = s.now().UTC()
	s.contacts[key] = entry
	return &entry, nil
}

func (s *Store) InsertSpamReport(_ context.Context, reporterID uuid.UUID, phone string) (*domain.SpamReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := ownerPhone{owner: reporterID, phone: phone}
	if _, ok := s.reports[key]; ok {
		return nil, repository.ErrConflict
	}
	s.nextID++
	report := domain.SpamReport{
		ID:          s.nextID,
		ReporterID:  reporterID,
		PhoneNumber: phone,
		ReportedAt:  s.now().UTC(),
	}
	s.reports[key] = report
	return &report, nil
}

func (s *Store) CountSpamReports(_ context.Context, phone string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for key := range s.reports {
		if key.phone == phone {
			n++
		}
	}
	return n, nil
}

func (s *Store) CountAllSpamReports(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.reports)), nil
}

func (s *Store) TopSpamNumbers(_ context.Context, limit int) ([]domain.SpamTally, error) {
	s.mu.RLock()
	counts := make(map[string]int64)
	for key := range s.reports {
		counts[key.phone]++
	}
	s.mu.RUnlock()

	out := make([]domain.SpamTally, 0, len(counts))
	for phone, n := range counts {
		out = append(out, domain.SpamTally{PhoneNumber: phone, ReportCount: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ReportCount != out[j].ReportCount {
			return out[i].ReportCount > out[j].ReportCount
		}
		return out[i].PhoneNumber < out[j].PhoneNumber
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) SpamTrends(_ context.Context) ([]domain.DailyTally, error) {
	s.mu.RLock()
	counts := make(map[time.Time]int64)
	for _, report := range s.reports {
		counts[report.ReportedAt.UTC().Truncate(24*time.Hour)]++
	}
	s.mu.RUnlock()

	out := make([]domain.DailyTally, 0, len(counts))
	for day, n := range counts {
		out = append(out, domain.DailyTally{Day: day, ReportCount: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

func (s *Store) Ping(context.Context) error {
	return nil
}

var _ repository.DirectoryRepository = (*Store)(nil)
