package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/trustcall/trustcall-directory-service/internal/domain"
	"github.com/trustcall/trustcall-directory-service/internal/repository"
)

type StoreSuite struct {
	suite.Suite
	ctx   context.Context
	now   time.Time
	store *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	s.store = NewStore(WithClock(func() time.Time { return s.now }))
}

func (s *StoreSuite) TestSaveIdentityEnforcesUniquePhone() {
	first, err := s.store.SaveIdentity(s.ctx, domain.Identity{PhoneNumber: "+911111111111", DisplayName: "Alice"})
	s.Require().NoError(err)
	s.NotEqual(uuid.Nil, first.ID)

	_, err = s.store.SaveIdentity(s.ctx, domain.Identity{PhoneNumber: "+911111111111", DisplayName: "Other"})
	s.ErrorIs(err, repository.ErrConflict)

	found, err := s.store.FindIdentityByPhone(s.ctx, "+911111111111")
	s.Require().NoError(err)
	s.Equal(first.ID, found.ID)

	_, err = s.store.FindIdentityByPhone(s.ctx, "+919999999999")
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *StoreSuite) TestContactEntryUniquePerOwnerAndPhone() {
	owner := uuid.New()
	entry, err := s.store.InsertContactEntry(s.ctx, domain.ContactEntry{OwnerID: owner, PhoneNumber: "+912222222222", DisplayName: "Bob"})
	s.Require().NoError(err)
	s.Equal(s.now, entry.CreatedAt)

	_, err = s.store.InsertContactEntry(s.ctx, domain.ContactEntry{OwnerID: owner, PhoneNumber: "+912222222222", DisplayName: "Bobby"})
	s.ErrorIs(err, repository.ErrConflict)

	_, err = s.store.InsertContactEntry(s.ctx, domain.ContactEntry{OwnerID: uuid.New(), PhoneNumber: "+912222222222", DisplayName: "Robert"})
	s.NoError(err)

	entries, err := s.store.FindContactEntriesByPhone(s.ctx, "+912222222222")
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal("Bob", entries[0].DisplayName)
	s.Equal("Robert", entries[1].DisplayName)
}

func (s *StoreSuite) TestSearchContactEntriesIsScopedToOwner() {
	owner, other := uuid.New(), uuid.New()
	_, _ = s.store.InsertContactEntry(s.ctx, domain.ContactEntry{OwnerID: owner, PhoneNumber: "+912222222222", DisplayName: "Alicia"})
	_, _ = s.store.InsertContactEntry(s.ctx, domain.ContactEntry{OwnerID: other, PhoneNumber: "+913333333333", DisplayName: "Alina"})

	found, err := s.store.SearchContactEntriesByName(s.ctx, owner, "ALI")
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal("Alicia", found[0].DisplayName)
}

func (s *StoreSuite) TestInsertSpamReportRejectsDuplicatePair() {
	reporter := uuid.New()
	_, err := s.store.InsertSpamReport(s.ctx, reporter, "+914444444444")
	s.Require().NoError(err)

	_, err = s.store.InsertSpamReport(s.ctx, reporter, "+914444444444")
	s.ErrorIs(err, repository.ErrConflict)

	count, err := s.store.CountSpamReports(s.ctx, "+914444444444")
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

// TestConcurrentDuplicateReports verifies only one insert wins for the same (reporter, phone).
func (s *StoreSuite) TestConcurrentDuplicateReports() {
	reporter := uuid.New()
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.InsertSpamReport(s.ctx, reporter, "+915555555555")
			switch err {
			case nil:
				successCount.Add(1)
			case repository.ErrConflict:
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load())
	s.Equal(int32(goroutines-1), conflictCount.Load())
}

func (s *StoreSuite) TestTopSpamNumbersAndTrends() {
	for i := 0; i < 3; i++ {
		_, _ = s.store.InsertSpamReport(s.ctx, uuid.New(), "+916666666666")
	}
	s.now = s.now.Add(24 * time.Hour)
	_, _ = s.store.InsertSpamReport(s.ctx, uuid.New(), "+917777777777")

	top, err := s.store.TopSpamNumbers(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal([]domain.SpamTally{{PhoneNumber: "+916666666666", ReportCount: 3}}, top)

	total, err := s.store.CountAllSpamReports(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(4), total)

	trends, err := s.store.SpamTrends(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(trends, 2)
	s.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), trends[0].Day)
	s.Equal(int64(3), trends[0].ReportCount)
	s.Equal(int64(1), trends[1].ReportCount)
}
