//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/trustcall/trustcall-directory-service/internal/database"
	"github.com/trustcall/trustcall-directory-service/internal/domain"
	"github.com/trustcall/trustcall-directory-service/internal/repository"
	"github.com/trustcall/trustcall-directory-service/internal/repository/postgres"
)

type PostgresSuite struct {
	suite.Suite
	ctx       context.Context
	container *tcpostgres.PostgresContainer
	db        *sql.DB
	repo      repository.DirectoryRepository
}

func TestPostgresSuite(t *testing.T) {
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := tcpostgres.Run(s.ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("directory"),
		tcpostgres.WithUsername("trustcall"),
		tcpostgres.WithPassword("trustcall"),
		tcpostgres.BasicWaitStrategies(),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.db, err = database.Connect(s.ctx, dsn, 5, zerolog.Nop())
	s.Require().NoError(err)
	s.Require().NoError(database.Migrate(s.db, zerolog.Nop()))
	s.repo = postgres.NewPostgresRepository(s.db, zerolog.Nop())
}

func (s *PostgresSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		s.NoError(s.container.Terminate(s.ctx))
	}
}

func (s *PostgresSuite) SetupTest() {
	_, err := s.db.ExecContext(s.ctx, "TRUNCATE spam_reports, contact_entries, identities RESTART IDENTITY CASCADE")
	s.Require().NoError(err)
}

func (s *PostgresSuite) identity(phone, name string, email *string) domain.Identity {
	id := uuid.New()
	_, err := s.db.ExecContext(s.ctx,
		"INSERT INTO identities (id, phone_number, display_name, email) VALUES ($1, $2, $3, $4)",
		id, phone, name, email)
	s.Require().NoError(err)
	return domain.Identity{ID: id, PhoneNumber: phone, DisplayName: name, Email: email}
}

func (s *PostgresSuite) TestIdentityLookups() {
	alice := s.identity("+919000000001", "Alice", domain.StringPtr("alice@example.com"))

	byID, err := s.repo.FindIdentityByID(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Equal(alice.PhoneNumber, byID.PhoneNumber)
	s.Require().NotNil(byID.Email)
	s.Equal("alice@example.com", *byID.Email)

	byPhone, err := s.repo.FindIdentityByPhone(s.ctx, alice.PhoneNumber)
	s.Require().NoError(err)
	s.Equal(alice.ID, byPhone.ID)

	_, err = s.repo.FindIdentityByPhone(s.ctx, "+919999999999")
	s.ErrorIs(err, repository.ErrNotFound)
	_, err = s.repo.FindIdentityByID(s.ctx, uuid.New())
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *PostgresSuite) TestSearchIdentitiesIsCaseInsensitiveSubstring() {
	s.identity("+919000000001", "Alice", nil)
	s.identity("+919000000002", "Malik", nil)
	s.identity("+919000000003", "Bob", nil)

	found, err := s.repo.SearchIdentitiesByName(s.ctx, "LI")
	s.Require().NoError(err)
	s.Len(found, 2)

	found, err = s.repo.SearchIdentitiesByName(s.ctx, "zzz")
	s.Require().NoError(err)
	s.Empty(found)
}

func (s *PostgresSuite) TestContactEntries() {
	owner := s.identity("+919000000001", "Alice", nil)
	other := s.identity("+919000000002", "Carol", nil)

	entry, err := s.repo.InsertContactEntry(s.ctx, domain.ContactEntry{OwnerID: owner.ID, PhoneNumber: "+918000000001", DisplayName: "Zed"})
	s.Require().NoError(err)
	s.NotZero(entry.ID)
	s.False(entry.CreatedAt.IsZero())

	_, err = s.repo.InsertContactEntry(s.ctx, domain.ContactEntry{OwnerID: owner.ID, PhoneNumber: "+918000000001", DisplayName: "Zed again"})
	s.ErrorIs(err, repository.ErrConflict)

	_, err = s.repo.InsertContactEntry(s.ctx, domain.ContactEntry{OwnerID: other.ID, PhoneNumber: "+918000000001", DisplayName: "Adam"})
	s.Require().NoError(err)

	entries, err := s.repo.FindContactEntriesByPhone(s.ctx, "+918000000001")
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal("Adam", entries[0].DisplayName)
	s.Equal("Zed", entries[1].DisplayName)
	s.Less(entries[1].ID, entries[0].ID)

	scoped, err := s.repo.SearchContactEntriesByName(s.ctx, owner.ID, "a")
	s.Require().NoError(err)
	s.Empty(scoped)

	found, err := s.repo.FindContactEntry(s.ctx, other.ID, "+918000000001")
	s.Require().NoError(err)
	s.Equal("Adam", found.DisplayName)
}

func (s *PostgresSuite) TestInsertRejectsUnknownOwner() {
	_, err := s.repo.InsertContactEntry(s.ctx, domain.ContactEntry{OwnerID: uuid.New(), PhoneNumber: "+918000000001", DisplayName: "Ghost"})
	s.ErrorIs(err, repository.ErrNotFound)

	_, err = s.repo.InsertSpamReport(s.ctx, uuid.New(), "+918000000001")
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *PostgresSuite) TestSpamReportsAndAnalytics() {
	a := s.identity("+919000000001", "Alice", nil)
	b := s.identity("+919000000002", "Bob", nil)

	report, err := s.repo.InsertSpamReport(s.ctx, a.ID, "+917000000001")
	s.Require().NoError(err)
	s.NotZero(report.ID)

	_, err = s.repo.InsertSpamReport(s.ctx, a.ID, "+917000000001")
	s.ErrorIs(err, repository.ErrConflict)

	_, err = s.repo.InsertSpamReport(s.ctx, b.ID, "+917000000001")
	s.Require().NoError(err)
	_, err = s.repo.InsertSpamReport(s.ctx, b.ID, "+917000000002")
	s.Require().NoError(err)

	count, err := s.repo.CountSpamReports(s.ctx, "+917000000001")
	s.Require().NoError(err)
	s.EqualValues(2, count)

	total, err := s.repo.CountAllSpamReports(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(3, total)

	top, err := s.repo.TopSpamNumbers(s.ctx, 10)
	s.Require().NoError(err)
	s.Equal([]domain.SpamTally{
		{PhoneNumber: "+917000000001", ReportCount: 2},
		{PhoneNumber: "+917000000002", ReportCount: 1},
	}, top)

	trends, err := s.repo.SpamTrends(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(trends, 1)
	s.EqualValues(3, trends[0].ReportCount)
	s.Equal(time.UTC, trends[0].Day.Location())
}

func (s *PostgresSuite) TestConcurrentDuplicateReportsInsertOnce() {
	reporter := s.identity("+919000000001", "Alice", nil)

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.repo.InsertSpamReport(s.ctx, reporter.ID, "+917000000009")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	accepted := 0
	for err := range errs {
		if err == nil {
			accepted++
			continue
		}
		s.ErrorIs(err, repository.ErrConflict)
	}
	s.Equal(1, accepted)

	count, err := s.repo.CountSpamReports(s.ctx, "+917000000009")
	s.Require().NoError(err)
	s.EqualValues(1, count)
}

func (s *PostgresSuite) TestPing() {
	s.NoError(s.repo.Ping(s.ctx))
}
