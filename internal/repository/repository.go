// trustcall-directory-service/internal/repository/repository.go
package repository

//go:generate mockgen -source=repository.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/trustcall/trustcall-directory-service/internal/domain"
)

// DirectoryRepository owns the canonical identities, contact entries and spam reports.
// Every phone argument is a normalized E.164 number.
type DirectoryRepository interface {
	// Identities
	FindIdentityByID(ctx context.Context, id uuid.UUID) (*domain.Identity, error)
	FindIdentityByPhone(ctx context.Context, phone string) (*domain.Identity, error)
	SearchIdentitiesByName(ctx context.Context, query string) ([]domain.Identity, error)

	// Contact entries
	FindContactEntry(ctx context.Context, ownerID uuid.UUID, phone string) (*domain.ContactEntry, error)
	// FindContactEntriesByPhone returns entries of every owner, ordered by display name then id.
	FindContactEntriesByPhone(ctx context.Context, phone string) ([]domain.ContactEntry, error)
	SearchContactEntriesByName(ctx context.Context, ownerID uuid.UUID, query string) ([]domain.ContactEntry, error)
	InsertContactEntry(ctx context.Context, entry domain.ContactEntry) (*domain.ContactEntry, error)

	// Spam reports. InsertSpamReport enforces (reporter, phone) uniqueness atomically and
	// returns ErrConflict on a duplicate pair. Stores that track identity references return
	// ErrNotFound from either insert when the owner or reporter is unknown.
	InsertSpamReport(ctx context.Context, reporterID uuid.UUID, phone string) (*domain.SpamReport, error)
	CountSpamReports(ctx context.Context, phone string) (int64, error)
	CountAllSpamReports(ctx context.Context) (int64, error)
	TopSpamNumbers(ctx context.Context, limit int) ([]domain.SpamTally, error)
	SpamTrends(ctx context.Context) ([]domain.DailyTally, error)

	Ping(ctx context.Context) error
}
