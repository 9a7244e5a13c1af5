// trustcall-directory-service/internal/repository/postgres/postgres.go
package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/trustcall/trustcall-directory-service/internal/domain"
	"github.com/trustcall/trustcall-directory-service/internal/repository"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// PostgresRepository runs every directory query against PostgreSQL.
type PostgresRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewPostgresRepository builds the repository on an open pool.
func NewPostgresRepository(db *sql.DB, log zerolog.Logger) repository.DirectoryRepository {
	return &PostgresRepository{db: db, log: log}
}

// --- Identities ---

const identityColumns = "id, phone_number, display_name, email, created_at"

func (r *PostgresRepository) FindIdentityByID(ctx context.Context, id uuid.UUID) (*domain.Identity, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+identityColumns+" FROM identities WHERE id = $1", id)
	return r.scanIdentity(row, "identity_id", id.String())
}

func (r *PostgresRepository) FindIdentityByPhone(ctx context.Context, phone string) (*domain.Identity, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+identityColumns+" FROM identities WHERE phone_number = $1", phone)
	return r.scanIdentity(row, "phone_number", phone)
}

func (r *PostgresRepository) SearchIdentitiesByName(ctx context.Context, query string) ([]domain.Identity, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+identityColumns+" FROM identities WHERE strpos(lower(display_name), lower($1)) > 0", query)
	if err != nil {
		r.log.Error().Err(err).Str("query", query).Msg("identity name search failed")
		return nil, repository.ErrDatabase
	}
	defer rows.Close()

	var out []domain.Identity
	for rows.Next() {
		identity, err := scanIdentityRow(rows)
		if err != nil {
			return nil, repository.ErrDatabase
		}
		out = append(out, *identity)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.ErrDatabase
	}
	return out, nil
}

// --- Contact entries ---

const contactColumns = "id, owner_id, phone_number, display_name, created_at"

func (r *PostgresRepository) FindContactEntry(ctx context.Context, ownerID uuid.UUID, phone string) (*domain.ContactEntry, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+contactColumns+" FROM contact_entries WHERE owner_id = $1 AND phone_number = $2", ownerID, phone)
	var c domain.ContactEntry
	if err := row.Scan(&c.ID, &c.OwnerID, &c.PhoneNumber, &c.DisplayName, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		r.log.Error().Err(err).Str("owner_id", ownerID.String()).Msg("contact entry lookup failed")
		return nil, repository.ErrDatabase
	}
	return &c, nil
}

func (r *PostgresRepository) FindContactEntriesByPhone(ctx context.Context, phone string) ([]domain.ContactEntry, error) {
	return r.queryContacts(ctx,
		"SELECT "+contactColumns+" FROM contact_entries WHERE phone_number = $1 ORDER BY display_name, id", phone)
}

func (r *PostgresRepository) SearchContactEntriesByName(ctx context.Context, ownerID uuid.UUID, query string) ([]domain.ContactEntry, error) {
	return r.queryContacts(ctx,
		"SELECT "+contactColumns+" FROM contact_entries WHERE owner_id = $1 AND strpos(lower(display_name), lower($2)) > 0",
		ownerID, query)
}

func (r *PostgresRepository) InsertContactEntry(ctx context.Context, entry domain.ContactEntry) (*domain.ContactEntry, error) {
	query := `INSERT INTO contact_entries (owner_id, phone_number, display_name) VALUES ($1, $2, $3) RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, entry.OwnerID, entry.PhoneNumber, entry.DisplayName).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return nil, repository.ErrNotFound
		}
		r.log.Error().Err(err).Str("owner_id", entry.OwnerID.String()).Msg("contact entry insert failed")
		return nil, repository.ErrDatabase
	}
	return &entry, nil
}

// --- Spam reports ---

func (r *PostgresRepository) InsertSpamReport(ctx context.Context, reporterID uuid.UUID, phone string) (*domain.SpamReport, error) {
	// The (reporter_id, phone_number) unique constraint makes this a single atomic check-and-insert.
	query := `INSERT INTO spam_reports (reporter_id, phone_number) VALUES ($1, $2) RETURNING id, reported_at`
	report := domain.SpamReport{ReporterID: reporterID, PhoneNumber: phone}
	err := r.db.QueryRowContext(ctx, query, reporterID, phone).Scan(&report.ID, &report.ReportedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return nil, repository.ErrNotFound
		}
		r.log.Error().Err(err).Str("reporter_id", reporterID.String()).Msg("spam report insert failed")
		return nil, repository.ErrDatabase
	}
	return &report, nil
}

func (r *PostgresRepository) CountSpamReports(ctx context.Context, phone string) (int64, error) {
	return r.count(ctx, "SELECT count(*) FROM spam_reports WHERE phone_number = $1", phone)
}

func (r *PostgresRepository) CountAllSpamReports(ctx context.Context) (int64, error) {
	return r.count(ctx, "SELECT count(*) FROM spam_reports")
}

func (r *PostgresRepository) TopSpamNumbers(ctx context.Context, limit int) ([]domain.SpamTally, error) {
	query := `
		SELECT phone_number, count(*) AS report_count
		FROM spam_reports
		GROUP BY phone_number
		ORDER BY report_count DESC, phone_number
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		r.log.Error().Err(err).Msg("top spam numbers query failed")
		return nil, repository.ErrDatabase
	}
	defer rows.Close()

	out := []domain.SpamTally{}
	for rows.Next() {
		var t domain.SpamTally
		if err := rows.Scan(&t.PhoneNumber, &t.ReportCount); err != nil {
			return nil, repository.ErrDatabase
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.ErrDatabase
	}
	return out, nil
}

func (r *PostgresRepository) SpamTrends(ctx context.Context) ([]domain.DailyTally, error) {
	query := `
		SELECT date_trunc('day', reported_at AT TIME ZONE 'UTC') AS day, count(*)
		FROM spam_reports
		GROUP BY day
		ORDER BY day
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.log.Error().Err(err).Msg("spam trends query failed")
		return nil, repository.ErrDatabase
	}
	defer rows.Close()

	out := []domain.DailyTally{}
	for rows.Next() {
		var t domain.DailyTally
		if err := rows.Scan(&t.Day, &t.ReportCount); err != nil {
			return nil, repository.ErrDatabase
		}
		t.Day = t.Day.UTC()
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.ErrDatabase
	}
	return out, nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return repository.ErrDatabase
	}
	return nil
}

// --- Helper / Internal ---

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PostgresRepository) scanIdentity(row *sql.Row, key, value string) (*domain.Identity, error) {
	identity, err := scanIdentityRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		r.log.Error().Err(err).Str(key, value).Msg("identity lookup failed")
		return nil, repository.ErrDatabase
	}
	return identity, nil
}

func scanIdentityRow(row rowScanner) (*domain.Identity, error) {
	var identity domain.Identity
	var email sql.NullString
	if err := row.Scan(&identity.ID, &identity.PhoneNumber, &identity.DisplayName, &email, &identity.CreatedAt); err != nil {
		return nil, err
	}
	if email.Valid {
		identity.Email = &email.String
	}
	return &identity, nil
}

func (r *PostgresRepository) queryContacts(ctx context.Context, query string, args ...any) ([]domain.ContactEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Error().Err(err).Msg("contact entry query failed")
		return nil, repository.ErrDatabase
	}
	defer rows.Close()

	var out []domain.ContactEntry
	for rows.Next() {
		var c domain.ContactEntry
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.PhoneNumber, &c.DisplayName, &c.CreatedAt); err != nil {
			return nil, repository.ErrDatabase
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.ErrDatabase
	}
	return out, nil
}

func (r *PostgresRepository) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		r.log.Error().Err(err).Msg("spam report count failed")
		return 0, repository.ErrDatabase
	}
	return n, nil
}

func isUniqueViolation(err error) bool {
	return hasCode(err, uniqueViolation)
}

// isForeignKeyViolation reports an owner or reporter id with no identity row.
func isForeignKeyViolation(err error) bool {
	return hasCode(err, foreignKeyViolation)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
