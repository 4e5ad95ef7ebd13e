package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/soulearn/volunteer-api/internal/data/pgxutil"
	"github.com/soulearn/volunteer-api/internal/domain/model"
	apperrors "github.com/soulearn/volunteer-api/internal/errors"
)

// VolunteerRepo provides database operations for volunteer credential records.
type VolunteerRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewVolunteerRepo creates a new VolunteerRepo with real time provider.
func NewVolunteerRepo(db *sql.DB) *VolunteerRepo {
	return &VolunteerRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewVolunteerRepoWithTimeProvider creates a new VolunteerRepo with a custom
// time provider (useful for tests).
func NewVolunteerRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *VolunteerRepo {
	return &VolunteerRepo{DB: db, timeProvider: tp}
}

// Create inserts a new volunteer with the given password hash. The request
// must already be validated; email is normalized and name sanitized again
// here to keep the store consistent even for direct callers.
//
// Duplicate emails surface as ErrEmailExists via the unique index rather
// than a racy pre-check.
func (r *VolunteerRepo) Create(
	ctx context.Context,
	req *model.RegisterVolunteerRequest,
	passwordHash string,
) (*model.Volunteer, error) {
	if req == nil {
		return nil, errors.New("register volunteer request is required")
	}
	if passwordHash == "" {
		return nil, errors.New("password hash is required")
	}

	createdAt := r.timeProvider.Now().UTC()
	var out model.Volunteer
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO volunteers (
				email, password_hash, name, profile, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $5
			) RETURNING id, email, password_hash, name, role, status, profile, created_at, updated_at, last_login
		`,
			model.NormalizeEmail(req.Email),
			passwordHash,
			model.SanitizeName(req.Name),
			model.EmptyProfile(),
			createdAt,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Volunteer])
		return err
	}); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create volunteer: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}

// GetByEmail retrieves a volunteer by normalized email regardless of status.
func (r *VolunteerRepo) GetByEmail(ctx context.Context, email string) (*model.Volunteer, error) {
	return r.getByQuery(ctx, volunteerGetByEmailQuery, "failed to get volunteer by email",
		model.NormalizeEmail(email))
}

// GetActiveByEmail retrieves an active volunteer by normalized email.
func (r *VolunteerRepo) GetActiveByEmail(ctx context.Context, email string) (*model.Volunteer, error) {
	return r.getByQuery(ctx, volunteerGetActiveByEmailQuery, "failed to get active volunteer by email",
		model.NormalizeEmail(email))
}

// GetActiveByID retrieves an active volunteer by ID.
func (r *VolunteerRepo) GetActiveByID(ctx context.Context, id string) (*model.Volunteer, error) {
	return r.getByQuery(ctx, volunteerGetActiveByIDQuery, "failed to get active volunteer by ID", id)
}

// TouchLogin sets last_login and updated_at for the volunteer. A missing
// row maps to ErrVolunteerNotFound.
func (r *VolunteerRepo) TouchLogin(ctx context.Context, id string) error {
	now := r.timeProvider.Now().UTC()
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx,
			`UPDATE volunteers SET last_login = $2, updated_at = $2 WHERE id = $1`,
			id, now)
		if err != nil {
			return err
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to touch login: %w", apperrors.MapDBError(err))
	}
	if affected == 0 {
		return ErrVolunteerNotFound
	}
	return nil
}

// SQL query constants for static queries. The lookups filter by the
// expression backing the unique index (lower(email)) so a caller that skips
// normalization still hits the same row.
const (
	volunteerColumns = `id, email, password_hash, name, role, status, profile, created_at, updated_at, last_login`

	volunteerGetByEmailQuery = `
		SELECT ` + volunteerColumns + `
		FROM volunteers
		WHERE lower(email) = $1`

	volunteerGetActiveByEmailQuery = `
		SELECT ` + volunteerColumns + `
		FROM volunteers
		WHERE lower(email) = $1 AND status = 'active'`

	volunteerGetActiveByIDQuery = `
		SELECT ` + volunteerColumns + `
		FROM volunteers
		WHERE id = $1 AND status = 'active'`
)

// getByQuery executes a single-row volunteer lookup.
func (r *VolunteerRepo) getByQuery(
	ctx context.Context,
	q string,
	errMsg string,
	args ...any,
) (*model.Volunteer, error) {
	var v model.Volunteer
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		v, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Volunteer])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVolunteerNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsg, apperrors.MapDBError(err))
	}
	return &v, nil
}
