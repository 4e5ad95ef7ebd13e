package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/soulearn/volunteer-api/internal/data/pgxutil"
	"github.com/soulearn/volunteer-api/internal/domain/model"
	apperrors "github.com/soulearn/volunteer-api/internal/errors"
	"github.com/soulearn/volunteer-api/internal/ports"
)

// SessionRecordRepo provides database operations for session audit rows.
type SessionRecordRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewSessionRecordRepo creates a new SessionRecordRepo with real time provider.
func NewSessionRecordRepo(db *sql.DB) *SessionRecordRepo {
	return &SessionRecordRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewSessionRecordRepoWithTimeProvider creates a new SessionRecordRepo with a
// custom time provider (useful for tests).
func NewSessionRecordRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *SessionRecordRepo {
	return &SessionRecordRepo{DB: db, timeProvider: tp}
}

// Create inserts an audit row for an issued session.
func (r *SessionRecordRepo) Create(
	ctx context.Context,
	req *model.CreateSessionRecordRequest,
) (*model.SessionRecord, error) {
	if req == nil {
		return nil, errors.New("create session record request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	createdAt := r.timeProvider.Now().UTC()
	var out model.SessionRecord
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO sessions (
				volunteer_id, session_id, ip_address, user_agent, created_at, expires_at
			) VALUES (
				$1, $2, $3, $4, $5, $6
			) RETURNING id, volunteer_id, session_id, ip_address, user_agent, created_at, expires_at
		`,
			req.VolunteerID,
			req.SessionID,
			req.IPAddress,
			req.UserAgent,
			createdAt,
			req.ExpiresAt.UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.SessionRecord])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create session record: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}

// DeleteBySessionID removes every audit row carrying the session token id.
// Deleting zero rows is not an error; logout is idempotent.
func (r *SessionRecordRepo) DeleteBySessionID(ctx context.Context, sessionID string) (int64, error) {
	if sessionID == "" {
		return 0, errors.New("session_id is required")
	}

	var deleted int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM sessions WHERE session_id = $1`, sessionID)
		if err != nil {
			return err
		}
		deleted = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete session records: %w", apperrors.MapDBError(err))
	}
	return deleted, nil
}

// DeleteExpired removes up to params.Limit audit rows with expires_at before
// the cutoff. Postgres DELETE has no LIMIT clause, so the batch is selected
// by a subquery on the expires_at index.
func (r *SessionRecordRepo) DeleteExpired(
	ctx context.Context,
	params ports.DeleteExpiredParams,
) (int64, error) {
	if params.OlderThan.IsZero() {
		return 0, errors.New("cutoff time is required")
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 1000
	}

	var deleted int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `
			DELETE FROM sessions
			WHERE id IN (
				SELECT id FROM sessions
				WHERE expires_at < $1
				ORDER BY expires_at
				LIMIT $2
			)`, params.OlderThan.UTC(), limit)
		if err != nil {
			return err
		}
		deleted = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired session records: %w", apperrors.MapDBError(err))
	}
	return deleted, nil
}
