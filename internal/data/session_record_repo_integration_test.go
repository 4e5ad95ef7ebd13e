package data

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulearn/volunteer-api/internal/domain/model"
	"github.com/soulearn/volunteer-api/internal/ports"
	"github.com/soulearn/volunteer-api/internal/testutil"
)

// seedVolunteer inserts a volunteer row for session records to reference.
func seedVolunteer(t *testing.T, db *sql.DB, email string) string {
	t.Helper()
	repo := NewVolunteerRepo(db)
	v, err := repo.Create(context.Background(), &model.RegisterVolunteerRequest{
		Name:     "Session Owner",
		Email:    email,
		Password: "SecurePass1!",
	}, "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA")
	require.NoError(t, err)
	return v.ID
}

func TestSessionRecordRepo_Integration_Create(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewSessionRecordRepo(db)
		ctx := context.Background()
		volunteerID := seedVolunteer(t, db, "owner@example.com")
		expires := time.Now().Add(time.Hour)

		rec, err := repo.Create(ctx, &model.CreateSessionRecordRequest{
			VolunteerID: volunteerID,
			SessionID:   uuid.NewString(),
			IPAddress:   "203.0.113.7",
			UserAgent:   "Mozilla/5.0",
			ExpiresAt:   expires,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, rec.ID)
		assert.Equal(t, volunteerID, rec.VolunteerID)
		assert.Equal(t, "203.0.113.7", rec.IPAddress)
		assert.WithinDuration(t, expires, rec.ExpiresAt, time.Second)

		// Missing client metadata is recorded as "unknown", not rejected.
		rec2, err := repo.Create(ctx, &model.CreateSessionRecordRequest{
			VolunteerID: volunteerID,
			SessionID:   uuid.NewString(),
			ExpiresAt:   expires,
		})
		require.NoError(t, err)
		assert.Equal(t, "unknown", rec2.IPAddress)
		assert.Equal(t, "unknown", rec2.UserAgent)
	})
}

func TestSessionRecordRepo_Integration_DeleteBySessionID(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewSessionRecordRepo(db)
		ctx := context.Background()
		volunteerID := seedVolunteer(t, db, "multi@example.com")
		token := uuid.NewString()
		expires := time.Now().Add(time.Hour)

		// Two rows under the same token, one under another.
		for range 2 {
			_, err := repo.Create(ctx, &model.CreateSessionRecordRequest{
				VolunteerID: volunteerID,
				SessionID:   token,
				ExpiresAt:   expires,
			})
			require.NoError(t, err)
		}
		_, err := repo.Create(ctx, &model.CreateSessionRecordRequest{
			VolunteerID: volunteerID,
			SessionID:   uuid.NewString(),
			ExpiresAt:   expires,
		})
		require.NoError(t, err)

		deleted, err := repo.DeleteBySessionID(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted)

		// Idempotent: deleting again removes nothing and does not error.
		deleted, err = repo.DeleteBySessionID(ctx, token)
		require.NoError(t, err)
		assert.Zero(t, deleted)
	})
}

func TestSessionRecordRepo_Integration_DeleteExpired(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewSessionRecordRepo(db)
		ctx := context.Background()
		volunteerID := seedVolunteer(t, db, "sweep@example.com")
		now := time.Now()

		for i := range 5 {
			_, err := repo.Create(ctx, &model.CreateSessionRecordRequest{
				VolunteerID: volunteerID,
				SessionID:   fmt.Sprintf("expired-%d", i),
				ExpiresAt:   now.Add(-time.Duration(i+1) * time.Hour),
			})
			require.NoError(t, err)
		}
		_, err := repo.Create(ctx, &model.CreateSessionRecordRequest{
			VolunteerID: volunteerID,
			SessionID:   "live",
			ExpiresAt:   now.Add(time.Hour),
		})
		require.NoError(t, err)

		// Batched: limit caps each sweep.
		deleted, err := repo.DeleteExpired(ctx, ports.DeleteExpiredParams{
			OlderThan: now,
			Limit:     3,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), deleted)

		deleted, err = repo.DeleteExpired(ctx, ports.DeleteExpiredParams{
			OlderThan: now,
			Limit:     10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted)

		// The live row survives.
		var remaining int
		require.NoError(t, db.QueryRowContext(ctx,
			`SELECT count(*) FROM sessions`).Scan(&remaining))
		assert.Equal(t, 1, remaining)
	})
}
