package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulearn/volunteer-api/internal/domain/auth"
	"github.com/soulearn/volunteer-api/internal/domain/model"
	apperrors "github.com/soulearn/volunteer-api/internal/errors"
	"github.com/soulearn/volunteer-api/internal/testutil"
)

func TestVolunteerRepo_Integration_CreateAndGet(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewVolunteerRepo(db)
		ctx := context.Background()

		created, err := repo.Create(ctx, &model.RegisterVolunteerRequest{
			Name:     "Ana Souza",
			Email:    "  Ana.Souza@Example.COM ",
			Password: "SecurePass1!",
		}, "$argon2id$v=19$m=65536,t=3,p=2$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g")
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "ana.souza@example.com", created.Email, "email stored normalized")
		assert.Equal(t, auth.RoleVolunteer, created.Role)
		assert.Equal(t, model.VolunteerStatusActive, created.Status)
		assert.JSONEq(t, `{"avatar":null,"bio":"","phone":"","address":""}`, string(created.Profile))
		assert.Nil(t, created.LastLogin)

		// Lookup is case-insensitive either way.
		got, err := repo.GetByEmail(ctx, "ANA.SOUZA@example.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)

		active, err := repo.GetActiveByEmail(ctx, "ana.souza@example.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, active.ID)

		byID, err := repo.GetActiveByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Email, byID.Email)
	})
}

func TestVolunteerRepo_Integration_DuplicateEmail(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewVolunteerRepo(db)
		ctx := context.Background()

		req := &model.RegisterVolunteerRequest{
			Name:     "First",
			Email:    "dupe@example.com",
			Password: "SecurePass1!",
		}
		_, err := repo.Create(ctx, req, "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA")
		require.NoError(t, err)

		// Same address in different case still collides on the unique index.
		_, err = repo.Create(ctx, &model.RegisterVolunteerRequest{
			Name:     "Second",
			Email:    "DUPE@Example.com",
			Password: "SecurePass1!",
		}, "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA")
		assert.ErrorIs(t, err, ErrEmailExists)
	})
}

func TestVolunteerRepo_Integration_NotFound(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewVolunteerRepo(db)
		ctx := context.Background()

		_, err := repo.GetByEmail(ctx, "missing@example.com")
		assert.ErrorIs(t, err, ErrVolunteerNotFound)

		_, err = repo.GetActiveByID(ctx, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, ErrVolunteerNotFound)
	})
}

func TestVolunteerRepo_Integration_CanceledContext(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewVolunteerRepo(db)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// Database faults come back carrying the shared error taxonomy.
		_, err := repo.GetByEmail(ctx, "missing@example.com")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeCanceled, apperrors.GetCode(err))
	})
}

func TestVolunteerRepo_Integration_InactiveFiltered(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewVolunteerRepo(db)
		ctx := context.Background()

		created, err := repo.Create(ctx, &model.RegisterVolunteerRequest{
			Name:     "Dormant",
			Email:    "dormant@example.com",
			Password: "SecurePass1!",
		}, "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA")
		require.NoError(t, err)

		_, err = db.ExecContext(ctx,
			`UPDATE volunteers SET status = 'inactive' WHERE id = $1`, created.ID)
		require.NoError(t, err)

		// Plain lookup still sees the row, active lookups do not.
		_, err = repo.GetByEmail(ctx, "dormant@example.com")
		require.NoError(t, err)

		_, err = repo.GetActiveByEmail(ctx, "dormant@example.com")
		assert.ErrorIs(t, err, ErrVolunteerNotFound)

		_, err = repo.GetActiveByID(ctx, created.ID)
		assert.ErrorIs(t, err, ErrVolunteerNotFound)
	})
}

func TestVolunteerRepo_Integration_TouchLogin(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		fixed := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
		tp := NewFixedTimeProvider(fixed)
		repo := NewVolunteerRepoWithTimeProvider(db, tp)
		ctx := context.Background()

		created, err := repo.Create(ctx, &model.RegisterVolunteerRequest{
			Name:     "Login Tester",
			Email:    "login@example.com",
			Password: "SecurePass1!",
		}, "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA")
		require.NoError(t, err)
		require.Nil(t, created.LastLogin)

		tp.AddTime(2 * time.Hour)
		require.NoError(t, repo.TouchLogin(ctx, created.ID))

		got, err := repo.GetActiveByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastLogin)
		assert.WithinDuration(t, fixed.Add(2*time.Hour), *got.LastLogin, time.Second)

		err = repo.TouchLogin(ctx, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, ErrVolunteerNotFound)
	})
}
