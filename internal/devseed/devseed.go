// Package devseed populates a development database with demo volunteers.
package devseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/soulearn/volunteer-api/internal/data"
	"github.com/soulearn/volunteer-api/internal/data/cryptoutil"
	"github.com/soulearn/volunteer-api/internal/domain/model"
)

// seedVolunteer describes one demo account.
type seedVolunteer struct {
	Name     string
	Email    string
	Password string
	Admin    bool
}

// demoVolunteers are the accounts created by `volunteer-admin db-seed`.
// Passwords satisfy the registration policy so the same accounts can be
// recreated through the API.
func demoVolunteers() []seedVolunteer {
	return []seedVolunteer{
		{Name: "Portal Admin", Email: "admin@soulearn.local", Password: "Admin123!", Admin: true},
		{Name: "Ana Souza", Email: "ana@soulearn.local", Password: "Volunteer1!"},
		{Name: "Bruno Lima", Email: "bruno@soulearn.local", Password: "Volunteer1!"},
	}
}

// Run creates the demo volunteers, skipping any that already exist.
// Seeding is idempotent; rerunning against a seeded database is a no-op.
func Run(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "devseed")

	repo := data.NewVolunteerRepo(db)
	hasher := cryptoutil.NewArgon2Hasher(cryptoutil.DefaultArgon2Params())

	for _, seed := range demoVolunteers() {
		if err := createVolunteer(ctx, db, repo, hasher, seed, logger); err != nil {
			return err
		}
	}

	return nil
}

func createVolunteer(
	ctx context.Context,
	db *sql.DB,
	repo *data.VolunteerRepo,
	hasher *cryptoutil.Argon2Hasher,
	seed seedVolunteer,
	logger *slog.Logger,
) error {
	hash, err := hasher.Hash(seed.Password)
	if err != nil {
		return fmt.Errorf("hash password for %s: %w", seed.Email, err)
	}

	volunteer, err := repo.Create(ctx, &model.RegisterVolunteerRequest{
		Name:     seed.Name,
		Email:    seed.Email,
		Password: seed.Password,
	}, hash)
	if err != nil {
		if errors.Is(err, data.ErrEmailExists) {
			logger.InfoContext(ctx, "volunteer already present, skipping", "email", seed.Email)
			return nil
		}
		return fmt.Errorf("seed volunteer %s: %w", seed.Email, err)
	}

	if seed.Admin {
		if _, err := db.ExecContext(ctx,
			`UPDATE volunteers SET role = 'admin' WHERE id = $1`, volunteer.ID); err != nil {
			return fmt.Errorf("promote %s to admin: %w", seed.Email, err)
		}
	}

	logger.InfoContext(ctx, "volunteer seeded", "email", seed.Email, "admin", seed.Admin)
	return nil
}
