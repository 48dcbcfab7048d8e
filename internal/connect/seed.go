package connect

import (
	"context"
	"log/slog"

	"github.com/kofi-bentum/tastebay/internal/helpers"
	"github.com/kofi-bentum/tastebay/internal/models"
)

// SeedAdmin creates the first admin account from ADMIN_EMAIL/ADMIN_PASSWORD.
// Skipped when the variables are unset or the account already exists.
func SeedAdmin(ctx context.Context, repo models.UserRepo, email, password string, logger *slog.Logger) error {
	if email == "" || password == "" {
		logger.Warn("skip seeding admin: missing ADMIN_EMAIL/ADMIN_PASSWORD")
		return nil
	}

	existing, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		logger.Info("admin already exists", "email", email)
		return nil
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = repo.CreateUser(ctx, &models.User{
		FirstName: "Admin",
		LastName:  "Seed",
		Email:     email,
		Password:  hash,
		Role:      models.RoleAdmin,
	})
	if err != nil {
		return err
	}
	logger.Info("seeded admin user", "email", email)
	return nil
}
