// Package seed provisions initial accounts from a YAML file at startup.
// This is the administrative provisioning path: the first admin account is
// normally created here rather than through the public registration form.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/cargolink/cargo-portal/internal/core/domain"
	"github.com/cargolink/cargo-portal/internal/core/ports"
)

type seedFile struct {
	Accounts []seedAccount `yaml:"accounts"`
}

type seedAccount struct {
	Username    string `yaml:"username"`
	Email       string `yaml:"email"`
	FirstName   string `yaml:"first_name"`
	LastName    string `yaml:"last_name"`
	Password    string `yaml:"password"`
	Role        string `yaml:"role"`
	PhoneNumber string `yaml:"phone_number"`
	IsStaff     bool   `yaml:"is_staff"`
}

// Apply creates every account in the file that does not already exist.
// Existing usernames are skipped, so re-running on restart is safe.
func Apply(ctx context.Context, path string, repo ports.AccountRepository, bcryptCost int, log zerolog.Logger) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	for _, entry := range file.Accounts {
		if entry.Username == "" || entry.Password == "" {
			return fmt.Errorf("seed account missing username or password")
		}
		role := domain.Role(entry.Role)
		if !role.Valid() {
			return fmt.Errorf("seed account %q has unknown role %q", entry.Username, entry.Role)
		}

		if _, err := repo.FindByUsername(ctx, entry.Username); err == nil {
			log.Debug().Str("username", entry.Username).Msg("seed account already exists, skipping")
			continue
		} else if !errors.Is(err, domain.ErrAccountNotFound) {
			return fmt.Errorf("check seed account %q: %w", entry.Username, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(entry.Password), bcryptCost)
		if err != nil {
			return fmt.Errorf("hash seed password for %q: %w", entry.Username, err)
		}

		now := time.Now().UTC()
		account := &domain.Account{
			Username:     entry.Username,
			Email:        entry.Email,
			FirstName:    entry.FirstName,
			LastName:     entry.LastName,
			PasswordHash: string(hash),
			Role:         role,
			PhoneNumber:  entry.PhoneNumber,
			IsActive:     true,
			IsStaff:      entry.IsStaff,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if _, err := repo.Create(ctx, account); err != nil {
			if errors.Is(err, domain.ErrUsernameTaken) {
				continue
			}
			return fmt.Errorf("create seed account %q: %w", entry.Username, err)
		}
		log.Info().Str("username", entry.Username).Str("role", entry.Role).Msg("seed account created")
	}
	return nil
}
