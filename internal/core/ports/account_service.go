package ports

import (
	"context"

	"github.com/cargolink/cargo-portal/internal/core/domain"
)

// RegisterInput carries the registration form fields. Required-field
// presence is checked at the transport boundary before this reaches the
// service.
type RegisterInput struct {
	Username        string
	Email           string
	FirstName       string
	LastName        string
	Role            domain.Role
	PhoneNumber     string
	Password        string
	PasswordConfirm string
}

// AccountService implements the registration and authentication flow.
// Register and Login both return a signed session token alongside the
// account so the handler can establish the session immediately.
type AccountService interface {
	Register(ctx context.Context, input RegisterInput) (string, *domain.Account, error)
	Login(ctx context.Context, username, password string) (string, *domain.Account, error)
	Logout(ctx context.Context, principal domain.Principal) error
}
