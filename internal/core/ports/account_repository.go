package ports

import (
	"context"

	"github.com/cargolink/cargo-portal/internal/core/domain"
)

// AccountFilter narrows directory listings. Zero values mean "no filter".
type AccountFilter struct {
	Role   domain.Role
	Active *bool
	Query  string
}

// AccountRepository defines persistence access for the user directory.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	List(ctx context.Context, filter AccountFilter) ([]domain.Account, error)
	UpdateRole(ctx context.Context, username string, role domain.Role) error
	SetActive(ctx context.Context, username string, active bool) error
	CountByRole(ctx context.Context) (domain.RoleCounts, error)
}
