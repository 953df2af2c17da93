package ports

import (
	"context"

	"github.com/cargolink/cargo-portal/internal/core/domain"
)

// Bulk administrative actions over a set of accounts.
const (
	BulkActionActivate   = "activate"
	BulkActionDeactivate = "deactivate"
	BulkActionSetRole    = "set_role"
)

// BulkActionInput describes one administrative bulk operation.
type BulkActionInput struct {
	Action    string
	Usernames []string
	Role      domain.Role
}

// BulkOutcome reports per-username results. Accounts are updated
// row-by-row; partial application on partial failure is accepted.
type BulkOutcome struct {
	Updated []string          `json:"updated"`
	Failed  map[string]string `json:"failed,omitempty"`
	Message string            `json:"message"`
}

// DirectoryService exposes the administrative view of the user directory.
type DirectoryService interface {
	Get(ctx context.Context, username string) (*domain.Account, error)
	List(ctx context.Context, filter AccountFilter) ([]domain.Account, error)
	Counts(ctx context.Context) (domain.RoleCounts, error)
	Apply(ctx context.Context, input BulkActionInput) (*BulkOutcome, error)
}
