package service

import (
	"context"
	"fmt"

	"github.com/cargolink/cargo-portal/internal/core/domain"
	"github.com/cargolink/cargo-portal/internal/core/ports"
)

// DirectoryService exposes administrative operations over the user
// directory: listings, per-role counts and bulk mutations. Role, is_active
// and is_staff have no self-service path; everything here sits behind the
// admin guard.
type DirectoryService struct {
	repo ports.AccountRepository
}

func NewDirectoryService(repo ports.AccountRepository) *DirectoryService {
	return &DirectoryService{repo: repo}
}

func (s *DirectoryService) Get(ctx context.Context, username string) (*domain.Account, error) {
	return s.repo.FindByUsername(ctx, username)
}

func (s *DirectoryService) List(ctx context.Context, filter ports.AccountFilter) ([]domain.Account, error) {
	return s.repo.List(ctx, filter)
}

// Counts returns the live number of accounts per role. Always a fresh read,
// never cached.
func (s *DirectoryService) Counts(ctx context.Context) (domain.RoleCounts, error) {
	return s.repo.CountByRole(ctx)
}

// Apply runs one bulk action over a set of usernames. Rows are updated
// independently; a failure on one username does not roll back the others.
func (s *DirectoryService) Apply(ctx context.Context, input ports.BulkActionInput) (*ports.BulkOutcome, error) {
	switch input.Action {
	case ports.BulkActionActivate, ports.BulkActionDeactivate, ports.BulkActionSetRole:
	default:
		return nil, domain.NewValidationError("action", "action must be one of: activate, deactivate, set_role")
	}
	if len(input.Usernames) == 0 {
		return nil, domain.NewValidationError("usernames", "at least one username is required")
	}
	if input.Action == ports.BulkActionSetRole && !input.Role.Valid() {
		return nil, domain.NewValidationError("role", "role must be one of: client, driver, clearance_agent, admin")
	}

	outcome := &ports.BulkOutcome{}
	for _, username := range input.Usernames {
		var err error
		switch input.Action {
		case ports.BulkActionActivate:
			err = s.repo.SetActive(ctx, username, true)
		case ports.BulkActionDeactivate:
			err = s.repo.SetActive(ctx, username, false)
		case ports.BulkActionSetRole:
			err = s.repo.UpdateRole(ctx, username, input.Role)
		}
		if err != nil {
			if outcome.Failed == nil {
				outcome.Failed = make(map[string]string)
			}
			outcome.Failed[username] = err.Error()
			continue
		}
		outcome.Updated = append(outcome.Updated, username)
	}

	outcome.Message = fmt.Sprintf("%d accounts updated.", len(outcome.Updated))
	return outcome, nil
}
