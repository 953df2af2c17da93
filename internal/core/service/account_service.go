package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/cargolink/cargo-portal/internal/core/domain"
	"github.com/cargolink/cargo-portal/internal/core/ports"
)

// minPasswordLength is the delegated password strength policy.
const minPasswordLength = 8

// AccountService implements registration, login and logout.
type AccountService struct {
	repo       ports.AccountRepository
	sessions   ports.SessionStore
	jwtSecret  string
	sessionTTL time.Duration
	bcryptCost int
}

func NewAccountService(repo ports.AccountRepository, sessions ports.SessionStore, jwtSecret string, sessionTTL time.Duration, bcryptCost int) *AccountService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AccountService{
		repo:       repo,
		sessions:   sessions,
		jwtSecret:  jwtSecret,
		sessionTTL: sessionTTL,
		bcryptCost: bcryptCost,
	}
}

// Register creates a new account and returns a session token for it, so the
// caller is logged in immediately. Validation runs in a fixed order:
// username uniqueness, password confirmation, password strength. On any
// failure nothing is persisted.
func (s *AccountService) Register(ctx context.Context, input ports.RegisterInput) (string, *domain.Account, error) {
	if !input.Role.Valid() {
		return "", nil, domain.NewValidationError("role", "role must be one of: client, driver, clearance_agent, admin")
	}

	// Friendly pre-check only; the unique index remains authoritative.
	if _, err := s.repo.FindByUsername(ctx, input.Username); err == nil {
		return "", nil, domain.NewValidationError("username", "username already taken")
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return "", nil, err
	}

	if input.Password != input.PasswordConfirm {
		return "", nil, domain.NewValidationError("password_confirm", "passwords do not match")
	}
	if len(input.Password) < minPasswordLength {
		return "", nil, domain.NewValidationError("password", "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	account := &domain.Account{
		Username:     input.Username,
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: string(hash),
		Role:         input.Role,
		PhoneNumber:  input.PhoneNumber,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			// Lost the race against a concurrent registration.
			return "", nil, domain.NewValidationError("username", "username already taken")
		}
		return "", nil, err
	}

	token, err := s.generateToken(created)
	if err != nil {
		return "", nil, err
	}
	return token, created, nil
}

// Login verifies credentials and returns a session token. All failure modes
// collapse into ErrInvalidCredentials so the response never discloses
// whether the username exists or the account is inactive.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, *domain.Account, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !account.IsActive {
		return "", nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(account)
	if err != nil {
		return "", nil, err
	}
	return token, account, nil
}

// Logout revokes the session unconditionally. The denylist entry only needs
// to outlive the token itself.
func (s *AccountService) Logout(ctx context.Context, principal domain.Principal) error {
	remaining := time.Until(principal.ExpiresAt)
	if remaining <= 0 {
		remaining = time.Minute
	}
	return s.sessions.Revoke(ctx, principal.SessionID, remaining)
}

func (s *AccountService) generateToken(account *domain.Account) (string, error) {
	claims := jwt.MapClaims{
		"username": account.Username,
		"role":     string(account.Role),
		"jti":      uuid.NewString(),
		"exp":      time.Now().Add(s.sessionTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
