package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/clipshelf/backend/internal/models"
	"github.com/clipshelf/backend/internal/repositories/repoerr"
)

// ErrInvalidCredentials indicates the username exists but the supplied
// name or password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore captures the persistence operations required by the auth service.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByUsername(ctx context.Context, username string) (models.User, error)
}

// Service resolves login form submissions to user accounts. A username never
// seen before registers a new account in the same step; a known username must
// present the matching name and password.
type Service struct {
	Users   UserStore
	NowFunc func() time.Time
}

// NewService constructs an auth service over the provided user store.
func NewService(users UserStore) *Service {
	return &Service{Users: users}
}

// LoginOrRegister authenticates the credential triple, creating the account on
// first sight. A wrong password for an existing username is rejected rather
// than registering a duplicate.
func (s *Service) LoginOrRegister(ctx context.Context, name, username, password string) (models.User, error) {
	user, err := s.Users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return s.authenticate(user, name, password)
	case errors.Is(err, repoerr.ErrNotFound):
		return s.register(ctx, name, username, password)
	default:
		return models.User{}, fmt.Errorf("look up user: %w", err)
	}
}

func (s *Service) authenticate(user models.User, name, password string) (models.User, error) {
	if user.Name != name {
		return models.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) register(ctx context.Context, name, username, password string) (models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Username:     username,
		PasswordHash: string(hashed),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repoerr.ErrConflict) {
			// Lost a race with a concurrent registration; re-resolve.
			existing, findErr := s.Users.FindByUsername(ctx, username)
			if findErr != nil {
				return models.User{}, fmt.Errorf("resolve conflicting user: %w", findErr)
			}
			return s.authenticate(existing, name, password)
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (s *Service) now() time.Time {
	if s.NowFunc != nil {
		return s.NowFunc()
	}
	return time.Now().UTC()
}
