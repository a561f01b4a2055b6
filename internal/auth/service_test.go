package auth

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/clipshelf/backend/internal/models"
	"github.com/clipshelf/backend/internal/repositories/repoerr"
)

type memoryUserStore struct {
	users map[string]models.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: make(map[string]models.User)}
}

func (s *memoryUserStore) Create(_ context.Context, user models.User) error {
	if _, exists := s.users[user.Username]; exists {
		return repoerr.ErrConflict
	}
	s.users[user.Username] = user
	return nil
}

func (s *memoryUserStore) FindByUsername(_ context.Context, username string) (models.User, error) {
	user, ok := s.users[username]
	if !ok {
		return models.User{}, repoerr.ErrNotFound
	}
	return user, nil
}

func TestLoginOrRegisterCreatesFirstSeenUser(t *testing.T) {
	store := newMemoryUserStore()
	service := NewService(store)

	user, err := service.LoginOrRegister(context.Background(), "Alice", "alice", "opensesame")
	if err != nil {
		t.Fatalf("login or register: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected an assigned id")
	}
	if user.PasswordHash == "opensesame" {
		t.Fatal("password stored unhashed")
	}

	stored := store.users["alice"]
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("opensesame")) != nil {
		t.Fatal("stored hash does not match the supplied password")
	}
}

func TestLoginOrRegisterReusesExistingUser(t *testing.T) {
	store := newMemoryUserStore()
	service := NewService(store)

	first, err := service.LoginOrRegister(context.Background(), "Alice", "alice", "opensesame")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}

	second, err := service.LoginOrRegister(context.Background(), "Alice", "alice", "opensesame")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("expected same user id, got %s and %s", first.ID, second.ID)
	}
	if len(store.users) != 1 {
		t.Fatalf("expected exactly one stored user, got %d", len(store.users))
	}
}

func TestLoginOrRegisterRejectsWrongPassword(t *testing.T) {
	store := newMemoryUserStore()
	service := NewService(store)

	if _, err := service.LoginOrRegister(context.Background(), "Alice", "alice", "opensesame"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := service.LoginOrRegister(context.Background(), "Alice", "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(store.users) != 1 {
		t.Fatalf("wrong password must not register a duplicate, got %d users", len(store.users))
	}
}

func TestLoginOrRegisterRejectsWrongName(t *testing.T) {
	store := newMemoryUserStore()
	service := NewService(store)

	if _, err := service.LoginOrRegister(context.Background(), "Alice", "alice", "opensesame"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := service.LoginOrRegister(context.Background(), "Mallory", "alice", "opensesame"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
